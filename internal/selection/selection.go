// Package selection holds per-view interaction state. It references data
// only by index and never copies entity values, except the hovered cell's
// value which is captured for the tooltip.
package selection

import "strings"

// Cell is a hovered heatmap cell. Row is the query position, Col the key position.
type Cell struct {
	Row   int
	Col   int
	Value float64
}

// Attention is the attention view's selection.
type Attention struct {
	Head    int
	Hovered *Cell
}

// Behavior is the behavior view's selection.
type Behavior struct {
	Head int
}

// Tokens is the token confidence view's selection.
type Tokens struct {
	Hovered  int
	HasHover bool
}

// Analogy holds the word lists used for vector arithmetic. Cursor indexes
// the concatenation of Positive then Negative.
type Analogy struct {
	Positive []string
	Negative []string
	Cursor   int
}

// Store partitions selection state by view. Views never read each other's records.
type Store struct {
	Attention Attention
	Behavior  Behavior
	Tokens    Tokens
	Analogy   Analogy
}

// New returns a store with heads at 0, nothing hovered and the given
// analogy word lists.
func New(positive, negative []string) *Store {
	return &Store{
		Analogy: Analogy{
			Positive: append([]string(nil), positive...),
			Negative: append([]string(nil), negative...),
		},
	}
}

// ClampHead bounds head to [0, numHeads-1]. With no heads it returns 0.
func ClampHead(head, numHeads int) int {
	if numHeads <= 0 || head < 0 {
		return 0
	}
	if head >= numHeads {
		return numHeads - 1
	}
	return head
}

// SelectHead sets the head, clamped to the heads currently loaded.
func (a *Attention) SelectHead(head, numHeads int) {
	head = ClampHead(head, numHeads)
	if head != a.Head {
		a.Hovered = nil
	}
	a.Head = head
}

// NextHead advances to the next head without wrapping.
func (a *Attention) NextHead(numHeads int) {
	a.SelectHead(a.Head+1, numHeads)
}

// PrevHead steps back to the previous head without wrapping.
func (a *Attention) PrevHead(numHeads int) {
	a.SelectHead(a.Head-1, numHeads)
}

// Clamp re-bounds the selection after a fetch changed the head count.
// The hovered cell is dropped because it indexes the old tensor.
func (a *Attention) Clamp(numHeads int) {
	clamped := ClampHead(a.Head, numHeads)
	if clamped != a.Head || numHeads == 0 {
		a.Hovered = nil
	}
	a.Head = clamped
}

// HoverCell records the cell under the cursor.
func (a *Attention) HoverCell(row, col int, value float64) {
	a.Hovered = &Cell{Row: row, Col: col, Value: value}
}

// ClearHover makes the hovered cell absent.
func (a *Attention) ClearHover() {
	a.Hovered = nil
}

func (b *Behavior) SelectHead(head, numHeads int) {
	b.Head = ClampHead(head, numHeads)
}

func (b *Behavior) NextHead(numHeads int) {
	b.SelectHead(b.Head+1, numHeads)
}

func (b *Behavior) PrevHead(numHeads int) {
	b.SelectHead(b.Head-1, numHeads)
}

// Clamp re-bounds the selection after a fetch changed the head count.
func (b *Behavior) Clamp(numHeads int) {
	b.Head = ClampHead(b.Head, numHeads)
}

// Hover sets the hovered token index, bounded to [0, n-1].
func (t *Tokens) Hover(index, n int) {
	if n <= 0 {
		t.Clear()
		return
	}
	t.Hovered = ClampHead(index, n)
	t.HasHover = true
}

// Move shifts the hovered token by delta. With nothing hovered it starts at
// the first token.
func (t *Tokens) Move(delta, n int) {
	if !t.HasHover {
		t.Hover(0, n)
		return
	}
	t.Hover(t.Hovered+delta, n)
}

// Clear makes the hovered token absent.
func (t *Tokens) Clear() {
	t.Hovered = 0
	t.HasHover = false
}

// Index returns the hovered index and whether one is set.
func (t Tokens) Index() (int, bool) {
	return t.Hovered, t.HasHover
}

// AddPositive appends a trimmed word. Blank words are ignored.
func (a *Analogy) AddPositive(word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	a.Positive = append(a.Positive, word)
	return true
}

// AddNegative appends a trimmed word. Blank words are ignored.
func (a *Analogy) AddNegative(word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	a.Negative = append(a.Negative, word)
	return true
}

// Len is the number of chips across both lists.
func (a Analogy) Len() int {
	return len(a.Positive) + len(a.Negative)
}

// Empty reports whether both lists are empty.
func (a Analogy) Empty() bool {
	return a.Len() == 0
}

// MoveCursor shifts the chip cursor, bounded to the chips present.
func (a *Analogy) MoveCursor(delta int) {
	a.Cursor = ClampHead(a.Cursor+delta, a.Len())
}

// Remove deletes the chip at index i of the combined list.
func (a *Analogy) Remove(i int) bool {
	switch {
	case i < 0 || i >= a.Len():
		return false
	case i < len(a.Positive):
		a.Positive = append(a.Positive[:i:i], a.Positive[i+1:]...)
	default:
		j := i - len(a.Positive)
		a.Negative = append(a.Negative[:j:j], a.Negative[j+1:]...)
	}
	a.Cursor = ClampHead(a.Cursor, a.Len())
	return true
}

// RemoveAtCursor deletes the chip under the cursor.
func (a *Analogy) RemoveAtCursor() bool {
	return a.Remove(a.Cursor)
}

// Words returns copies of both lists for a request.
func (a Analogy) Words() (positive, negative []string) {
	return append([]string(nil), a.Positive...), append([]string(nil), a.Negative...)
}

// Equation renders the lists as "a + b - c = ?".
func (a Analogy) Equation() string {
	if a.Empty() {
		return "? = ?"
	}
	var b strings.Builder
	for i, w := range a.Positive {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(w)
	}
	for i, w := range a.Negative {
		if i > 0 || len(a.Positive) > 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString("-")
		}
		b.WriteString(w)
	}
	b.WriteString(" = ?")
	return b.String()
}
