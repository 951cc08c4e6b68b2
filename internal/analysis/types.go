// Package analysis is the typed boundary to the model analysis service.
// Entities returned here are immutable once received; callers replace them
// wholesale on the next successful query and never mutate them in place.
package analysis

import (
	"encoding/json"
	"fmt"
)

// Request carries the inputs for a single query. Only the fields an
// operation needs are sent on the wire.
type Request struct {
	Text          string
	TopK          int
	PositiveWords []string
	NegativeWords []string
}

// Prediction is one ranked next-token candidate.
type Prediction struct {
	Token string  `json:"token"`
	Prob  float64 `json:"prob"`
	ID    int     `json:"id,omitempty"`
}

// PredictionSet is ordered by descending probability as returned by the service.
type PredictionSet []Prediction

// AttentionTensor holds raw attention weights indexed heads x query x key.
type AttentionTensor struct {
	Attention [][][]float64 `json:"attention"`
	Tokens    []string      `json:"tokens"`
}

// NumHeads returns the number of heads in the tensor.
func (t AttentionTensor) NumHeads() int {
	return len(t.Attention)
}

// HeadEigenvalues is the eigen-spectrum of one head's attention pattern.
type HeadEigenvalues struct {
	Head           int       `json:"head"`
	Eigenvalues    []float64 `json:"eigenvalues"`
	RankEstimate   int       `json:"rank_estimate"`
	NumSignificant int       `json:"num_significant"`
}

// EigenSpectrum has one entry per head.
type EigenSpectrum []HeadEigenvalues

// HeadSingularValues is the singular-value spectrum of one head's OV circuit.
type HeadSingularValues struct {
	Head           int       `json:"head"`
	SingularValues []float64 `json:"singular_values"`
}

// WeightSpectrum has one entry per head.
type WeightSpectrum []HeadSingularValues

// EmbeddingPoint is one token projected into two dimensions.
type EmbeddingPoint struct {
	Token string  `json:"token"`
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// EmbeddingProjection keeps the service's insertion order.
type EmbeddingProjection []EmbeddingPoint

// CopyingExample is a position pair where a head attended to an identical token.
type CopyingExample struct {
	Token     string  `json:"token"`
	FromPos   int     `json:"from_pos"`
	ToPos     int     `json:"to_pos"`
	Attention float64 `json:"attention"`
}

// InductionExample is a query that attended to the token following an
// earlier occurrence of itself.
type InductionExample struct {
	PatternToken string  `json:"pattern_token"`
	NextToken    string  `json:"next_token"`
	PatternPos   int     `json:"pattern_pos"`
	QueryPos     int     `json:"query_pos"`
	Attention    float64 `json:"attention"`
}

// HeadBehavior classifies one head.
type HeadBehavior struct {
	Head              int                `json:"head"`
	BehaviorType      BehaviorType       `json:"behavior_type"`
	CopyingScore      float64            `json:"copying_score"`
	InductionScore    float64            `json:"induction_score"`
	DiagonalScore     float64            `json:"diagonal_score"`
	PrevTokenScore    float64            `json:"prev_token_score"`
	CopyingExamples   []CopyingExample   `json:"copying_examples"`
	InductionExamples []InductionExample `json:"induction_examples"`
}

// BehaviorProfile has one entry per head.
type BehaviorProfile []HeadBehavior

// LensPosition compares intermediate and final predictions at one position.
type LensPosition struct {
	Token        string        `json:"token"`
	PreAttention PredictionSet `json:"pre_attention"`
	Final        PredictionSet `json:"final"`
}

// LogitLensTrace has one entry per sequence position.
type LogitLensTrace []LensPosition

// TokenConfidence is the model's probability for the token that actually
// appeared at a position, plus its top alternatives.
type TokenConfidence struct {
	ActualToken   string        `json:"actual_token"`
	ActualTokenID int           `json:"actual_token_id"`
	ActualProb    float64       `json:"actual_prob"`
	TopK          PredictionSet `json:"top_k"`
}

// TokenConfidenceSet has one entry per position.
type TokenConfidenceSet []TokenConfidence

// AnalogyCandidate is one scored result of vector arithmetic.
type AnalogyCandidate struct {
	Token string  `json:"token"`
	Score float64 `json:"score"`
	ID    int     `json:"id,omitempty"`
}

// AnalogyResult is sorted by descending score by the service.
type AnalogyResult []AnalogyCandidate

// Activations is passed through without interpretation.
type Activations json.RawMessage

// BehaviorType is the closed set of head classifications.
type BehaviorType int

const (
	BehaviorCopying BehaviorType = iota
	BehaviorInduction
	BehaviorSelfAttention
	BehaviorPreviousToken
	BehaviorDiffuse
	BehaviorMixed
)

// BehaviorTypes lists every variant in display order.
var BehaviorTypes = []BehaviorType{
	BehaviorCopying,
	BehaviorInduction,
	BehaviorSelfAttention,
	BehaviorPreviousToken,
	BehaviorDiffuse,
	BehaviorMixed,
}

func (b BehaviorType) String() string {
	switch b {
	case BehaviorCopying:
		return "copying"
	case BehaviorInduction:
		return "induction"
	case BehaviorSelfAttention:
		return "self-attention"
	case BehaviorPreviousToken:
		return "previous-token"
	case BehaviorDiffuse:
		return "diffuse"
	case BehaviorMixed:
		return "mixed"
	}
	return fmt.Sprintf("BehaviorType(%d)", int(b))
}

// ParseBehaviorType maps the service's wire name to a variant.
func ParseBehaviorType(s string) (BehaviorType, error) {
	for _, b := range BehaviorTypes {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown behavior type %q", s)
}

func (b BehaviorType) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BehaviorType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBehaviorType(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
