package dashboard

import (
	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/render"
)

// renderActivations shows the raw payload pretty-printed and highlighted.
// Highlighting is best effort; the plain text is shown if it fails.
func (m *Model) renderActivations(a analysis.Activations) string {
	pretty, err := encode.Activations(a)
	if err != nil {
		return render.Errorf("Malformed activations: %v", err)
	}
	if pretty == "" {
		return render.None("No activations")
	}

	highlighted, err := render.HighlightJSON(pretty)
	if err != nil {
		m.logger.Debug("highlight failed", "error", err)
		return pretty
	}
	return highlighted
}
