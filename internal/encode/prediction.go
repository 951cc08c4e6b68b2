package encode

import (
	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// PredictionBar is a ranked row with a bar emphasis.
type PredictionBar struct {
	RankedItem
	Intensity float64
}

// Predictions is the next-token ranking encoding.
type Predictions struct {
	Bars  []PredictionBar
	Total float64
}

// Empty reports whether there is nothing to draw.
func (p Predictions) Empty() bool {
	return len(p.Bars) == 0
}

// PredictionIntensity emphasizes the top candidate and scales the rest by probability.
func PredictionIntensity(rank int, prob float64) float64 {
	if rank == 1 {
		return 1
	}
	return utils.ClampFloat(0.3+prob*0.7, 0, 1)
}

// Prediction encodes a next-token prediction set.
func Prediction(set analysis.PredictionSet) Predictions {
	ranked := Ranked(set)
	out := Predictions{Bars: make([]PredictionBar, 0, len(ranked))}
	for _, item := range ranked {
		out.Total += item.Prob
		out.Bars = append(out.Bars, PredictionBar{
			RankedItem: item,
			Intensity:  PredictionIntensity(item.Rank, item.Prob),
		})
	}
	return out
}
