package orchestrator

import (
	"context"
	"fmt"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
)

// ViewID identifies a view in the slot arena.
type ViewID int

const (
	ViewPrediction ViewID = iota
	ViewAttention
	ViewTokens
	ViewEigenvalues
	ViewBehavior
	ViewLogitLens
	ViewEmbeddings
	ViewWeights
	ViewAnalogy
	ViewActivations
)

// Views lists every view in navigation order.
var Views = []ViewID{
	ViewPrediction,
	ViewAttention,
	ViewTokens,
	ViewEigenvalues,
	ViewBehavior,
	ViewLogitLens,
	ViewEmbeddings,
	ViewWeights,
	ViewAnalogy,
	ViewActivations,
}

// TextViews are refetched whenever the input text changes.
var TextViews = []ViewID{
	ViewPrediction,
	ViewAttention,
	ViewTokens,
	ViewEigenvalues,
	ViewBehavior,
	ViewLogitLens,
	ViewActivations,
}

// SnapshotViews do not depend on the text and are fetched once at start.
var SnapshotViews = []ViewID{
	ViewEmbeddings,
	ViewWeights,
}

func (v ViewID) String() string {
	switch v {
	case ViewPrediction:
		return "prediction"
	case ViewAttention:
		return "attention"
	case ViewTokens:
		return "tokens"
	case ViewEigenvalues:
		return "eigenvalues"
	case ViewBehavior:
		return "behavior"
	case ViewLogitLens:
		return "logit-lens"
	case ViewEmbeddings:
		return "embeddings"
	case ViewWeights:
		return "weights"
	case ViewAnalogy:
		return "analogy"
	case ViewActivations:
		return "activations"
	}
	return fmt.Sprintf("ViewID(%d)", int(v))
}

// UsesTopK reports whether the view sends top_k and so has an adjustable k.
func (v ViewID) UsesTopK() bool {
	switch v {
	case ViewPrediction, ViewTokens, ViewLogitLens, ViewAnalogy:
		return true
	}
	return false
}

func (v ViewID) textSubscribed() bool {
	for _, t := range TextViews {
		if t == v {
			return true
		}
	}
	return false
}

// fetchFunc runs one query and returns the typed entity as the payload.
type fetchFunc func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error)

var fetchers = map[ViewID]fetchFunc{
	ViewPrediction: func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error) {
		return unwrap(c.Predict(ctx, req))
	},
	ViewAttention: func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error) {
		return unwrap(c.Attention(ctx, req))
	},
	ViewTokens: func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error) {
		return unwrap(c.TokenPredictions(ctx, req))
	},
	ViewEigenvalues: func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error) {
		return unwrap(c.Eigenvalues(ctx, req))
	},
	ViewBehavior: func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error) {
		return unwrap(c.InductionScore(ctx, req))
	},
	ViewLogitLens: func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error) {
		return unwrap(c.LogitLens(ctx, req))
	},
	ViewEmbeddings: func(ctx context.Context, c analysis.Client, _ analysis.Request) (any, error) {
		return unwrap(c.Embeddings(ctx))
	},
	ViewWeights: func(ctx context.Context, c analysis.Client, _ analysis.Request) (any, error) {
		return unwrap(c.Weights(ctx))
	},
	ViewAnalogy: func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error) {
		return unwrap(c.Analogy(ctx, req))
	},
	ViewActivations: func(ctx context.Context, c analysis.Client, req analysis.Request) (any, error) {
		return unwrap(c.Activations(ctx, req))
	},
}

// unwrap drops the payload whenever err is set so a failure never carries
// a partial entity.
func unwrap[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
