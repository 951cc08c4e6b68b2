package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// DefaultBaseURL is where the analysis service listens by default.
const DefaultBaseURL = "http://localhost:4000"

// Client is the contract the dashboard consumes. Implementations must be
// safe for unbounded concurrent use and hold no per-request state.
type Client interface {
	Predict(ctx context.Context, req Request) (PredictionSet, error)
	Attention(ctx context.Context, req Request) (*AttentionTensor, error)
	Embeddings(ctx context.Context) (EmbeddingProjection, error)
	Activations(ctx context.Context, req Request) (Activations, error)
	Weights(ctx context.Context) (WeightSpectrum, error)
	Analogy(ctx context.Context, req Request) (AnalogyResult, error)
	TokenPredictions(ctx context.Context, req Request) (TokenConfidenceSet, error)
	Eigenvalues(ctx context.Context, req Request) (EigenSpectrum, error)
	InductionScore(ctx context.Context, req Request) (BehaviorProfile, error)
	LogitLens(ctx context.Context, req Request) (LogitLensTrace, error)
}

// HTTPClient talks JSON over HTTP to the analysis service.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for baseURL. An empty baseURL falls back to
// DefaultBaseURL. No client-side timeout is applied; callers cancel through ctx.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// BaseURL returns the service address this client targets.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

type textBody struct {
	Text string `json:"text"`
	TopK int    `json:"top_k,omitempty"`
}

type analogyBody struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	TopK     int      `json:"top_k,omitempty"`
}

func (c *HTTPClient) Predict(ctx context.Context, req Request) (PredictionSet, error) {
	const op = "predict"
	if isBlank(req.Text) {
		return nil, emptyInputError(op)
	}
	var env struct {
		Predictions PredictionSet `json:"predictions"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/predict", textBody{Text: req.Text, TopK: req.TopK}, &env); err != nil {
		return nil, err
	}
	return env.Predictions, nil
}

func (c *HTTPClient) Attention(ctx context.Context, req Request) (*AttentionTensor, error) {
	const op = "attention"
	if isBlank(req.Text) {
		return nil, emptyInputError(op)
	}
	var tensor AttentionTensor
	if err := c.do(ctx, op, http.MethodPost, "/attention", textBody{Text: req.Text}, &tensor); err != nil {
		return nil, err
	}
	return &tensor, nil
}

func (c *HTTPClient) Embeddings(ctx context.Context) (EmbeddingProjection, error) {
	var env struct {
		Embeddings EmbeddingProjection `json:"embeddings"`
	}
	if err := c.do(ctx, "embeddings", http.MethodGet, "/embeddings", nil, &env); err != nil {
		return nil, err
	}
	return env.Embeddings, nil
}

func (c *HTTPClient) Activations(ctx context.Context, req Request) (Activations, error) {
	const op = "activations"
	if isBlank(req.Text) {
		return nil, emptyInputError(op)
	}
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodPost, "/activations", textBody{Text: req.Text}, &raw); err != nil {
		return nil, err
	}
	return Activations(raw), nil
}

func (c *HTTPClient) Weights(ctx context.Context) (WeightSpectrum, error) {
	var env struct {
		Analysis WeightSpectrum `json:"analysis"`
	}
	if err := c.do(ctx, "weights", http.MethodGet, "/weights", nil, &env); err != nil {
		return nil, err
	}
	return env.Analysis, nil
}

func (c *HTTPClient) Analogy(ctx context.Context, req Request) (AnalogyResult, error) {
	const op = "analogy"
	if len(req.PositiveWords) == 0 && len(req.NegativeWords) == 0 {
		return nil, emptyInputError(op)
	}
	body := analogyBody{
		Positive: nonNil(req.PositiveWords),
		Negative: nonNil(req.NegativeWords),
		TopK:     req.TopK,
	}
	var env struct {
		Results AnalogyResult `json:"results"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/analogy", body, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

func (c *HTTPClient) TokenPredictions(ctx context.Context, req Request) (TokenConfidenceSet, error) {
	const op = "token-predictions"
	if isBlank(req.Text) {
		return nil, emptyInputError(op)
	}
	var env struct {
		Predictions TokenConfidenceSet `json:"predictions"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/token-predictions", textBody{Text: req.Text, TopK: req.TopK}, &env); err != nil {
		return nil, err
	}
	return env.Predictions, nil
}

func (c *HTTPClient) Eigenvalues(ctx context.Context, req Request) (EigenSpectrum, error) {
	const op = "eigenvalues"
	if isBlank(req.Text) {
		return nil, emptyInputError(op)
	}
	var env struct {
		Eigenvalues EigenSpectrum `json:"eigenvalues"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/eigenvalues", textBody{Text: req.Text}, &env); err != nil {
		return nil, err
	}
	return env.Eigenvalues, nil
}

func (c *HTTPClient) InductionScore(ctx context.Context, req Request) (BehaviorProfile, error) {
	const op = "induction-score"
	if isBlank(req.Text) {
		return nil, emptyInputError(op)
	}
	var env struct {
		Behaviors BehaviorProfile `json:"behaviors"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/induction-score", textBody{Text: req.Text}, &env); err != nil {
		return nil, err
	}
	return env.Behaviors, nil
}

func (c *HTTPClient) LogitLens(ctx context.Context, req Request) (LogitLensTrace, error) {
	const op = "logit-lens"
	if isBlank(req.Text) {
		return nil, emptyInputError(op)
	}
	var env struct {
		Lens LogitLensTrace `json:"lens"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/logit-lens", textBody{Text: req.Text, TopK: req.TopK}, &env); err != nil {
		return nil, err
	}
	return env.Lens, nil
}

// Health reports whether the service answers on its root route.
func (c *HTTPClient) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// do sends one request and decodes the response into out. Any failure comes
// back as *Error and out must then be ignored.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return decodeError(op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return networkError(op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return readError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return decodeError(op, err)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func nonNil(words []string) []string {
	if words == nil {
		return []string{}
	}
	return words
}
