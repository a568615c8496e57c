package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client embeds text via an OpenAI-compatible embeddings endpoint. It also
// understands the Ollama-native response shape, so a locally served
// sentence-embedding model works without translation.
//
// The confidence thresholds used elsewhere in the pipeline are calibrated to
// the distance distribution of the default all-MiniLM-L6-v2 model (384 dims);
// swapping the model requires recalibrating them.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	client    *http.Client
	dimension int
}

// Config configures the embeddings client. APIKeyEnv may be empty for local
// endpoints that require no credential.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates an embeddings client for the configured endpoint.
func NewClient(cfg Config) *Client {
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	key := ""
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}
}

// Dimension returns the vector length of the model, known after the first
// successful embedding.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"input": texts,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	vecs, err := decodeEmbeddings(payload, len(texts))
	if err != nil {
		return nil, err
	}
	if c.dimension == 0 && len(vecs) > 0 {
		c.dimension = len(vecs[0])
	}
	return vecs, nil
}

// decodeEmbeddings accepts the OpenAI response shape first, then falls back
// to the Ollama-native one.
func decodeEmbeddings(payload []byte, want int) ([][]float64, error) {
	var openaiOut struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &openaiOut); err == nil && len(openaiOut.Data) == want {
		vecs := make([][]float64, want)
		ok := true
		for i, d := range openaiOut.Data {
			if len(d.Embedding) == 0 {
				ok = false
				break
			}
			vecs[i] = d.Embedding
		}
		if ok {
			return vecs, nil
		}
	}
	var ollamaOut struct {
		Embeddings [][]float64 `json:"embeddings"`
	}
	if err := json.Unmarshal(payload, &ollamaOut); err == nil && len(ollamaOut.Embeddings) == want {
		return ollamaOut.Embeddings, nil
	}
	return nil, errors.New("no embeddings returned")
}
