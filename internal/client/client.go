// Package client is a typed HTTP client for the convertd API.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"convertd/pkg/types"
)

// DefaultTimeout bounds list calls. Conversions use no client timeout; the
// caller's context decides.
const DefaultTimeout = 30 * time.Second

// Client talks to a running convertd server.
type Client struct {
	rc *resty.Client
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string   { return fmt.Sprintf("server returned %d: %s", e.Status, e.Message) }
func (e *APIError) StatusCode() int { return e.Status }

// New returns a client for the server at baseURL, e.g. http://localhost:8000.
func New(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

// ListFinetuned returns "<model>::<run>" ids of runs with an adapter.
func (c *Client) ListFinetuned(ctx context.Context) ([]string, error) {
	var out types.FinetunedModelsResponse
	if err := c.get(ctx, "/models/finetuned", &out); err != nil {
		return nil, err
	}
	if out.Models == nil {
		return []string{}, nil
	}
	return out.Models, nil
}

// ListGGUF returns the converted files known to the server.
func (c *Client) ListGGUF(ctx context.Context) ([]types.GGUFModel, error) {
	var out types.GGUFModelsResponse
	if err := c.get(ctx, "/models/gguf", &out); err != nil {
		return nil, err
	}
	if out.Models == nil {
		return []types.GGUFModel{}, nil
	}
	return out.Models, nil
}

// ListOllama returns the rows of `ollama list` in the serving runtime.
func (c *Client) ListOllama(ctx context.Context) ([][]string, error) {
	var out types.OllamaModelsResponse
	if err := c.get(ctx, "/models/ollama", &out); err != nil {
		return nil, err
	}
	if out.Models == nil {
		return [][]string{}, nil
	}
	return out.Models, nil
}

// ConvertAndLoad triggers the pipeline for selected and blocks until it ends.
// An empty NewModelName defaults to "<selected>-finetuned".
func (c *Client) ConvertAndLoad(ctx context.Context, selected string, req types.ConvertAndLoadRequest) (string, error) {
	if req.NewModelName == "" {
		req.NewModelName = selected + "-finetuned"
	}
	var out types.MessageResponse
	var apiErr types.ErrorResponse
	res, err := c.rc.R().
		SetContext(ctx).
		SetPathParam("model_name", selected).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/models/convert-and-load/{model_name}")
	if err != nil {
		return "", fmt.Errorf("convert-and-load %s: %w", selected, err)
	}
	if res.IsError() {
		return "", toAPIError(res, apiErr)
	}
	return out.Message, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	var apiErr types.ErrorResponse
	res, err := c.rc.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if res.IsError() {
		return toAPIError(res, apiErr)
	}
	return nil
}

func toAPIError(res *resty.Response, body types.ErrorResponse) error {
	msg := body.Error
	if msg == "" {
		msg = res.String()
	}
	return &APIError{Status: res.StatusCode(), Message: msg}
}
