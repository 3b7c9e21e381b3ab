// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// maxErrorBody caps how much of a failed response is quoted in errors.
const maxErrorBody = 512

// APIError reports a non-200 response from a JSON API, with the start of
// the response body for diagnosis.
type APIError struct {
	URL  string
	Code int
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("POST %s returned HTTP %d: %s", e.URL, e.Code, e.Body)
}

// PostJSON marshals in, POSTs it to rawURL, and decodes a 200 response
// into out. 429 responses are retried like GET requests.
func PostJSON(ctx context.Context, client *http.Client, rawURL string, headers http.Header, in, out any, logger *zap.Logger) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if client == nil {
		client = NewClient(types.HTTPConfig{})
	}
	resp, err := DoWithRetry(ctx, client, req, 0, logger)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{URL: req.URL.Redacted(), Code: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
