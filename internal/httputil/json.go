// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a response body is decoded.
const maxBodyBytes = 10 << 20

// ErrMissingKey reports a 2xx response whose body lacks the caller's
// success discriminator key.
var ErrMissingKey = errors.New("response missing expected key")

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// GetJSON performs one attempt of req and decodes the body as a JSON object.
// It fails on transport errors, non-2xx status, bodies that are not a JSON
// object, and, when key is non-empty, bodies without a top-level key.
// Numbers are decoded as json.Number.
func GetJSON(ctx context.Context, client *http.Client, req *http.Request, key string) (map[string]any, error) {
	resp, err := client.Do(req.Clone(ctx))
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: endpoint(req)}
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("parsing response: body is not a JSON object")
	}

	if key != "" {
		if _, ok := body[key]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingKey, key)
		}
	}
	return body, nil
}

// endpoint returns the request URL without its query, which may carry API keys.
func endpoint(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
