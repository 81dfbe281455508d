// Raw TMDB requests for debugging and the `api` command
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// APIResponse is an undecoded API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Raw performs a GET to path (e.g. "/movie/550?append_to_response=credits") and returns the response as-is.
//
// Non-2xx statuses are not errors here; callers inspect StatusCode. Credentials and language are added as for every other request.
func (s *TMDBService) Raw(ctx context.Context, path string) (*APIResponse, error) {
	endpoint, params, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	resp, err := s.send(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}
	return apiResp, nil
}

func splitPath(path string) (string, url.Values, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u, err := url.Parse(path)
	if err != nil {
		return "", nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	if u.IsAbs() || u.Host != "" {
		return "", nil, fmt.Errorf("path must be relative to the API base: %q", path)
	}
	return u.Path, u.Query(), nil
}
