package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestHTTPClient(fn roundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func mustJSONResponse(t *testing.T, statusCode int, payload any) *http.Response {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		t.Fatalf("build json response: %v", err)
	}
	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(buf),
	}
}

func textHTTPResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func withRateHeaders(resp *http.Response, limit, remaining int, reset time.Time) *http.Response {
	resp.Header.Set(HeaderRateLimit, strconv.Itoa(limit))
	resp.Header.Set(HeaderRateRemaining, strconv.Itoa(remaining))
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(reset.Unix(), 10))
	return resp
}

// searchPayload builds a search response body with n repositories.
func searchPayload(total, n int) map[string]any {
	items := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, map[string]any{
			"name":             fmt.Sprintf("name-%d", i),
			"full_name":        fmt.Sprintf("user-%d/name-%d", i, i),
			"stargazers_count": 1000 - i,
			"owner": map[string]any{
				"login":      fmt.Sprintf("user-%d", i),
				"avatar_url": fmt.Sprintf("https://avatars.example.com/u/%d", i),
			},
		})
	}
	return map[string]any{
		"total_count":        total,
		"incomplete_results": false,
		"items":              items,
	}
}
