package linkedin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"

	"github.com/mhartig/sapjobs/internal/models"
)

type fakeDoer struct {
	resp   *fhttp.Response
	err    error
	calls  int
	gotReq *fhttp.Request
}

func (f *fakeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.calls++
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type panicDoer struct{}

func (panicDoer) Do(*fhttp.Request) (*fhttp.Response, error) { panic("boom") }

type timeoutError struct{}

func (timeoutError) Error() string   { return "deadline exceeded" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func httpResponse(status int, body string) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testCriteria() models.SearchCriteria {
	return models.SearchCriteria{DaysBack: 7, Limit: 25, Offset: 0}
}

func newTestClient(t *testing.T, doer Doer) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Credentials: Credentials{Key: "test-key", Host: "example.p.rapidapi.com"},
		HTTPClient:  doer,
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func asSearchError(t *testing.T, err error) *Error {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var clientErr *Error
	if !errors.As(err, &clientErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	return clientErr
}

func TestSearchWithoutCredentials(t *testing.T) {
	cases := []struct {
		name  string
		creds Credentials
	}{
		{"both empty", Credentials{}},
		{"missing key", Credentials{Host: "example.p.rapidapi.com"}},
		{"missing host", Credentials{Key: "test-key"}},
		{"blank key", Credentials{Key: "   ", Host: "example.p.rapidapi.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doer := &fakeDoer{resp: httpResponse(200, `[]`)}
			client, err := NewClient(Config{Credentials: tc.creds, HTTPClient: doer, Logger: zerolog.Nop()})
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}

			_, err = client.Search(context.Background(), testCriteria())
			got := asSearchError(t, err)
			if got.Kind != KindConfiguration {
				t.Fatalf("Kind = %v, want %v", got.Kind, KindConfiguration)
			}
			if got.Error() != "API credentials not configured" {
				t.Fatalf("message = %q", got.Error())
			}
			if doer.calls != 0 {
				t.Fatalf("transport called %d times, want 0", doer.calls)
			}
		})
	}
}

func TestSearchQueryParameters(t *testing.T) {
	cases := []struct {
		name     string
		criteria models.SearchCriteria
		want     map[string]string
		absent   []string
	}{
		{
			name:     "fixed parameters",
			criteria: testCriteria(),
			want: map[string]string{
				"title_filter":     "SAP",
				"limit":            "25",
				"offset":           "0",
				"description_type": "text",
			},
			absent: []string{"location_filter", "remote"},
		},
		{
			name:     "location filter",
			criteria: models.SearchCriteria{DaysBack: 7, Location: "Berlin", Limit: 25},
			want:     map[string]string{"location_filter": "Berlin"},
		},
		{
			name:     "all-locations sentinel disables filter",
			criteria: models.SearchCriteria{DaysBack: 7, Location: models.AllLocations, Limit: 25},
			absent:   []string{"location_filter"},
		},
		{
			name:     "remote only",
			criteria: models.SearchCriteria{DaysBack: 7, RemoteOnly: true, Limit: 25},
			want:     map[string]string{"remote": "true"},
		},
		{
			name:     "pagination",
			criteria: models.SearchCriteria{DaysBack: 14, Limit: 50, Offset: 100},
			want:     map[string]string{"limit": "50", "offset": "100"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doer := &fakeDoer{resp: httpResponse(200, `[]`)}
			client := newTestClient(t, doer)

			if _, err := client.Search(context.Background(), tc.criteria); err != nil {
				t.Fatalf("Search: %v", err)
			}

			query := doer.gotReq.URL.Query()
			for key, want := range tc.want {
				if got := query.Get(key); got != want {
					t.Fatalf("param %s = %q, want %q", key, got, want)
				}
			}
			for _, key := range tc.absent {
				if _, ok := query[key]; ok {
					t.Fatalf("param %s should be absent, got %q", key, query.Get(key))
				}
			}
		})
	}
}

func TestSearchRequestTarget(t *testing.T) {
	doer := &fakeDoer{resp: httpResponse(200, `[]`)}
	client := newTestClient(t, doer)

	if _, err := client.Search(context.Background(), testCriteria()); err != nil {
		t.Fatalf("Search: %v", err)
	}

	req := doer.gotReq
	if req.Method != fhttp.MethodGet {
		t.Fatalf("method = %s", req.Method)
	}
	if req.URL.Host != "example.p.rapidapi.com" {
		t.Fatalf("host = %q", req.URL.Host)
	}
	if req.URL.Path != "/active-jb-7d" {
		t.Fatalf("path = %q", req.URL.Path)
	}
	if got := req.Header.Get("X-RapidAPI-Key"); got != "test-key" {
		t.Fatalf("X-RapidAPI-Key = %q", got)
	}
	if got := req.Header.Get("X-RapidAPI-Host"); got != "example.p.rapidapi.com" {
		t.Fatalf("X-RapidAPI-Host = %q", got)
	}
}

func TestSearchBaseURLOverride(t *testing.T) {
	doer := &fakeDoer{resp: httpResponse(200, `[]`)}
	client, err := NewClient(Config{
		Credentials: Credentials{Key: "test-key", Host: "example.p.rapidapi.com"},
		BaseURL:     "https://override.test/feed",
		HTTPClient:  doer,
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Search(context.Background(), testCriteria()); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if doer.gotReq.URL.Host != "override.test" || doer.gotReq.URL.Path != "/feed" {
		t.Fatalf("request went to %s", doer.gotReq.URL)
	}
}

func TestSearchTotalCountsAttemptedItems(t *testing.T) {
	body := `[{"title": "A"}, {"title": "B"}, {"title": "C", "locations_derived": 3}]`
	doer := &fakeDoer{resp: httpResponse(200, body)}
	client := newTestClient(t, doer)

	result, err := client.Search(context.Background(), testCriteria())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(result.Jobs))
	}
	if result.Total != 3 {
		t.Fatalf("Total = %d, want 3", result.Total)
	}
}

func TestSearchObjectResponses(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		jobs  int
		total int
	}{
		{"jobs wrapper", `{"jobs": [{"title": "Solo"}]}`, 1, 1},
		{"no recognizable shape", `{"status": "draining"}`, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doer := &fakeDoer{resp: httpResponse(200, tc.body)}
			client := newTestClient(t, doer)

			result, err := client.Search(context.Background(), testCriteria())
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(result.Jobs) != tc.jobs || result.Total != tc.total {
				t.Fatalf("jobs=%d total=%d, want jobs=%d total=%d", len(result.Jobs), result.Total, tc.jobs, tc.total)
			}
		})
	}
}

func TestSearchRateLimited(t *testing.T) {
	doer := &fakeDoer{resp: httpResponse(429, `{"message": "Too many requests"}`)}
	client := newTestClient(t, doer)

	_, err := client.Search(context.Background(), testCriteria())
	got := asSearchError(t, err)
	if got.Kind != KindRateLimited {
		t.Fatalf("Kind = %v, want %v", got.Kind, KindRateLimited)
	}
	if got.Status != 429 {
		t.Fatalf("Status = %d, want 429", got.Status)
	}
	if got.Error() != "Rate limit exceeded. Please wait a moment and try again." {
		t.Fatalf("message = %q", got.Error())
	}
}

func TestSearchAPIError(t *testing.T) {
	doer := &fakeDoer{resp: httpResponse(503, "upstream exploded")}
	client := newTestClient(t, doer)

	_, err := client.Search(context.Background(), testCriteria())
	got := asSearchError(t, err)
	if got.Kind != KindAPI {
		t.Fatalf("Kind = %v, want %v", got.Kind, KindAPI)
	}
	if got.Status != 503 {
		t.Fatalf("Status = %d, want 503", got.Status)
	}
	if got.Error() != "API error: 503 - upstream exploded" {
		t.Fatalf("message = %q", got.Error())
	}
}

func TestSearchTimeout(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"net timeout", timeoutError{}},
		{"wrapped deadline", fmt.Errorf("Get \"https://example.test\": %w", context.DeadlineExceeded)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doer := &fakeDoer{err: tc.err}
			client := newTestClient(t, doer)

			_, err := client.Search(context.Background(), testCriteria())
			got := asSearchError(t, err)
			if got.Kind != KindTimeout {
				t.Fatalf("Kind = %v, want %v", got.Kind, KindTimeout)
			}
			if got.Error() != "Request timed out. Please try again." {
				t.Fatalf("message = %q", got.Error())
			}
		})
	}
}

func TestSearchNetworkError(t *testing.T) {
	doer := &fakeDoer{err: errors.New("connection refused")}
	client := newTestClient(t, doer)

	_, err := client.Search(context.Background(), testCriteria())
	got := asSearchError(t, err)
	if got.Kind != KindNetwork {
		t.Fatalf("Kind = %v, want %v", got.Kind, KindNetwork)
	}
	if got.Error() != "Network error: connection refused" {
		t.Fatalf("message = %q", got.Error())
	}
}

func TestSearchMalformedBody(t *testing.T) {
	doer := &fakeDoer{resp: httpResponse(200, `{"jobs": [`)}
	client := newTestClient(t, doer)

	_, err := client.Search(context.Background(), testCriteria())
	got := asSearchError(t, err)
	if got.Kind != KindUnexpected {
		t.Fatalf("Kind = %v, want %v", got.Kind, KindUnexpected)
	}
	if !strings.HasPrefix(got.Error(), "Unexpected error: ") {
		t.Fatalf("message = %q", got.Error())
	}
}

func TestSearchRecoversFromPanic(t *testing.T) {
	client := newTestClient(t, panicDoer{})

	result, err := client.Search(context.Background(), testCriteria())
	got := asSearchError(t, err)
	if got.Kind != KindUnexpected {
		t.Fatalf("Kind = %v, want %v", got.Kind, KindUnexpected)
	}
	if got.Error() != "Unexpected error: boom" {
		t.Fatalf("message = %q", got.Error())
	}
	if len(result.Jobs) != 0 || result.Total != 0 {
		t.Fatalf("result should be empty, got %+v", result)
	}
}

func TestPostedSince(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		days int
		want string
	}{
		{1, "2026-03-09"},
		{7, "2026-03-03"},
		{30, "2026-02-08"},
	}

	for _, tc := range cases {
		if got := PostedSince(now, tc.days); got != tc.want {
			t.Fatalf("PostedSince(%d) = %q, want %q", tc.days, got, tc.want)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindConfiguration, "configuration"},
		{KindRateLimited, "rate_limited"},
		{KindAPI, "api"},
		{KindTimeout, "timeout"},
		{KindNetwork, "network"},
		{KindUnexpected, "unexpected"},
	}

	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Fatalf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
