package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/issuescout/issue-scout/internal/bus"
	"github.com/issuescout/issue-scout/internal/config"
	"github.com/issuescout/issue-scout/internal/issue"
	"github.com/issuescout/issue-scout/internal/pkg/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	appCfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Version = "test"

	s, err := New(cfg, *appCfg, logger.New("error", "text"))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	t.Cleanup(func() { s.Stop(context.Background()) })
	return s
}

func testIssues() []issue.Issue {
	now := time.Now().UTC()
	return []issue.Issue{
		{
			Number:    1,
			Title:     "Crash on startup",
			State:     "open",
			Labels:    []string{"bug"},
			Comments:  12,
			CreatedAt: now.AddDate(0, 0, -60),
		},
		{
			Number:    2,
			Title:     "Add dark mode",
			State:     "open",
			Labels:    []string{"enhancement", "good first issue"},
			Comments:  0,
			CreatedAt: now.AddDate(0, 0, -2),
			Reactions: issue.Reactions{PlusOne: 4},
		},
		{
			Number:    3,
			Title:     "Typo in docs",
			State:     "closed",
			Labels:    []string{"bug", "docs"},
			Comments:  2,
			CreatedAt: now.AddDate(0, 0, -10),
		},
	}
}

func loadTestIssues(t *testing.T, handler http.Handler) {
	t.Helper()

	body, err := json.Marshal(testIssues())
	if err != nil {
		t.Fatalf("marshaling issues: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/issues/octo/kit", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("loading issues: status %d: %s", rec.Code, rec.Body.String())
	}
}

func get(t *testing.T, handler http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHandleSearch_FiltersAndSorts(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()
	loadTestIssues(t, handler)

	rec := get(t, handler, "/v1/search?owner=octo&repo=kit&q=label:bug")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2 issues labeled bug", resp.Total)
	}
	if !resp.Query.Success {
		t.Error("query must parse successfully")
	}
	if resp.Query.Canonical != "label:bug" {
		t.Errorf("Canonical = %q", resp.Query.Canonical)
	}
	if len(resp.Query.Conditions) != 1 {
		t.Errorf("got %d conditions, want 1", len(resp.Query.Conditions))
	}
	if resp.Sort != "relevance" || resp.Direction != "desc" {
		t.Errorf("sort/direction = %s/%s, want relevance/desc", resp.Sort, resp.Direction)
	}
	// Issue 3 (fresher, fewer comments) outranks issue 1.
	if resp.Issues[0].Number != 3 || resp.Issues[1].Number != 1 {
		t.Errorf("order = [%d %d]", resp.Issues[0].Number, resp.Issues[1].Number)
	}
}

func TestHandleSearch_CommentSortDefaultsAscending(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()
	loadTestIssues(t, handler)

	rec := get(t, handler, "/v1/search?owner=octo&repo=kit&sort=comments")
	var resp SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Direction != "asc" {
		t.Errorf("Direction = %s, want asc for comments", resp.Direction)
	}
	if resp.Issues[0].Number != 2 || resp.Issues[2].Number != 1 {
		t.Errorf("comment order = [%d %d %d]", resp.Issues[0].Number, resp.Issues[1].Number, resp.Issues[2].Number)
	}
}

func TestHandleSearch_UnparseableQueryMatchesEverything(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()
	loadTestIssues(t, handler)

	rec := get(t, handler, "/v1/search?owner=octo&repo=kit&q=free+text+words")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Query.Success {
		t.Error("free text must not parse into a filter")
	}
	if resp.Query.Err != "no filters recognized" {
		t.Errorf("query error = %q", resp.Query.Err)
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, want all 3 issues", resp.Total)
	}
}

func TestHandleSearch_UnknownRepoIs404(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()

	rec := get(t, handler, "/v1/search?owner=no&repo=such")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleSearch_InvalidRepoNameIs400(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()

	rec := get(t, handler, "/v1/search?owner=-bad-&repo=kit")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearch_RecordsHistory(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()
	loadTestIssues(t, handler)

	get(t, handler, "/v1/search?owner=octo&repo=kit&q=state:open")

	// The history recorder runs off the request path; drain the bus
	// before asserting.
	if mb, ok := s.bus.(*bus.MemoryBus); ok {
		if !mb.DrainTimeout(time.Second) {
			t.Fatal("bus did not drain")
		}
	}

	records, err := s.history.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || records[0].DisplayName() != "octo/kit" {
		t.Errorf("history = %v, want one octo/kit record", records)
	}
}

func TestHandleParseQuery(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()

	rec := get(t, handler, "/v1/query/parse?q=label:bug,label:docs+state:open")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var info QueryInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if !info.Success {
		t.Error("query must parse")
	}
	if info.Canonical != "label:bug,label:docs state:open" {
		t.Errorf("Canonical = %q", info.Canonical)
	}
	if len(info.Conditions) != 3 {
		t.Errorf("got %d conditions, want 3", len(info.Conditions))
	}
}

func TestHandleSuggest_PopularWithoutHistory(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()

	rec := get(t, handler, "/v1/suggest")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp SuggestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(resp.Suggestions) != 5 {
		t.Fatalf("got %d suggestions, want 5", len(resp.Suggestions))
	}
	for _, sg := range resp.Suggestions {
		if sg.Origin != "popular" {
			t.Errorf("%s origin = %s, want popular", sg.DisplayName, sg.Origin)
		}
	}
}

func TestHandleSuggest_HistoryFirstWithHighlight(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()

	if err := s.history.Touch(context.Background(), "octo", "kit"); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	rec := get(t, handler, "/v1/suggest?q=octo")
	var resp SuggestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(resp.Suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(resp.Suggestions))
	}
	got := resp.Suggestions[0]
	if got.Origin != "history" || got.DisplayName != "octo/kit" {
		t.Errorf("suggestion = %+v", got)
	}
	if got.Highlighted != "<mark>octo</mark>/kit" {
		t.Errorf("Highlighted = %q", got.Highlighted)
	}
}

func TestHandleListIssues(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()
	loadTestIssues(t, handler)

	rec := get(t, handler, "/v1/issues/octo/kit")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp IssuesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, want 3", resp.Total)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()

	rec := get(t, handler, "/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("health = %+v", resp)
	}
}

func TestRoutes_CORSPreflight(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/v1/search", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}

func TestRoutes_MetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Routes()
	loadTestIssues(t, handler)
	get(t, handler, "/v1/search?owner=octo&repo=kit&q=label:bug")

	rec := get(t, handler, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"issuescout_searches_total",
		"issuescout_issues_loaded_total",
	} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
