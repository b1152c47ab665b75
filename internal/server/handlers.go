package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/issuescout/issue-scout/internal/bus"
	"github.com/issuescout/issue-scout/internal/history"
	"github.com/issuescout/issue-scout/internal/issue"
	apperrors "github.com/issuescout/issue-scout/internal/pkg/errors"
	"github.com/issuescout/issue-scout/internal/pkg/security"
	"github.com/issuescout/issue-scout/internal/query"
	"github.com/issuescout/issue-scout/internal/rank"
	"github.com/issuescout/issue-scout/internal/suggest"
)

// newEventID generates a short unique event ID.
func newEventID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// QueryInfo describes how the query string was understood.
type QueryInfo struct {
	Raw        string            `json:"raw"`
	Canonical  string            `json:"canonical"`
	Success    bool              `json:"success"`
	Conditions []query.Condition `json:"conditions"`
	Err        string            `json:"error,omitempty"`
	ErrOffset  int               `json:"error_offset,omitempty"`
}

// SearchResponse is the JSON response for GET /v1/search.
type SearchResponse struct {
	Repo      string        `json:"repo"`
	Query     QueryInfo     `json:"query"`
	Sort      string        `json:"sort"`
	Direction string        `json:"direction"`
	Total     int           `json:"total"`
	Issues    []issue.Issue `json:"issues"`
}

// handleSearch handles GET /v1/search?owner=&repo=&q=&sort=&direction=.
// An unparseable query is not an error: it matches everything, and the
// response reports why the query was not understood.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	owner := r.URL.Query().Get("owner")
	repo := r.URL.Query().Get("repo")
	if err := security.ValidateRepoName(owner, repo); err != nil {
		apperrors.WriteError(w, apperrors.ValidationError(err.Error()))
		return
	}

	rawQuery := security.SanitizeQuery(r.URL.Query().Get("q"))
	if err := security.ValidateQueryWithLimit(rawQuery, s.appCfg.Search.MaxQuerySize); err != nil {
		apperrors.WriteError(w, apperrors.ValidationError(err.Error()))
		return
	}

	issues, ok := s.store.Get(owner + "/" + repo)
	if !ok {
		s.metrics.SearchesTotal.WithLabelValues("not_found").Inc()
		apperrors.WriteError(w, apperrors.NotFoundError("repository"))
		return
	}

	parsed := query.ParseQuery(rawQuery)
	outcome := "ok"
	if rawQuery != "" && !parsed.Success {
		outcome = "parse_error"
		s.metrics.ParseFailuresTotal.Inc()
	}

	// A failed parse leaves the filter nil, which matches everything.
	matched := issue.Filter(issues, parsed.AST)

	sortParam := r.URL.Query().Get("sort")
	if sortParam == "" {
		sortParam = s.appCfg.Search.DefaultSort
	}
	criterion := rank.ParseCriterion(sortParam)
	direction := rank.Direction(r.URL.Query().Get("direction"))
	sorted := s.scorer.Sort(matched, criterion, direction)
	if direction == "" {
		direction = rank.DefaultDirection(criterion)
	}

	if max := s.appCfg.Search.MaxResults; max > 0 && len(sorted) > max {
		sorted = sorted[:max]
	}

	s.metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	s.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	s.metrics.SearchResultsCount.Observe(float64(len(sorted)))

	event := bus.NewEvent(newEventID(), "search.performed", "api",
		bus.SearchEvent{Owner: owner, Repo: repo, Query: rawQuery, Results: len(sorted)})
	if err := s.bus.Publish(r.Context(), bus.TopicSearchPerformed, event); err != nil {
		s.log.WithError(err).Warn("failed to publish search event")
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Repo:      owner + "/" + repo,
		Query:     queryInfo(rawQuery, parsed),
		Sort:      string(criterion),
		Direction: string(direction),
		Total:     len(sorted),
		Issues:    sorted,
	})
}

func queryInfo(raw string, parsed query.ParseResult) QueryInfo {
	return QueryInfo{
		Raw:        raw,
		Canonical:  query.ToCanonicalQuery(parsed.AST),
		Success:    parsed.Success,
		Conditions: parsed.Conditions,
		Err:        parsed.Err,
		ErrOffset:  parsed.ErrOffset,
	}
}

// handleParseQuery handles GET /v1/query/parse?q=. It exposes the query
// pipeline for editor integrations: the canonical rendering plus the
// extracted conditions for filter chips.
func (s *Server) handleParseQuery(w http.ResponseWriter, r *http.Request) {
	rawQuery := security.SanitizeQuery(r.URL.Query().Get("q"))
	if err := security.ValidateQuery(rawQuery); err != nil {
		apperrors.WriteError(w, apperrors.ValidationError(err.Error()))
		return
	}

	parsed := query.ParseQuery(rawQuery)
	if rawQuery != "" && !parsed.Success {
		s.metrics.ParseFailuresTotal.Inc()
	}

	writeJSON(w, http.StatusOK, queryInfo(rawQuery, parsed))
}

// SuggestionItem is one entry in the suggestion response.
type SuggestionItem struct {
	suggest.Suggestion
	Highlighted string `json:"highlighted"`
}

// SuggestResponse is the JSON response for GET /v1/suggest.
type SuggestResponse struct {
	Query       string           `json:"query"`
	Suggestions []SuggestionItem `json:"suggestions"`
}

// handleSuggest handles GET /v1/suggest?q=.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	prefix := security.SanitizeQuery(r.URL.Query().Get("q"))
	s.metrics.SuggestRequestsTotal.Inc()

	records, err := s.history.Recent(r.Context(), history.MaxRecords)
	if err != nil {
		s.log.WithError(err).Warn("failed to load search history")
		// Suggestions degrade to the popular list; the request still succeeds.
		records = nil
	}

	ranked := suggest.Rank(records, prefix)
	items := make([]SuggestionItem, len(ranked))
	for i, sg := range ranked {
		items[i] = SuggestionItem{
			Suggestion:  sg,
			Highlighted: suggest.Highlight(sg.DisplayName, prefix),
		}
	}

	writeJSON(w, http.StatusOK, SuggestResponse{Query: prefix, Suggestions: items})
}

// LoadResponse is the JSON response for POST /v1/issues/{owner}/{repo}.
type LoadResponse struct {
	Repo  string `json:"repo"`
	Count int    `json:"count"`
}

// handleLoadIssues handles POST /v1/issues/{owner}/{repo}. The body is
// a JSON array of issues which replaces the repository's collection.
func (s *Server) handleLoadIssues(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	repo := r.PathValue("repo")
	if err := security.ValidateRepoName(owner, repo); err != nil {
		apperrors.WriteError(w, apperrors.ValidationError(err.Error()))
		return
	}

	var issues []issue.Issue
	if err := json.NewDecoder(r.Body).Decode(&issues); err != nil {
		apperrors.WriteError(w, apperrors.InvalidRequestError("invalid request body: "+err.Error()))
		return
	}

	name := owner + "/" + repo
	s.store.Put(name, issues)

	s.metrics.IssuesLoadedTotal.Add(float64(len(issues)))
	s.metrics.ReposTracked.Set(float64(len(s.store.Repos())))

	event := bus.NewEvent(newEventID(), "issues.loaded", "api",
		bus.LoadEvent{Owner: owner, Repo: repo, Count: len(issues)})
	if err := s.bus.Publish(r.Context(), bus.TopicIssuesLoaded, event); err != nil {
		s.log.WithError(err).Warn("failed to publish load event")
	}

	s.log.WithRepo(owner, repo).Info("Loaded issues", "count", len(issues))
	writeJSON(w, http.StatusOK, LoadResponse{Repo: name, Count: len(issues)})
}

// handleListIssues handles GET /v1/issues/{owner}/{repo}.
func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	repo := r.PathValue("repo")
	if err := security.ValidateRepoName(owner, repo); err != nil {
		apperrors.WriteError(w, apperrors.ValidationError(err.Error()))
		return
	}

	issues, ok := s.store.Get(owner + "/" + repo)
	if !ok {
		apperrors.WriteError(w, apperrors.NotFoundError("repository"))
		return
	}

	writeJSON(w, http.StatusOK, IssuesResponse{
		Repo:   owner + "/" + repo,
		Total:  len(issues),
		Issues: issues,
	})
}

// IssuesResponse is the JSON response for GET /v1/issues/{owner}/{repo}.
type IssuesResponse struct {
	Repo   string        `json:"repo"`
	Total  int           `json:"total"`
	Issues []issue.Issue `json:"issues"`
}

// HealthResponse is the JSON response for GET /v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Repos   int    `json:"repos"`
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.cfg.Version,
		Repos:   len(s.store.Repos()),
	})
}
