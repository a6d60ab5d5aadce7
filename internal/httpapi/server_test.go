package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobyab-engine/internal/orchestrator"
	"jobyab-engine/internal/scraper"
	"jobyab-engine/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.SQLiteStore) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	//empty registry: scrape requests fail validation, which is all the
	//handler tests need
	orch := orchestrator.New(scraper.NewRegistry(), st, 30)
	return &Server{Store: st, Orchestrator: orch}, st
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookieOf(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionCookieIssuedOnFirstContact(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c := sessionCookieOf(rec)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)

	//cookie round-trips without being reissued
	rec = doJSON(t, srv.Router(), http.MethodGet, "/api/jobs", "", []*http.Cookie{c})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sessionCookieOf(rec))
}

func TestScrapeValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/scrape", `{"sources":["jobinja"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/scrape", `{"keyword":"dba"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/scrape", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap orchestrator.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.False(t, snap.IsScraping)
	assert.Equal(t, orchestrator.StateIdle, snap.State)
}

func TestJobsAndFilters(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	//establish a session first
	rec := doJSON(t, router, http.MethodGet, "/api/jobs", "", nil)
	c := sessionCookieOf(rec)
	require.NotNil(t, c)

	st.SaveAll(context.Background(), c.Value, []scraper.JobRecord{
		{Title: "DBA", Link: "https://x/1", Source: "jobinja", City: "تهران", Company: "اسنپ", DatePostedText: "امروز"},
		{Title: "Data Engineer", Link: "https://x/2", Source: "jobvision", City: "اصفهان", Company: "دیجی‌کالا", DatePostedText: "۲ روز پیش"},
	}, "dba")

	rec = doJSON(t, router, http.MethodGet, "/api/jobs", "", []*http.Cookie{c})
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []store.StoredJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 2)

	rec = doJSON(t, router, http.MethodGet, "/api/jobs?source=jobinja", "", []*http.Cookie{c})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "DBA", jobs[0].Title)

	rec = doJSON(t, router, http.MethodGet, "/api/filters", "", []*http.Cookie{c})
	require.Equal(t, http.StatusOK, rec.Code)
	var filters map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filters))
	assert.ElementsMatch(t, []string{"تهران", "اصفهان"}, filters["cities"])
	assert.ElementsMatch(t, []string{"اسنپ", "دیجی‌کالا"}, filters["companies"])

	//a different visitor sees an empty view
	rec = doJSON(t, router, http.MethodGet, "/api/jobs", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Empty(t, jobs)
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodGet, "/api/session", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c := sessionCookieOf(rec)
	require.NotNil(t, c)

	var info store.SessionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, c.Value, info.SessionID)
	assert.Equal(t, 0, info.JobCount)

	st.SaveAll(context.Background(), c.Value, []scraper.JobRecord{
		{Title: "DBA", Link: "https://x/1"},
	}, "dba")

	rec = doJSON(t, router, http.MethodDelete, "/api/session", "", []*http.Cookie{c})
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleared))
	assert.EqualValues(t, 1, cleared["cleared"])
}
