// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tally/internal/analytics"
	"github.com/tomtom215/tally/internal/config"
	"github.com/tomtom215/tally/internal/database"
	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/ingest"
	"github.com/tomtom215/tally/internal/models"
)

// sampleCSV spans two months and three users.
const sampleCSV = `user_id,date
u1,20230102
u1,20230103
u1,20230110
u2,2023-01-03
u2,2023-02-01
u3,20230215
`

// fakeStore is an in-memory EventStore.
type fakeStore struct {
	mu      sync.Mutex
	seen    map[string]bool
	records []events.Record
	pingErr error
	loadErr error

	// insertErr fails every InsertEvents call after the first okBatches.
	insertErr error
	okBatches int
	batches   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: make(map[string]bool)}
}

func (s *fakeStore) InsertEvents(_ context.Context, records []events.Record) (inserted, duplicates int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	if s.insertErr != nil && s.batches > s.okBatches {
		return 0, 0, s.insertErr
	}
	for _, r := range records {
		key := r.UserID + "|" + r.Date.String()
		if s.seen[key] {
			duplicates++
			continue
		}
		s.seen[key] = true
		s.records = append(s.records, r)
		inserted++
	}
	return inserted, duplicates, nil
}

func (s *fakeStore) LoadLog(_ context.Context, filter database.Filter) (*events.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	users := make(map[string]bool, len(filter.Users))
	for _, u := range filter.Users {
		users[u] = true
	}
	var out []events.Record
	for _, r := range s.records {
		if len(users) > 0 && !users[r.UserID] {
			continue
		}
		out = append(out, r)
	}
	log, err := events.NewLog(out)
	if err != nil {
		return nil, err
	}
	return log.Between(filter.Start, filter.End), nil
}

func (s *fakeStore) Stats(_ context.Context) (*models.EventStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make(map[string]bool)
	for _, r := range s.records {
		users[r.UserID] = true
	}
	return &models.EventStats{TotalEvents: int64(len(s.records)), UniqueUsers: int64(len(users))}, nil
}

func (s *fakeStore) Ping(_ context.Context) error {
	return s.pingErr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func newTestServer(t *testing.T, store *fakeStore, maxUpload int64) http.Handler {
	t.Helper()
	cfg := &config.Config{Import: config.ImportConfig{MaxUploadBytes: maxUpload}}
	service := analytics.NewService(analytics.ServiceConfig{CacheEnabled: true, CacheSize: 8, CacheTTL: time.Minute})
	importer := ingest.NewImporter(store, ingest.Options{BatchSize: 2})
	handler := NewHandler(store, service, importer, cfg, "test")
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return NewRouter(handler, mw).Setup()
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (body %q)", req.Method, req.URL, err, rec.Body.String())
	}
	return rec, env
}

func upload(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	return do(t, h, req)
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return do(t, h, httptest.NewRequest(http.MethodGet, target, nil))
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}

func TestUploadEvents(t *testing.T) {
	store := newFakeStore()
	h := newTestServer(t, store, 1<<20)

	rec, env := upload(t, h, sampleCSV)
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result models.ImportResult
	decodeData(t, env, &result)
	if result.RecordsRead != 6 || result.Inserted != 6 || result.Duplicates != 0 {
		t.Errorf("first upload = %+v", result)
	}

	_, env = upload(t, h, sampleCSV)
	decodeData(t, env, &result)
	if result.Inserted != 0 || result.Duplicates != 6 {
		t.Errorf("re-upload = %+v, want all duplicates", result)
	}
}

func TestUploadEventsMultipart(t *testing.T) {
	store := newFakeStore()
	h := newTestServer(t, store, 1<<20)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadFormField, "events.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(sampleCSV)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec, _ := do(t, h, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(store.records) != 6 {
		t.Errorf("stored %d records, want 6", len(store.records))
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader("--x--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec, env := do(t, h, req)
	if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeBadRequest {
		t.Errorf("missing file field: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestUploadEventsRejected(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		maxUpload  int64
		wantStatus int
		wantCode   string
	}{
		{"bad date", "user_id,date\nu1,20230101\nu2,2023-13-01\n", 1 << 20, http.StatusBadRequest, ErrCodeValidationFailed},
		{"missing column", "user,date\nu1,20230101\n", 1 << 20, http.StatusBadRequest, ErrCodeValidationFailed},
		{"empty body", "", 1 << 20, http.StatusBadRequest, ErrCodeValidationFailed},
		{"too large", sampleCSV, 16, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			h := newTestServer(t, store, tt.maxUpload)

			rec, env := upload(t, h, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Success || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if len(store.records) != 0 {
				t.Errorf("rejected upload stored %d records", len(store.records))
			}
		})
	}
}

func TestUploadEventsPartialStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("disk full")
	store.okBatches = 1
	h := newTestServer(t, store, 1<<20)

	rec, env := upload(t, h, sampleCSV)
	if rec.Code != http.StatusInternalServerError || env.Error == nil || env.Error.Code != ErrCodeDatabaseError {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(env.Error.Message, "disk full") {
		t.Error("store error details should not reach the client")
	}

	raw, err := json.Marshal(env.Error.Details)
	if err != nil {
		t.Fatalf("encode details: %v", err)
	}
	var details struct {
		Stored models.ImportResult `json:"stored"`
	}
	if err := json.Unmarshal(raw, &details); err != nil {
		t.Fatalf("decode details: %v (%s)", err, raw)
	}
	// The first batch of two rows was written before the failure.
	if details.Stored.RecordsRead != 6 || details.Stored.Inserted != 2 {
		t.Errorf("stored = %+v, want 6 read and 2 inserted", details.Stored)
	}
	if len(store.records) != 2 {
		t.Errorf("store holds %d records, want 2", len(store.records))
	}
}

func TestEventStats(t *testing.T) {
	h := newTestServer(t, newFakeStore(), 1<<20)
	upload(t, h, sampleCSV)

	rec, env := get(t, h, "/api/v1/events/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats models.EventStats
	decodeData(t, env, &stats)
	if stats.TotalEvents != 6 || stats.UniqueUsers != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

type point struct {
	PeriodStart string `json:"period_start"`
	Users       int    `json:"users"`
}

func TestActiveUsers(t *testing.T) {
	h := newTestServer(t, newFakeStore(), 1<<20)
	upload(t, h, sampleCSV)

	tests := []struct {
		query      string
		wantPeriod string
		want       []point
	}{
		{"", "day", []point{
			{"2023-01-02", 1}, {"2023-01-03", 2}, {"2023-01-10", 1}, {"2023-02-01", 1}, {"2023-02-15", 1},
		}},
		{"?period=W", "week", []point{
			{"2023-01-02", 2}, {"2023-01-09", 1}, {"2023-01-30", 1}, {"2023-02-13", 1},
		}},
		{"?period=month", "month", []point{{"2023-01-01", 2}, {"2023-02-01", 2}}},
		{"?period=M&users=u3", "month", []point{{"2023-02-01", 1}}},
		{"?period=M&start=20230201", "month", []point{{"2023-02-01", 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, env := get(t, h, "/api/v1/analytics/active-users"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var series struct {
				Period string  `json:"period"`
				Points []point `json:"points"`
			}
			decodeData(t, env, &series)
			if series.Period != tt.wantPeriod {
				t.Errorf("period = %q, want %q", series.Period, tt.wantPeriod)
			}
			if len(series.Points) != len(tt.want) {
				t.Fatalf("points = %+v, want %+v", series.Points, tt.want)
			}
			for i := range tt.want {
				if series.Points[i] != tt.want[i] {
					t.Errorf("point %d = %+v, want %+v", i, series.Points[i], tt.want[i])
				}
			}
		})
	}
}

func TestAcquisition(t *testing.T) {
	h := newTestServer(t, newFakeStore(), 1<<20)
	upload(t, h, sampleCSV)

	_, env := get(t, h, "/api/v1/analytics/acquisition")
	var points []point
	decodeData(t, env, &points)
	want := []point{{"2023-01-01", 2}, {"2023-02-01", 1}}
	if len(points) != len(want) || points[0] != want[0] || points[1] != want[1] {
		t.Errorf("acquisition = %+v, want %+v", points, want)
	}
}

func TestRollingActiveLooksBehindStart(t *testing.T) {
	h := newTestServer(t, newFakeStore(), 1<<20)
	upload(t, h, sampleCSV)

	rec, env := get(t, h, "/api/v1/analytics/rolling-active?start=20230215&end=2023-02-15")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var points []struct {
		Date        string `json:"date"`
		ActiveUsers int    `json:"active_users"`
	}
	decodeData(t, env, &points)
	if len(points) != 1 {
		t.Fatalf("points = %+v, want one", points)
	}
	// u2 on 2023-02-01 falls inside the window but before start.
	if points[0].Date != "2023-02-15" || points[0].ActiveUsers != 2 {
		t.Errorf("point = %+v, want 2023-02-15/2", points[0])
	}
}

func TestRollingActiveRangeLimit(t *testing.T) {
	h := newTestServer(t, newFakeStore(), 1<<20)
	upload(t, h, sampleCSV)

	target := fmt.Sprintf("/api/v1/analytics/rolling-active?start=20230101&end=%s",
		events.NewDate(2023, time.January, 1).AddDays(analytics.DefaultMaxRollingDays).String())
	rec, env := get(t, h, target)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if env.Error == nil || !strings.Contains(env.Error.Message, "exceeds the maximum") {
		t.Errorf("error = %+v, want range limit message", env.Error)
	}

	target = fmt.Sprintf("/api/v1/analytics/rolling-active?start=20230101&end=%s",
		events.NewDate(2023, time.January, 1).AddDays(analytics.DefaultMaxRollingDays-1).String())
	if rec, _ := get(t, h, target); rec.Code != http.StatusOK {
		t.Errorf("range at the limit: status = %d, want 200", rec.Code)
	}
}

func TestAnalyticsQueryErrors(t *testing.T) {
	h := newTestServer(t, newFakeStore(), 1<<20)
	upload(t, h, sampleCSV)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"unknown period", "/api/v1/analytics/active-users?period=Q", http.StatusBadRequest, ErrCodeValidationFailed},
		{"malformed start", "/api/v1/analytics/retention?start=01/02/2023", http.StatusBadRequest, ErrCodeValidationFailed},
		{"year one start", "/api/v1/analytics/retention?start=00010101", http.StatusBadRequest, ErrCodeValidationFailed},
		{"year one end", "/api/v1/analytics/rolling-active?end=0001-01-01", http.StatusBadRequest, ErrCodeValidationFailed},
		{"end before start", "/api/v1/analytics/churn?start=20230301&end=20230101", http.StatusBadRequest, ErrCodeValidationFailed},
		{"no matching events", "/api/v1/analytics/retention?users=nobody", http.StatusUnprocessableEntity, ErrCodeDivisionUndefined},
		{"empty churn", "/api/v1/analytics/churn?users=nobody", http.StatusUnprocessableEntity, ErrCodeDivisionUndefined},
		{"empty report", "/api/v1/analytics/report?start=20240101", http.StatusUnprocessableEntity, ErrCodeDivisionUndefined},
		{"rolling range too long", "/api/v1/analytics/rolling-active?start=19000101&end=99991231", http.StatusBadRequest, ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := get(t, h, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestAnalyticsEndpointsSucceed(t *testing.T) {
	h := newTestServer(t, newFakeStore(), 1<<20)
	upload(t, h, sampleCSV)

	for _, path := range []string{"retention", "cohorts", "churn", "report"} {
		t.Run(path, func(t *testing.T) {
			rec, env := get(t, h, "/api/v1/analytics/"+path)
			if rec.Code != http.StatusOK || !env.Success {
				t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestReportCacheInvalidatedByUpload(t *testing.T) {
	h := newTestServer(t, newFakeStore(), 1<<20)
	upload(t, h, sampleCSV)

	type reportMeta struct {
		Metadata struct {
			EventCount int  `json:"event_count"`
			Cached     bool `json:"cached"`
		} `json:"metadata"`
	}
	fetch := func() reportMeta {
		rec, env := get(t, h, "/api/v1/analytics/report")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var r reportMeta
		decodeData(t, env, &r)
		return r
	}

	if r := fetch(); r.Metadata.Cached || r.Metadata.EventCount != 6 {
		t.Errorf("first report = %+v", r.Metadata)
	}
	if r := fetch(); !r.Metadata.Cached {
		t.Error("second report should be served from cache")
	}

	upload(t, h, "user_id,date\nu4,20230301\n")
	if r := fetch(); r.Metadata.Cached || r.Metadata.EventCount != 7 {
		t.Errorf("report after upload = %+v, want fresh with 7 events", r.Metadata)
	}
}

func TestStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("disk on fire")
	h := newTestServer(t, store, 1<<20)

	rec, env := get(t, h, "/api/v1/analytics/cohorts")
	if rec.Code != http.StatusInternalServerError || env.Error.Code != ErrCodeDatabaseError {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(env.Error.Message, "disk on fire") {
		t.Error("store error details should not reach the client")
	}
}

func TestHealth(t *testing.T) {
	store := newFakeStore()
	h := newTestServer(t, store, 1<<20)

	_, env := get(t, h, "/health")
	var status models.HealthStatus
	decodeData(t, env, &status)
	if status.Status != StatusHealthy || !status.DatabaseConnected || status.Version != "test" {
		t.Errorf("health = %+v", status)
	}

	rec, _ := get(t, h, "/health/ready")
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	store.pingErr = errors.New("closed")
	_, env = get(t, h, "/health")
	decodeData(t, env, &status)
	if status.Status != StatusDegraded || status.DatabaseConnected {
		t.Errorf("health with failed ping = %+v", status)
	}

	rec, env = get(t, h, "/health/ready")
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("ready with failed ping: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec, _ = get(t, h, "/health/live")
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}
}
