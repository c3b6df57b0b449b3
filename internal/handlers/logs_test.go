package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hazard_monitor/internal/models"
	"hazard_monitor/internal/service"
)

func TestLogsHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{parseID: 99}
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.NodeEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventAlert, Description: "humidity 25 below limit 30"},
		{EventID: "e2", OccurredAt: now.Add(1 * time.Second), Type: models.EventConnected, Description: "radio associated"},
	}
	logs := &mockEventLog{resp: events}
	s := &service.Service{
		Authorization: auth,
		EventLog:      logs,
	}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/logs?from=notatime"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	w = httptest.NewRecorder()
	q := "/api/v1/logs?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=connected&limit=50"
	r.ServeHTTP(w, authedRequest(http.MethodGet, q))
	if w.Code != http.StatusOK {
		t.Fatalf("logs status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                `json:"count"`
		Events []models.NodeEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastType != models.EventConnected || logs.lastLimit != 50 {
		t.Fatalf("filter not forwarded: type=%q limit=%d", logs.lastType, logs.lastLimit)
	}
	if !logs.lastFrom.Equal(now) {
		t.Fatalf("from = %v, want %v", logs.lastFrom, now)
	}
}

func TestLogsHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	logs := &mockEventLog{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, EventLog: logs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/logs?from=2026-10-17&to=2026-10-17"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	wantTo := time.Date(2026, 10, 17, 23, 59, 59, 999999999, time.UTC)
	if !logs.lastTo.Equal(wantTo) {
		t.Fatalf("to = %v, want %v", logs.lastTo, wantTo)
	}
}

func TestLogsHandler_Errors(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		listErr   error
		wantCode  int
		wantCalls int
	}{
		{"bad to", "to=yesterday", nil, http.StatusBadRequest, 0},
		{"bad limit", "limit=-3", nil, http.StatusBadRequest, 0},
		{"non numeric limit", "limit=ten", nil, http.StatusBadRequest, 0},
		{"filter rejected by service", "type=bogus", fmt.Errorf("list: %w", service.ErrUnknownEventType), http.StatusBadRequest, 1},
		{"store failure", "", errors.New("disk I/O error"), http.StatusInternalServerError, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := &mockEventLog{err: tc.listErr}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, EventLog: logs})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/logs?"+tc.query))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if logs.calls != tc.wantCalls {
				t.Fatalf("service calls=%d, want %d", logs.calls, tc.wantCalls)
			}
		})
	}
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-10-17T10:00:00+02:00", time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC), true},
		{"2026-10-17 10:00:00", time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC), true},
		{"2026-10-17", time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), true},
		{"17/10/2026", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := parseQueryTime(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("%q: err=%v", tc.in, err)
		}
		if tc.ok && !got.Equal(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}
