package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/app/dashboard"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/cache"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/poller"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/teststubs"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/testutil"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newGateway() *teststubs.StubGateway {
	return &teststubs.StubGateway{
		Sports: testutil.SampleSports(),
		Matches: map[string][]domain.Match{
			"soccer": {
				testutil.SampleMatch("m1", "soccer", fixedNow.Add(90*time.Minute)),
				testutil.SampleMatch("m2", "soccer", fixedNow.Add(30*time.Minute)),
				testutil.SampleMatch("m3", "soccer", fixedNow.Add(26*time.Hour)),
			},
			"tennis": {
				{ID: "t1", Sport: "tennis", HomeTeam: "Alcaraz", AwayTeam: "Sinner", StartTimeUTC: fixedNow.Add(-time.Hour).Format(time.RFC3339), Status: domain.StatusLive},
			},
		},
		Events: []domain.Event{{ID: "e1", Name: "Cup"}},
	}
}

func newTestService(g *teststubs.StubGateway) *dashboard.Service {
	return dashboard.NewService(g, cache.New(g, cache.Config{}, nil, nil), nil, nil).WithClock(testutil.NowAt(fixedNow))
}

func newTestHandler(g *teststubs.StubGateway) *Handler {
	return NewHandler(newTestService(g), nil, nil)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(newGateway())

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := newTestHandler(newGateway())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertError(t, rr, http.StatusServiceUnavailable, "shutting down")
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		status func() poller.Status
		code   int
		errMsg string
	}{
		{name: "no_warmer", status: nil, code: http.StatusOK},
		{name: "ready", status: func() poller.Status { return poller.Status{LastSuccess: fixedNow} }, code: http.StatusOK},
		{name: "never_refreshed", status: func() poller.Status { return poller.Status{} }, code: http.StatusServiceUnavailable, errMsg: "not ready"},
		{name: "failing", status: func() poller.Status {
			return poller.Status{LastSuccess: fixedNow, ConsecutiveFailures: 3, LastError: "upstream down"}
		}, code: http.StatusServiceUnavailable, errMsg: "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(newTestService(newGateway()), nil, tt.status)
			rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
			if tt.errMsg != "" {
				testutil.AssertError(t, rr, tt.code, tt.errMsg)
				return
			}
			testutil.AssertStatus(t, rr, tt.code)
		})
	}
}

func TestSports(t *testing.T) {
	h := newTestHandler(newGateway())
	rr := testutil.Serve(http.HandlerFunc(h.Sports), http.MethodGet, "/api/sports", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp domain.SportsList
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 2 || resp["tennis"].Name != "Tennis" {
		t.Fatalf("unexpected sports %+v", resp)
	}
}

func TestSportsUpstreamFailure(t *testing.T) {
	g := newGateway()
	g.SportsErr = errors.New("down")
	logger, buf := testutil.NewBufferLogger()
	h := NewHandler(newTestService(g), logger, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Sports), http.MethodGet, "/api/sports", nil)
	testutil.AssertError(t, rr, http.StatusInternalServerError, "Failed to fetch sports data")
	if !strings.Contains(buf.String(), "down") {
		t.Fatalf("expected upstream error logged, got %s", buf.String())
	}
}

func TestScheduleValidation(t *testing.T) {
	h := newTestHandler(newGateway())

	rr := testutil.Serve(http.HandlerFunc(h.Schedule), http.MethodGet, "/api/schedule", nil)
	testutil.AssertError(t, rr, http.StatusBadRequest, "sport parameter is required")

	rr = testutil.Serve(http.HandlerFunc(h.Schedule), http.MethodGet, "/api/schedule?sport=soccer&date=03-10-2024", nil)
	testutil.AssertError(t, rr, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)")
}

func TestScheduleFiltersByDate(t *testing.T) {
	h := newTestHandler(newGateway())
	rr := testutil.Serve(http.HandlerFunc(h.Schedule), http.MethodGet, "/api/schedule?sport=soccer&date=2024-03-11", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp []domain.Match
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 1 || resp[0].ID != "m3" {
		t.Fatalf("expected only the next-day match, got %+v", resp)
	}
}

func TestScheduleUpstreamFailure(t *testing.T) {
	g := newGateway()
	g.ScheduleErrs = map[string]error{"soccer": errors.New("down")}
	h := newTestHandler(g)
	rr := testutil.Serve(http.HandlerFunc(h.Schedule), http.MethodGet, "/api/schedule?sport=soccer", nil)
	testutil.AssertError(t, rr, http.StatusInternalServerError, "Failed to fetch schedule")
}

func TestGlobalEvents(t *testing.T) {
	h := newTestHandler(newGateway())
	rr := testutil.Serve(http.HandlerFunc(h.GlobalEvents), http.MethodGet, "/api/events/global?year=2026", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp []domain.Event
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 1 || resp[0].ID != "e1" {
		t.Fatalf("unexpected events %+v", resp)
	}

	g := newGateway()
	g.EventsErr = errors.New("down")
	rr = testutil.Serve(http.HandlerFunc(newTestHandler(g).GlobalEvents), http.MethodGet, "/api/events/global", nil)
	testutil.AssertError(t, rr, http.StatusInternalServerError, "Failed to fetch global events")
}

func TestGlobalEventsEmptyIsArray(t *testing.T) {
	g := newGateway()
	g.Events = nil
	rr := testutil.Serve(http.HandlerFunc(newTestHandler(g).GlobalEvents), http.MethodGet, "/api/events/global", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestStatsSkipsFailingSport(t *testing.T) {
	g := newGateway()
	g.ScheduleErrs = map[string]error{"tennis": errors.New("down")}
	h := newTestHandler(g)

	rr := testutil.Serve(http.HandlerFunc(h.Stats), http.MethodGet, "/api/stats", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp domain.StatsResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.StatsBySport) != 1 || resp.StatsBySport[0].Sport != "soccer" || resp.StatsBySport[0].TotalMatches != 3 {
		t.Fatalf("unexpected stats %+v", resp)
	}
}

func TestStatsFailsWithoutSportsList(t *testing.T) {
	g := newGateway()
	g.SportsErr = errors.New("down")
	rr := testutil.Serve(http.HandlerFunc(newTestHandler(g).Stats), http.MethodGet, "/api/stats", nil)
	testutil.AssertError(t, rr, http.StatusInternalServerError, "Failed to fetch statistics")
}

func TestSetPreferencesValidation(t *testing.T) {
	h := newTestHandler(newGateway())

	rr := testutil.ServeJSON(t, http.HandlerFunc(h.SetPreferences), http.MethodPost, "/api/preferences", map[string]any{"sports": []string{"soccer"}})
	testutil.AssertError(t, rr, http.StatusBadRequest, "clientId is required")

	rr = testutil.Serve(http.HandlerFunc(h.SetPreferences), http.MethodPost, "/api/preferences", strings.NewReader("{not json"))
	testutil.AssertError(t, rr, http.StatusBadRequest, "invalid request body")

	rr = testutil.Serve(http.HandlerFunc(h.SetPreferences), http.MethodPost, "/api/preferences", strings.NewReader(""))
	testutil.AssertError(t, rr, http.StatusBadRequest, "clientId is required")
}

func TestPreferencesOverwriteAndRead(t *testing.T) {
	h := newTestHandler(newGateway())

	rr := testutil.ServeJSON(t, http.HandlerFunc(h.SetPreferences), http.MethodPost, "/api/preferences", map[string]any{
		"clientId":             "client-abc12345",
		"sports":               []string{"soccer"},
		"teams":                []string{"Home"},
		"notificationsEnabled": true,
	})
	testutil.AssertStatus(t, rr, http.StatusOK)
	var stored map[string]any
	testutil.DecodeJSON(t, rr, &stored)
	if _, ok := stored["clientId"]; ok {
		t.Fatalf("expected clientId not echoed, got %+v", stored)
	}
	if stored["updatedAt"] != "2024-03-10T12:00:00Z" || stored["notificationsEnabled"] != true {
		t.Fatalf("unexpected stored record %+v", stored)
	}

	rr = testutil.ServeJSON(t, http.HandlerFunc(h.SetPreferences), http.MethodPost, "/api/preferences", map[string]any{
		"clientId": "client-abc12345",
		"sports":   []string{"tennis"},
	})
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(http.HandlerFunc(h.GetPreferences), http.MethodGet, "/api/preferences?clientId=client-abc12345", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var got domain.Preferences
	testutil.DecodeJSON(t, rr, &got)
	if len(got.Sports) != 1 || got.Sports[0] != "tennis" || len(got.Teams) != 0 || got.NotificationsEnabled {
		t.Fatalf("expected second write to replace the first, got %+v", got)
	}
}

func TestGetPreferencesDefault(t *testing.T) {
	h := newTestHandler(newGateway())
	rr := testutil.Serve(http.HandlerFunc(h.GetPreferences), http.MethodGet, "/api/preferences?clientId=unknown", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	want := `{"sports":[],"teams":[],"notificationsEnabled":false}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Fatalf("expected default record %s, got %s", want, got)
	}
}

func TestNotificationsEnabledCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: `true`, want: true},
		{raw: `false`, want: false},
		{raw: `1`, want: true},
		{raw: `0`, want: false},
		{raw: `"yes"`, want: true},
		{raw: `"false"`, want: true},
		{raw: `""`, want: false},
		{raw: `null`, want: false},
		{raw: `[]`, want: true},
		{raw: `{}`, want: true},
	}

	for _, tt := range tests {
		h := newTestHandler(newGateway())
		body := `{"clientId":"c1","notificationsEnabled":` + tt.raw + `}`
		rr := testutil.Serve(http.HandlerFunc(h.SetPreferences), http.MethodPost, "/api/preferences", strings.NewReader(body))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var got domain.Preferences
		testutil.DecodeJSON(t, rr, &got)
		if got.NotificationsEnabled != tt.want {
			t.Fatalf("notificationsEnabled=%s: expected %v, got %v", tt.raw, tt.want, got.NotificationsEnabled)
		}
	}

	if truthy(nil) {
		t.Fatal("expected absent value to be false")
	}
}

func TestUpcomingWindowKeepsUpstreamOrder(t *testing.T) {
	h := newTestHandler(newGateway())

	rr := testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/api/notifications/upcoming?sports=soccer", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp []domain.Match
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 2 || resp[0].ID != "m1" || resp[1].ID != "m2" {
		t.Fatalf("expected m1 and m2 in upstream order within default window, got %+v", resp)
	}

	rr = testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/api/notifications/upcoming?sports=soccer&windowMinutes=60", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	resp = nil
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 1 || resp[0].ID != "m2" {
		t.Fatalf("expected only m2 within 60 minutes, got %+v", resp)
	}
}

func TestUpcomingNoMatchesIsEmptyArray(t *testing.T) {
	h := newTestHandler(newGateway())
	rr := testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/api/notifications/upcoming?teams=Nobody", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestUpcomingSportsListFailure(t *testing.T) {
	g := newGateway()
	g.SportsErr = errors.New("down")
	rr := testutil.Serve(http.HandlerFunc(newTestHandler(g).Upcoming), http.MethodGet, "/api/notifications/upcoming", nil)
	testutil.AssertError(t, rr, http.StatusInternalServerError, "Failed to fetch upcoming matches")
}
