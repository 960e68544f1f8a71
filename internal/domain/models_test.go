package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMatchStatusValues(t *testing.T) {
	expected := map[MatchStatus]string{
		StatusUpcoming:  "upcoming",
		StatusLive:      "live",
		StatusCompleted: "completed",
	}

	for status, want := range expected {
		if string(status) != want {
			t.Fatalf("expected %q got %q", want, status)
		}
	}
}

func TestMatchJSONTags(t *testing.T) {
	type fieldCheck struct {
		name string
		tag  string
	}

	matchType := reflect.TypeOf(Match{})
	fields := []fieldCheck{
		{"ID", "id"},
		{"Sport", "sport"},
		{"HomeTeam", "homeTeam"},
		{"AwayTeam", "awayTeam"},
		{"Location", "location"},
		{"StartTimeUTC", "startTimeUtc"},
		{"Status", "status"},
	}

	for _, f := range fields {
		field, ok := matchType.FieldByName(f.name)
		if !ok {
			t.Fatalf("field %s missing", f.name)
		}
		if got := field.Tag.Get("json"); got != f.tag {
			t.Fatalf("field %s expected tag %q got %q", f.name, f.tag, got)
		}
	}
}

func TestMatchInvolves(t *testing.T) {
	m := Match{HomeTeam: "A", AwayTeam: "B"}
	if !m.Involves("A") || !m.Involves("B") {
		t.Fatalf("expected both sides to be involved")
	}
	if m.Involves("a") {
		t.Fatalf("expected exact match on team names")
	}
}

func TestSportsListKeysSorted(t *testing.T) {
	list := SportsList{
		"tennis":     {Name: "Tennis"},
		"basketball": {Name: "Basketball"},
		"soccer":     {Name: "Soccer"},
	}
	got := list.Keys()
	want := []string{"basketball", "soccer", "tennis"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDefaultPreferencesMarshalsEmptyLists(t *testing.T) {
	data, err := json.Marshal(DefaultPreferences())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"sports":[],"teams":[],"notificationsEnabled":false}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestPreferencesCloneIsDeep(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	orig := Preferences{ClientID: "c1", Sports: []string{"soccer"}, Teams: []string{"A"}, UpdatedAt: &at}
	clone := orig.Clone()
	clone.Sports[0] = "tennis"
	*clone.UpdatedAt = at.Add(time.Hour)

	if orig.Sports[0] != "soccer" {
		t.Fatalf("expected original sports untouched, got %v", orig.Sports)
	}
	if !orig.UpdatedAt.Equal(at) {
		t.Fatalf("expected original timestamp untouched, got %v", orig.UpdatedAt)
	}
}

func TestPreferencesOmitClientID(t *testing.T) {
	data, _ := json.Marshal(Preferences{ClientID: "secret", Sports: []string{}, Teams: []string{}})
	if strings.Contains(string(data), "secret") {
		t.Fatalf("expected client id to stay out of the payload: %s", data)
	}
}

func TestNewStatsResponseCountsPerSport(t *testing.T) {
	matches := []Match{
		{ID: "1", Sport: "soccer", Status: StatusUpcoming},
		{ID: "2", Sport: "basketball", Status: StatusLive},
		{ID: "3", Sport: "soccer", Status: StatusCompleted},
		{ID: "4", Sport: "soccer", Status: "postponed"},
		{ID: "5", Sport: "soccer", Status: StatusLive},
	}

	resp := NewStatsResponse(matches)
	if len(resp.StatsBySport) != 2 {
		t.Fatalf("expected 2 sports, got %+v", resp.StatsBySport)
	}
	soccer := resp.StatsBySport[0]
	if soccer.Sport != "soccer" || soccer.TotalMatches != 4 || soccer.Upcoming != 1 || soccer.Live != 1 || soccer.Completed != 2 {
		t.Fatalf("unexpected soccer stats %+v", soccer)
	}
	if resp.StatsBySport[1].Sport != "basketball" || resp.StatsBySport[1].Live != 1 {
		t.Fatalf("unexpected basketball stats %+v", resp.StatsBySport[1])
	}
}

func TestNewStatsResponseEmptyIsNotNull(t *testing.T) {
	data, _ := json.Marshal(NewStatsResponse(nil))
	if string(data) != `{"statsBySport":[]}` {
		t.Fatalf("unexpected payload %s", data)
	}
}
