package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecordActionCountsIgnoredSeparately(t *testing.T) {
	c := New()
	c.RecordAction("FEED", true)
	c.RecordAction("FEED", true)
	c.RecordAction("PLAY", true)
	c.RecordAction("PLAY", false)

	if c.Feeds != 2 || c.Plays != 1 || c.IgnoredActions != 1 {
		t.Errorf("feeds=%d plays=%d ignored=%d", c.Feeds, c.Plays, c.IgnoredActions)
	}
}

func TestRecordTickTracksMax(t *testing.T) {
	c := New()
	c.RecordTick(2 * time.Millisecond)
	c.RecordTick(5 * time.Millisecond)
	c.RecordTick(time.Millisecond)

	if c.TickCount != 3 {
		t.Errorf("TickCount = %d", c.TickCount)
	}
	if c.TickLatencyMax != int64(5*time.Millisecond) {
		t.Errorf("TickLatencyMax = %v", time.Duration(c.TickLatencyMax))
	}
}

func TestConfigAndArchiveOutcomes(t *testing.T) {
	c := New()
	c.RecordConfigLoad(nil)
	c.RecordConfigLoad(errors.New("404"))
	c.RecordArchiveWrite(nil)
	c.RecordArchiveWrite(errors.New("disk full"))

	if c.ConfigLoads != 1 || c.ConfigFailures != 1 {
		t.Errorf("config loads=%d failures=%d", c.ConfigLoads, c.ConfigFailures)
	}
	if c.EventsArchived != 1 || c.ArchiveErrors != 1 {
		t.Errorf("archive written=%d errors=%d", c.EventsArchived, c.ArchiveErrors)
	}
}

func TestPrometheusHandler(t *testing.T) {
	c := New()
	c.RecordAction("FEED", true)
	c.RecordDeath()
	c.RecordWSConnection(1)

	rec := httptest.NewRecorder()
	c.PrometheusHandler()(rec, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`vpet_actions_total{kind="feed"} 1`,
		"vpet_deaths_total 1",
		"vpet_ws_connections 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in:\n%s", want, body)
		}
	}
}

func TestJSONHandler(t *testing.T) {
	c := New()
	c.RecordTick(time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"count":1`) {
		t.Errorf("tick count missing: %s", rec.Body)
	}
}
