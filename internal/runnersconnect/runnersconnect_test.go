package runnersconnect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lildude/rcsync/internal/activity"
)

func testActivity() *activity.Activity {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	return &activity.Activity{
		UID:       "abc123",
		Type:      activity.Running,
		Name:      "Morning Run",
		Notes:     "Felt good",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}
}

func TestBuildUploadStatistics(t *testing.T) {
	a := testActivity()
	a.Stats = activity.Stats{
		Distance:  activity.Statistic{Unit: activity.Meters, Value: activity.Float64(5000)},
		TimerTime: activity.Statistic{Unit: activity.Seconds, Value: activity.Float64(1700)},
		Energy:    activity.Statistic{Unit: activity.Kilocalories, Value: activity.Float64(350)},
		Elevation: activity.Statistic{
			Unit: activity.Meters,
			Max:  activity.Float64(120),
			Min:  activity.Float64(20),
			Gain: activity.Float64(80),
			Loss: activity.Float64(75),
		},
		Speed: activity.Statistic{Unit: activity.MetersPerSecond, Max: activity.Float64(5)},
		HR: activity.Statistic{
			Unit: activity.BeatsPerMinute,
			Avg:  activity.Float64(150),
			Max:  activity.Float64(175),
		},
		RunCadence: activity.Statistic{Unit: activity.StepsPerMinute, Avg: activity.Float64(172)},
	}

	p := BuildUpload(a)

	if p.ActivityType != "running" {
		t.Errorf("activity_type = %q, want running", p.ActivityType)
	}
	if p.StartTime != "2024-03-10 09:00:00 UTC" {
		t.Errorf("start_time = %q", p.StartTime)
	}
	if p.EndTime != "2024-03-10 09:30:00 UTC" {
		t.Errorf("end_time = %q", p.EndTime)
	}
	if p.Name != "Morning Run" || p.Notes != "Felt good" {
		t.Errorf("name/notes = %q/%q", p.Name, p.Notes)
	}
	if p.DistanceTotal == nil || *p.DistanceTotal != 5 {
		t.Errorf("distance_total = %v, want 5 km", p.DistanceTotal)
	}
	if p.DurationTotal != 1700 {
		t.Errorf("duration_total = %v, want timer time 1700", p.DurationTotal)
	}
	if p.CaloriesTotal == nil || *p.CaloriesTotal != 350 {
		t.Errorf("calories_total = %v", p.CaloriesTotal)
	}
	if p.AltitudeMax == nil || *p.AltitudeMax != 120 || p.AltitudeMin == nil || *p.AltitudeMin != 20 {
		t.Errorf("altitude = %v/%v", p.AltitudeMax, p.AltitudeMin)
	}
	if p.TotalAscent == nil || *p.TotalAscent != 80 || p.TotalDescent == nil || *p.TotalDescent != 75 {
		t.Errorf("ascent/descent = %v/%v", p.TotalAscent, p.TotalDescent)
	}
	if p.SpeedMax == nil || *p.SpeedMax != 18 {
		t.Errorf("speed_max = %v, want 18 km/h", p.SpeedMax)
	}
	if p.HeartRateAvg == nil || *p.HeartRateAvg != 150 || p.HeartRateMax == nil || *p.HeartRateMax != 175 {
		t.Errorf("heart rate = %v/%v", p.HeartRateAvg, p.HeartRateMax)
	}
	// No generic cadence, so the running-specific cadence is used.
	if p.CadenceAvg == nil || *p.CadenceAvg != 172 {
		t.Errorf("cadence_avg = %v, want 172", p.CadenceAvg)
	}
}

func TestBuildUploadAbsentStatsStayAbsent(t *testing.T) {
	p := BuildUpload(testActivity())

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{
		"distance_total", "calories_total", "altitude_max", "altitude_min",
		"total_ascent", "total_descent", "speed_max", "heart_rate_avg",
		"heart_rate_max", "cadence_avg", "cadence_max", "token", "activity_id",
	} {
		if v, present := doc[key]; present {
			t.Errorf("expected %q to be absent, got %v", key, v)
		}
	}
	if strings.Contains(string(raw), "null") {
		t.Errorf("payload contains null: %s", raw)
	}
	if v, ok := doc["points"].([]any); !ok || len(v) != 0 {
		t.Errorf("points should be an empty array, got %v", doc["points"])
	}
}

func TestBuildUploadDurationFallback(t *testing.T) {
	tests := []struct {
		name  string
		stats activity.Stats
		want  float64
	}{
		{
			"timer time wins",
			activity.Stats{
				TimerTime:  activity.Statistic{Unit: activity.Seconds, Value: activity.Float64(100)},
				MovingTime: activity.Statistic{Unit: activity.Seconds, Value: activity.Float64(200)},
			},
			100,
		},
		{
			"moving time next",
			activity.Stats{
				MovingTime: activity.Statistic{Unit: activity.Seconds, Value: activity.Float64(200)},
			},
			200,
		},
		{
			"wall clock last",
			activity.Stats{},
			1800,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := testActivity()
			a.Stats = tc.stats
			if got := BuildUpload(a).DurationTotal; got != tc.want {
				t.Errorf("duration_total = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildUploadPreservesOriginalSport(t *testing.T) {
	a := testActivity()
	a.Type = activity.Cycling
	a.Source.Sport = "mountain biking"

	if got := BuildUpload(a).ActivityType; got != "mountain biking" {
		t.Errorf("activity_type = %q, want mountain biking", got)
	}
}

func TestParseTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	got, err := ParseTime(formatTime(in))
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if !got.Equal(in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestBuildUploadPointTimesAreUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	a := testActivity()
	a.Waypoints = []activity.Waypoint{
		{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, est)},
	}

	p := BuildUpload(a)
	if got := p.Points[0].Time; got != "2024-01-01 05:00:00 UTC" {
		t.Errorf("point time = %q, want 2024-01-01 05:00:00 UTC", got)
	}
}

func TestBuildUploadPoints(t *testing.T) {
	a := testActivity()
	ts := a.StartTime
	a.Waypoints = []activity.Waypoint{
		{
			Timestamp: ts,
			Location: &activity.Location{
				Latitude:  activity.Float64(51.5),
				Longitude: activity.Float64(-0.12),
				Altitude:  activity.Float64(11.2),
			},
			HR:      activity.Float64(140.6),
			Cadence: activity.Float64(84.4),
		},
		{
			Timestamp: ts.Add(time.Minute),
			Type:      activity.WaypointPause,
		},
		{
			Timestamp: ts.Add(2 * time.Minute),
			Type:      activity.WaypointResume,
		},
		{
			// A latitude with no longitude must not be sent.
			Timestamp:  ts.Add(3 * time.Minute),
			Location:   &activity.Location{Latitude: activity.Float64(51.5), Altitude: activity.Float64(12)},
			RunCadence: activity.Float64(170.5),
		},
	}

	pts := BuildUpload(a).Points
	if len(pts) != 4 {
		t.Fatalf("expected 4 points, got %d", len(pts))
	}

	if pts[0].Inst != "start" {
		t.Errorf("first point inst = %q, want start", pts[0].Inst)
	}
	if *pts[0].Lat != 51.5 || *pts[0].Lng != -0.12 || *pts[0].Alt != 11.2 {
		t.Errorf("unexpected location on first point: %+v", pts[0])
	}
	if *pts[0].HR != 141 {
		t.Errorf("hr = %d, want rounded 141", *pts[0].HR)
	}
	if *pts[0].Cad != 84 {
		t.Errorf("cad = %d, want rounded 84", *pts[0].Cad)
	}

	if pts[1].Inst != "pause" {
		t.Errorf("second point inst = %q, want pause", pts[1].Inst)
	}
	if pts[2].Inst != "resume" {
		t.Errorf("third point inst = %q, want resume", pts[2].Inst)
	}

	if pts[3].Inst != "stop" {
		t.Errorf("last point inst = %q, want stop", pts[3].Inst)
	}
	if pts[3].Lat != nil || pts[3].Lng != nil {
		t.Error("latitude without longitude should be dropped")
	}
	if pts[3].Alt == nil || *pts[3].Alt != 12 {
		t.Errorf("altitude should survive without lat/lng, got %v", pts[3].Alt)
	}
	if *pts[3].Cad != 171 {
		t.Errorf("cad = %d, want rounded run cadence 171", *pts[3].Cad)
	}
}

func TestBuildUploadSingleWaypoint(t *testing.T) {
	a := testActivity()
	a.Waypoints = []activity.Waypoint{
		{Timestamp: a.StartTime, Type: activity.WaypointPause},
	}

	pts := BuildUpload(a).Points
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
	// Start is assigned first, then stop to the same point, so stop wins.
	if pts[0].Inst != "stop" {
		t.Errorf("single point inst = %q, want stop", pts[0].Inst)
	}
}

func TestUploadActivity(t *testing.T) {
	var gotBody UploadPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/services/upload_activity", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding upload body: %v", err)
		}
		fmt.Fprintln(w, `{"id": "abc123"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := DefaultConfig()
	cfg.UploadURL = server.URL + "/services/upload_activity"
	svc, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	id, err := svc.UploadActivity(context.Background(), "user-token", testActivity())
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if id != "abc123" {
		t.Errorf("upload id = %q, want abc123", id)
	}

	if gotBody.Token != "user-token" {
		t.Errorf("token = %q, want user-token", gotBody.Token)
	}
	if !strings.HasPrefix(gotBody.ActivityID, "rc-abc123-") {
		t.Errorf("activity_id = %q, want rc-abc123-<uuid>", gotBody.ActivityID)
	}
	if gotBody.ActivityType != "running" {
		t.Errorf("activity_type = %q", gotBody.ActivityType)
	}
}

func TestUploadActivityNumericID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/services/upload_activity", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"id": 98765}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := DefaultConfig()
	cfg.UploadURL = server.URL + "/services/upload_activity"
	svc, _ := New(cfg, nil)

	id, err := svc.UploadActivity(context.Background(), "user-token", testActivity())
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if id != "98765" {
		t.Errorf("upload id = %q, want 98765", id)
	}
}

func TestUploadActivityRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/services/upload_activity", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "database on fire")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := DefaultConfig()
	cfg.UploadURL = server.URL + "/services/upload_activity"
	svc, _ := New(cfg, nil)

	_, err := svc.UploadActivity(context.Background(), "user-token", testActivity())
	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UploadError, got %v", err)
	}
	if upErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", upErr.Status)
	}
	if upErr.Body != "database on fire" {
		t.Errorf("body = %q, want the response text", upErr.Body)
	}
}
