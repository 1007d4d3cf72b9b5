// Package runnersconnect implements the RunnersConnect service adapter:
// translating canonical activities into RunnersConnect's upload payload and
// submitting them, one POST per activity.
package runnersconnect

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lildude/rcsync/internal/activity"
	"github.com/lildude/rcsync/internal/client"
	"github.com/lildude/rcsync/internal/model"
	"github.com/lildude/rcsync/internal/sports"
)

const (
	ServiceID           = "runnersconnect"
	DisplayName         = "RunnersConnect"
	DisplayAbbreviation = "RC"
)

// Config holds the adapter's endpoint configuration. The upload endpoint
// scheme is deliberately part of the configuration rather than hard-coded.
type Config struct {
	UploadURL     string
	LandingURL    string // where users without a token are sent
	PostLinkURL   string // where users land after a successful auto-link
	UploadRetries int    // consumed by the hub scheduler, not by this adapter
}

// DefaultConfig returns the production endpoints.
func DefaultConfig() Config {
	return Config{
		UploadURL:     "https://staging.runnersconnect.net/services/upload_activity",
		LandingURL:    "https://app.runnersconnect.net",
		PostLinkURL:   "https://sync.runnersconnect.net/",
		UploadRetries: 3,
	}
}

// Service is the RunnersConnect adapter.
type Service struct {
	cfg Config
	rc  *client.Client
}

// New returns a Service using the given config. If hc is nil a default
// client is used.
func New(cfg Config, hc *http.Client) (*Service, error) {
	u, err := url.Parse(cfg.UploadURL)
	if err != nil {
		return nil, fmt.Errorf("parsing upload URL: %w", err)
	}
	return &Service{cfg: cfg, rc: client.NewClient(u, hc)}, nil
}

func (s *Service) Config() Config {
	return s.cfg
}

// UploadError is a rejected upload: any response other than HTTP 200. The
// hub scheduler decides whether to retry; the adapter never does.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("could not upload activity %d %s", e.Status, e.Body)
}

// timeFormat is RunnersConnect's fixed timestamp format. Timestamps are
// always rendered in UTC regardless of the input zone.
const timeFormat = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat) + " UTC"
}

// ParseTime parses a RunnersConnect timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat+" UTC", s)
}

// Point is one track sample in the upload payload.
type Point struct {
	Time string   `json:"time"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
	Alt  *float64 `json:"alt,omitempty"`
	HR   *int     `json:"hr,omitempty"`
	Cad  *int     `json:"cad,omitempty"`
	Inst string   `json:"inst,omitempty"`
}

// UploadPayload is the upload document. Optional statistics are pointers so
// an absent source statistic stays absent on the wire rather than becoming
// zero.
type UploadPayload struct {
	Token         string   `json:"token,omitempty"`
	ActivityID    string   `json:"activity_id,omitempty"`
	ActivityType  string   `json:"activity_type"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Name          string   `json:"name,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	DistanceTotal *float64 `json:"distance_total,omitempty"`
	DurationTotal float64  `json:"duration_total"`
	CaloriesTotal *float64 `json:"calories_total,omitempty"`
	AltitudeMax   *float64 `json:"altitude_max,omitempty"`
	AltitudeMin   *float64 `json:"altitude_min,omitempty"`
	TotalAscent   *float64 `json:"total_ascent,omitempty"`
	TotalDescent  *float64 `json:"total_descent,omitempty"`
	SpeedMax      *float64 `json:"speed_max,omitempty"`
	HeartRateAvg  *float64 `json:"heart_rate_avg,omitempty"`
	HeartRateMax  *float64 `json:"heart_rate_max,omitempty"`
	CadenceAvg    *float64 `json:"cadence_avg,omitempty"`
	CadenceMax    *float64 `json:"cadence_max,omitempty"`
	Points        []Point  `json:"points"`
}

// BuildUpload translates a canonical activity into the upload payload.
// Pure: no I/O, no shared state, a fresh payload per call.
func BuildUpload(a *activity.Activity) *UploadPayload {
	p := &UploadPayload{
		ActivityType: sports.Label(a.Type, a.Source.Sport),
		StartTime:    formatTime(a.StartTime),
		EndTime:      formatTime(a.EndTime),
		Name:         a.Name,
		Notes:        a.Notes,
		Points:       []Point{},
	}

	if d := a.Stats.Distance.As(activity.Kilometers); d.Value != nil {
		p.DistanceTotal = d.Value
	}

	// Timer time is the most faithful duration; fall back to moving time,
	// then to the wall-clock difference.
	if t := a.Stats.TimerTime.As(activity.Seconds); t.Value != nil {
		p.DurationTotal = *t.Value
	} else if m := a.Stats.MovingTime.As(activity.Seconds); m.Value != nil {
		p.DurationTotal = *m.Value
	} else {
		p.DurationTotal = a.EndTime.Sub(a.StartTime).Seconds()
	}

	if e := a.Stats.Energy.As(activity.Kilocalories); e.Value != nil {
		p.CaloriesTotal = e.Value
	}

	elev := a.Stats.Elevation.As(activity.Meters)
	p.AltitudeMax = elev.Max
	p.AltitudeMin = elev.Min
	p.TotalAscent = elev.Gain
	p.TotalDescent = elev.Loss

	if sp := a.Stats.Speed.As(activity.KilometersPerHour); sp.Max != nil {
		p.SpeedMax = sp.Max
	}

	hr := a.Stats.HR.As(activity.BeatsPerMinute)
	p.HeartRateAvg = hr.Avg
	p.HeartRateMax = hr.Max

	if c := a.Stats.Cadence.As(activity.RevolutionsPerMinute); c.Avg != nil {
		p.CadenceAvg = c.Avg
	} else if rc := a.Stats.RunCadence.As(activity.StepsPerMinute); rc.Avg != nil {
		p.CadenceAvg = rc.Avg
	}
	if c := a.Stats.Cadence.As(activity.RevolutionsPerMinute); c.Max != nil {
		p.CadenceMax = c.Max
	} else if rc := a.Stats.RunCadence.As(activity.StepsPerMinute); rc.Max != nil {
		p.CadenceMax = rc.Max
	}

	for _, wp := range a.Waypoints {
		p.Points = append(p.Points, buildPoint(wp))
	}

	// The boundary points always carry start/stop instructions, even when
	// that overwrites a pause or resume tag on the same sample.
	if len(p.Points) > 0 {
		p.Points[0].Inst = "start"
		p.Points[len(p.Points)-1].Inst = "stop"
	}

	return p
}

func buildPoint(wp activity.Waypoint) Point {
	pt := Point{Time: formatTime(wp.Timestamp)}
	if wp.Location != nil {
		// Never a latitude without a longitude.
		if wp.Location.Latitude != nil && wp.Location.Longitude != nil {
			pt.Lat = wp.Location.Latitude
			pt.Lng = wp.Location.Longitude
		}
		if wp.Location.Altitude != nil {
			pt.Alt = wp.Location.Altitude
		}
	}
	if wp.HR != nil {
		pt.HR = roundPtr(*wp.HR)
	}
	if wp.Cadence != nil {
		pt.Cad = roundPtr(*wp.Cadence)
	} else if wp.RunCadence != nil {
		pt.Cad = roundPtr(*wp.RunCadence)
	}

	switch wp.Type {
	case activity.WaypointPause:
		pt.Inst = "pause"
	case activity.WaypointResume:
		pt.Inst = "resume"
	}
	return pt
}

func roundPtr(v float64) *int {
	r := int(math.Round(v))
	return &r
}

// uploadID generates the partner-side activity identifier. The UUID keeps
// it unique across workers uploading the same activity.
func uploadID(a *activity.Activity) string {
	return "rc-" + a.UID + "-" + uuid.NewString()
}

// UploadActivity translates the activity and submits it in one synchronous
// POST. It returns the upload identifier RunnersConnect assigned. Any
// response other than HTTP 200 is returned as an *UploadError.
func (s *Service) UploadActivity(ctx context.Context, token string, a *activity.Activity) (string, error) {
	payload := BuildUpload(a)
	payload.Token = token
	payload.ActivityID = uploadID(a)

	req, err := s.rc.NewRequest(ctx, http.MethodPost, s.cfg.UploadURL, payload)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}

	var res struct {
		ID any `json:"id"`
	}
	resp, err := s.rc.Do(req, &res)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return "", &UploadError{Status: apiErr.StatusCode, Body: apiErr.Body}
		}
		return "", fmt.Errorf("uploading activity: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UploadError{Status: resp.StatusCode}
	}

	switch id := res.ID.(type) {
	case string:
		return id, nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("upload response missing id")
	}
}

// DeleteCachedData is a no-op: this adapter holds no cached data.
func (s *Service) DeleteCachedData(_ *model.AccountLink) {}

// DeleteActivity is a no-op: RunnersConnect offers no deletion endpoint.
func (s *Service) DeleteActivity(_ *model.AccountLink, _ string) {}
