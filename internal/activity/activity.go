// Package activity holds the hub's canonical in-memory representation of a
// workout session, independent of any partner's native format.
package activity

import "time"

// Type is the hub's coarse activity classification.
type Type string

const (
	Running            Type = "running"
	Cycling            Type = "cycling"
	MountainBiking     Type = "mountain_biking"
	Walking            Type = "walking"
	Hiking             Type = "hiking"
	Swimming           Type = "swimming"
	Skating            Type = "skating"
	CrossCountrySkiing Type = "cross_country_skiing"
	DownhillSkiing     Type = "downhill_skiing"
	Snowboarding       Type = "snowboarding"
	Rowing             Type = "rowing"
	RollerSkiing       Type = "roller_skiing"
	Wheelchair         Type = "wheelchair"
	Climbing           Type = "climbing"
	Other              Type = "other"
)

// Types lists every canonical type.
var Types = []Type{
	Running, Cycling, MountainBiking, Walking, Hiking, Swimming, Skating,
	CrossCountrySkiing, DownhillSkiing, Snowboarding, Rowing, RollerSkiing,
	Wheelchair, Climbing, Other,
}

// WaypointType tags a waypoint within the recorded track.
type WaypointType string

const (
	WaypointNormal WaypointType = "normal"
	WaypointPause  WaypointType = "pause"
	WaypointResume WaypointType = "resume"
)

// Source records where an activity came from. Empty fields mean the source
// never supplied that value.
type Source struct {
	Service    string // hub service ID of the origin service
	ActivityID string // the origin service's own identifier
	Sport      string // the origin service's original sport label, verbatim
}

// Activity is one workout session. Statistics are independently optional:
// a nil value means the source never reported it, which is not the same as
// reporting zero.
type Activity struct {
	UID       string
	Type      Type
	Name      string
	Notes     string
	StartTime time.Time
	EndTime   time.Time
	Stats     Stats
	Waypoints []Waypoint // time-ordered
	Source    Source
}

// Stats bundles the per-activity summary statistics.
type Stats struct {
	Distance   Statistic
	TimerTime  Statistic
	MovingTime Statistic
	Energy     Statistic
	Elevation  Statistic
	Speed      Statistic
	HR         Statistic
	Cadence    Statistic // revolutions, e.g. crank cadence
	RunCadence Statistic // steps, running-specific
}

// Location is a waypoint position. Latitude and longitude only make sense as
// a pair but are kept independently optional to mirror what sources send.
type Location struct {
	Latitude  *float64
	Longitude *float64
	Altitude  *float64 // metres
}

// Waypoint is a single sample in the recorded track.
type Waypoint struct {
	Timestamp  time.Time
	Location   *Location
	HR         *float64 // bpm
	Cadence    *float64 // rpm
	RunCadence *float64 // spm
	Type       WaypointType
}

// Float64 returns a pointer to v. Convenience for building test fixtures and
// optional statistic values.
func Float64(v float64) *float64 {
	return &v
}
