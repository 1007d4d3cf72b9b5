// Package sports maps between RunnersConnect's sport vocabulary and the
// hub's canonical activity types.
package sports

import (
	"github.com/lildude/rcsync/internal/activity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// forward maps a RunnersConnect sport label to a canonical type. Several
// labels collapse onto the same type, so this direction loses information.
// The full partner vocabulary is larger; labels absent here are unsupported.
var forward = map[string]activity.Type{
	"running":                activity.Running,
	"cycling transportation": activity.Cycling,
	"cycling sport":          activity.Cycling,
	"mountain biking":        activity.Cycling,
	"skating":                activity.Skating,
	"skiing cross country":   activity.CrossCountrySkiing,
	"skiing downhill":        activity.DownhillSkiing,
	"snowboarding":           activity.Snowboarding,
	"rowing":                 activity.Rowing,
	"fitness walking":        activity.Walking,
	"hiking":                 activity.Hiking,
	"orienteering":           activity.Walking,
	"walking":                activity.Walking,
	"swimming":               activity.Swimming,
	"other":                  activity.Other,
	"treadmill running":      activity.Running,
	"snowshoeing":            activity.Walking,
	"wheelchair":             activity.Wheelchair,
	"climbing":               activity.Climbing,
	"roller skiing":          activity.RollerSkiing,
	"treadmill walking":      activity.Walking,
}

// reverse picks the representative label for each canonical type, used when
// no better information survives from the original import.
var reverse = map[activity.Type]string{
	activity.Running:            "running",
	activity.Cycling:            "cycling sport",
	activity.MountainBiking:     "mountain biking",
	activity.Skating:            "skating",
	activity.CrossCountrySkiing: "skiing cross country",
	activity.DownhillSkiing:     "skiing downhill",
	activity.Snowboarding:       "snowboarding",
	activity.Rowing:             "rowing",
	activity.Walking:            "walking",
	activity.Hiking:             "hiking",
	activity.Swimming:           "swimming",
	activity.Other:              "other",
	activity.Wheelchair:         "wheelchair",
	activity.Climbing:           "climbing",
	activity.RollerSkiing:       "roller skiing",
}

// lossy holds the canonical types the forward table collapses multiple
// labels onto. Only these can benefit from a preserved original label.
var lossy = map[activity.Type]bool{
	activity.Cycling: true,
	activity.Running: true,
	activity.Walking: true,
}

// FromLabel returns the canonical type for a RunnersConnect sport label.
func FromLabel(label string) (activity.Type, bool) {
	t, ok := forward[label]
	return t, ok
}

// Supported reports whether the canonical type can be sent to RunnersConnect.
func Supported(t activity.Type) bool {
	_, ok := reverse[t]
	return ok
}

// Label chooses the sport label to send for an activity of the given type.
// If the type is lossy, the original import recorded a label we know, and
// re-mapping that label still yields the same type, the original label wins:
// "mountain biking" stays "mountain biking" rather than degrading to
// "cycling sport". If the type changed after import (say Walking edited to
// Cycling) the original label no longer applies and the representative for
// the current type is used instead.
func Label(t activity.Type, original string) string {
	if lossy[t] && original != "" {
		if mapped, ok := forward[original]; ok && mapped == t {
			return original
		}
	}
	return reverse[t]
}

// DisplayName renders a sport label or service ID for human-facing views.
func DisplayName(label string) string {
	return cases.Title(language.English).String(label)
}
