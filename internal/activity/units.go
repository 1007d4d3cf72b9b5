package activity

// Unit identifies the measurement unit a Statistic's values are expressed in.
type Unit string

const (
	Meters               Unit = "m"
	Kilometers           Unit = "km"
	Seconds              Unit = "s"
	Milliseconds         Unit = "ms"
	Kilocalories         Unit = "kcal"
	MetersPerSecond      Unit = "m/s"
	KilometersPerHour    Unit = "km/h"
	BeatsPerMinute       Unit = "bpm"
	RevolutionsPerMinute Unit = "rpm"
	StepsPerMinute       Unit = "spm"
)

// conversions holds the multiplicative factor from one unit to another.
// Only like-for-like dimensions are listed; anything else is a programming
// error and As will leave the value untouched.
var conversions = map[Unit]map[Unit]float64{
	Meters:               {Kilometers: 0.001},
	Kilometers:           {Meters: 1000},
	Seconds:              {Milliseconds: 1000},
	Milliseconds:         {Seconds: 0.001},
	MetersPerSecond:      {KilometersPerHour: 3.6},
	KilometersPerHour:    {MetersPerSecond: 1.0 / 3.6},
	RevolutionsPerMinute: {StepsPerMinute: 1},
	StepsPerMinute:       {RevolutionsPerMinute: 1},
}

// Statistic is one optional summary measurement. Each field is nil when the
// source never reported it.
type Statistic struct {
	Unit  Unit
	Value *float64
	Avg   *float64
	Max   *float64
	Min   *float64
	Gain  *float64
	Loss  *float64
}

// As returns a copy of the statistic converted to the given unit. Converting
// to the statistic's own unit is a no-op copy.
func (s Statistic) As(unit Unit) Statistic {
	if s.Unit == unit {
		return s
	}
	factor, ok := conversions[s.Unit][unit]
	if !ok {
		factor = 1
	}
	out := Statistic{Unit: unit}
	out.Value = scaled(s.Value, factor)
	out.Avg = scaled(s.Avg, factor)
	out.Max = scaled(s.Max, factor)
	out.Min = scaled(s.Min, factor)
	out.Gain = scaled(s.Gain, factor)
	out.Loss = scaled(s.Loss, factor)
	return out
}

func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	s := *v * factor
	return &s
}
