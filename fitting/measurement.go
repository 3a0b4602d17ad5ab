package fitting

// Set holds chest/waist/hips/shoulder values in centimeters for either a body
// or a garment. A nil field means the value is unknown.
type Set struct {
	Chest    *float64 `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist    *float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips     *float64 `bson:"hips,omitempty" json:"hips,omitempty"`
	Shoulder *float64 `bson:"shoulder,omitempty" json:"shoulder,omitempty"`
}

// Cm returns a pointer to v, for building a Set literal.
func Cm(v float64) *float64 {
	return &v
}

// NewSet builds a Set with all four values present.
func NewSet(chest, waist, hips, shoulder float64) Set {
	return Set{Chest: Cm(chest), Waist: Cm(waist), Hips: Cm(hips), Shoulder: Cm(shoulder)}
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// ChestValue returns the chest measurement, 0 when absent.
func (s Set) ChestValue() float64 { return value(s.Chest) }

// WaistValue returns the waist measurement, 0 when absent.
func (s Set) WaistValue() float64 { return value(s.Waist) }

// HipsValue returns the hips measurement, 0 when absent.
func (s Set) HipsValue() float64 { return value(s.Hips) }

// ShoulderValue returns the shoulder measurement, 0 when absent.
func (s Set) ShoulderValue() float64 { return value(s.Shoulder) }

// area is one of the scored measurement areas together with the label used
// in guidance text.
type area struct {
	label   string
	mlLabel string
	get     func(Set) float64
}

var scoredAreas = []area{
	{label: "Chest", mlLabel: "Chest area", get: Set.ChestValue},
	{label: "Waist", mlLabel: "Waist", get: Set.WaistValue},
	{label: "Hip", mlLabel: "Hip area", get: Set.HipsValue},
}
