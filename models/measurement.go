package models

import (
	"time"

	"github.com/raushankrgupta/fitmate/bodyshape"
	"github.com/raushankrgupta/fitmate/fitting"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var genders = map[string]bool{"male": true, "female": true, "other": true}

// ValidGender reports whether g is one of male, female, other.
func ValidGender(g string) bool {
	return genders[g]
}

// Measurement holds a user's body measurements. There is at most one per user.
type Measurement struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user_id" json:"user_id"`
	Height            float64            `bson:"height" json:"height"` // in cm
	Weight            float64            `bson:"weight" json:"weight"` // in kg
	Chest             *float64           `bson:"chest,omitempty" json:"chest"`
	Waist             *float64           `bson:"waist,omitempty" json:"waist"`
	Hips              *float64           `bson:"hips,omitempty" json:"hips"`
	Shoulder          *float64           `bson:"shoulder,omitempty" json:"shoulder"`
	Gender            string             `bson:"gender" json:"gender"`
	BodyShape         string             `bson:"body_shape,omitempty" json:"body_shape,omitempty"`
	BodyShapeOverride bool               `bson:"body_shape_override" json:"body_shape_override"`
	SkinTone          string             `bson:"skin_tone,omitempty" json:"skin_tone,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// Set returns the body measurements used for classification and fit.
func (m Measurement) Set() fitting.Set {
	return fitting.Set{Chest: m.Chest, Waist: m.Waist, Hips: m.Hips, Shoulder: m.Shoulder}
}

// RefreshBodyShape reclassifies the body shape unless the caller pinned it.
// An unclassifiable set clears the shape.
func (m *Measurement) RefreshBodyShape() {
	if m.BodyShapeOverride {
		return
	}
	shape, ok := bodyshape.Classify(m.Set())
	if !ok {
		m.BodyShape = ""
		return
	}
	m.BodyShape = string(shape)
}

// Shape returns the stored body shape, if it is a known one.
func (m Measurement) Shape() (bodyshape.Shape, bool) {
	return bodyshape.Parse(m.BodyShape)
}
