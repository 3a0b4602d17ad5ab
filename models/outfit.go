package models

import (
	"time"

	"github.com/raushankrgupta/fitmate/fitting"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryTop        = "top"
	CategoryBottom     = "bottom"
	CategoryDress      = "dress"
	CategoryFullOutfit = "full_outfit"

	SeasonAll = "all_season"
)

var (
	categories = map[string]bool{CategoryTop: true, CategoryBottom: true, CategoryDress: true, CategoryFullOutfit: true}
	occasions  = map[string]bool{"casual": true, "formal": true, "sports": true, "party": true, "work": true}
	seasons    = map[string]bool{"spring": true, "summer": true, "fall": true, "winter": true, SeasonAll: true}
)

func ValidCategory(c string) bool { return categories[c] }
func ValidOccasion(o string) bool { return occasions[o] }
func ValidSeason(s string) bool   { return seasons[s] }

// Outfit is a garment or full outfit in a user's wardrobe, with its own
// garment measurements.
type Outfit struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageKey    string             `bson:"image_key,omitempty" json:"image_key,omitempty"` // object key, not a URL
	ImageURL    string             `bson:"-" json:"image_url,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Occasion    string             `bson:"occasion,omitempty" json:"occasion,omitempty"`
	Season      string             `bson:"season,omitempty" json:"season,omitempty"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Color       string             `bson:"color,omitempty" json:"color,omitempty"`

	Length   *float64 `bson:"outfit_length,omitempty" json:"outfit_length"`
	Chest    *float64 `bson:"outfit_chest,omitempty" json:"outfit_chest"`
	Waist    *float64 `bson:"outfit_waist,omitempty" json:"outfit_waist"`
	Hips     *float64 `bson:"outfit_hips,omitempty" json:"outfit_hips"`
	Shoulder *float64 `bson:"outfit_shoulder,omitempty" json:"outfit_shoulder"`

	IsFavorite bool      `bson:"is_favorite" json:"is_favorite"`
	IsPublic   bool      `bson:"is_public" json:"is_public"`
	TimesWorn  int       `bson:"times_worn" json:"times_worn"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// Set returns the garment measurements.
func (o Outfit) Set() fitting.Set {
	return fitting.Set{Chest: o.Chest, Waist: o.Waist, Hips: o.Hips, Shoulder: o.Shoulder}
}
