// Package store persists users, measurements, outfits, fit results and fit
// feedback.
package store

import (
	"context"
	"errors"

	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// OutfitFilter narrows ListOutfits. With ByUsage set, outfits come most worn
// first, then newest; otherwise newest first.
type OutfitFilter struct {
	Occasion string
	Seasons  []string
	ByUsage  bool
}

// FitResultFilter narrows ListFitResults. Results come newest first, or
// highest score first when ByScore is set. A zero Limit means no limit.
type FitResultFilter struct {
	Statuses []fitting.Status
	ByScore  bool
	Skip     int64
	Limit    int64
}

// Store is the persistence surface the service needs. Every lookup is scoped
// to the owning user; ErrNotFound covers both "missing" and "not yours".
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	GetMeasurement(ctx context.Context, userID primitive.ObjectID) (*models.Measurement, error)
	CreateMeasurement(ctx context.Context, m *models.Measurement) error
	UpdateMeasurement(ctx context.Context, m *models.Measurement) error

	CreateOutfit(ctx context.Context, o *models.Outfit) error
	GetOutfit(ctx context.Context, userID, outfitID primitive.ObjectID) (*models.Outfit, error)
	ListOutfits(ctx context.Context, userID primitive.ObjectID, filter OutfitFilter) ([]models.Outfit, error)
	UpdateOutfit(ctx context.Context, o *models.Outfit) error
	DeleteOutfit(ctx context.Context, userID, outfitID primitive.ObjectID) error

	CreateFitResult(ctx context.Context, r *models.FitResult) error
	GetFitResult(ctx context.Context, userID, resultID primitive.ObjectID) (*models.FitResult, error)
	ListFitResults(ctx context.Context, userID primitive.ObjectID, filter FitResultFilter) ([]models.FitResult, error)
	CountFitResults(ctx context.Context, userID primitive.ObjectID, filter FitResultFilter) (int64, error)

	CreateFeedback(ctx context.Context, f *models.FitFeedback) error
	ListFeedback(ctx context.Context) ([]models.FitFeedback, error)
}

var (
	_ Store = (*MongoStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
