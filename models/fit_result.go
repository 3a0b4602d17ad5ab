package models

import (
	"time"

	"github.com/raushankrgupta/fitmate/fitting"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FitResult is the stored outcome of one prediction. Results are append-only.
type FitResult struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	OutfitID        primitive.ObjectID `bson:"outfit_id" json:"outfit_id"`
	Score           float64            `bson:"fit_score" json:"fit_score"`
	Status          fitting.Status     `bson:"fit_status" json:"fit_status"`
	Recommendations string             `bson:"recommendations" json:"recommendations"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// NewFitResult builds the record for a prediction made at now.
func NewFitResult(userID, outfitID primitive.ObjectID, r fitting.Result, now time.Time) FitResult {
	return FitResult{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		OutfitID:        outfitID,
		Score:           r.Score,
		Status:          r.Status,
		Recommendations: r.Recommendations,
		CreatedAt:       now,
	}
}

// FitFeedback is a user's report of how an outfit actually fit. The
// measurements are snapshots taken when the feedback was given, so the
// record stays usable as a training sample after either side changes.
type FitFeedback struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"user_id" json:"user_id"`
	OutfitID           primitive.ObjectID `bson:"outfit_id" json:"outfit_id"`
	FitResultID        primitive.ObjectID `bson:"fit_result_id" json:"fit_result_id"`
	UserMeasurements   fitting.Set        `bson:"user_measurements" json:"user_measurements"`
	OutfitMeasurements fitting.Set        `bson:"outfit_measurements" json:"outfit_measurements"`
	ActualScore        float64            `bson:"actual_score" json:"actual_score"`
	Comment            string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}
