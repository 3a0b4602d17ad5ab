package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/raushankrgupta/fitmate/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection        = "users"
	measurementsCollection = "measurements"
	outfitsCollection      = "outfits"
	fitResultsCollection   = "fit_results"
	feedbackCollection     = "fit_feedback"
)

// MongoStore implements Store on a MongoDB database.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(client *mongo.Client, databaseName string) *MongoStore {
	return &MongoStore{db: client.Database(databaseName)}
}

// EnsureIndexes creates the unique and sort indexes the queries rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		measurementsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		outfitsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "uploaded_at", Value: -1}}},
		},
		fitResultsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "fit_score", Value: -1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(usersCollection).InsertOne(ctx, u)
	return insertErr(err)
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *MongoStore) GetMeasurement(ctx context.Context, userID primitive.ObjectID) (*models.Measurement, error) {
	var m models.Measurement
	err := s.db.Collection(measurementsCollection).FindOne(ctx, bson.M{"user_id": userID}).Decode(&m)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *MongoStore) CreateMeasurement(ctx context.Context, m *models.Measurement) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(measurementsCollection).InsertOne(ctx, m)
	return insertErr(err)
}

func (s *MongoStore) UpdateMeasurement(ctx context.Context, m *models.Measurement) error {
	res, err := s.db.Collection(measurementsCollection).ReplaceOne(ctx, bson.M{"_id": m.ID, "user_id": m.UserID}, m)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateOutfit(ctx context.Context, o *models.Outfit) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(outfitsCollection).InsertOne(ctx, o)
	return err
}

func (s *MongoStore) GetOutfit(ctx context.Context, userID, outfitID primitive.ObjectID) (*models.Outfit, error) {
	var o models.Outfit
	err := s.db.Collection(outfitsCollection).FindOne(ctx, bson.M{"_id": outfitID, "user_id": userID}).Decode(&o)
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *MongoStore) ListOutfits(ctx context.Context, userID primitive.ObjectID, filter OutfitFilter) ([]models.Outfit, error) {
	query := bson.M{"user_id": userID}
	if filter.Occasion != "" {
		query["occasion"] = filter.Occasion
	}
	if len(filter.Seasons) > 0 {
		query["season"] = bson.M{"$in": filter.Seasons}
	}

	findOptions := options.Find()
	if filter.ByUsage {
		findOptions.SetSort(bson.D{{Key: "times_worn", Value: -1}, {Key: "uploaded_at", Value: -1}})
	} else {
		findOptions.SetSort(bson.D{{Key: "uploaded_at", Value: -1}})
	}

	cursor, err := s.db.Collection(outfitsCollection).Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var outfits []models.Outfit
	if err := cursor.All(ctx, &outfits); err != nil {
		return nil, err
	}
	return outfits, nil
}

func (s *MongoStore) UpdateOutfit(ctx context.Context, o *models.Outfit) error {
	res, err := s.db.Collection(outfitsCollection).ReplaceOne(ctx, bson.M{"_id": o.ID, "user_id": o.UserID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOutfit removes the outfit and its fit results.
func (s *MongoStore) DeleteOutfit(ctx context.Context, userID, outfitID primitive.ObjectID) error {
	res, err := s.db.Collection(outfitsCollection).DeleteOne(ctx, bson.M{"_id": outfitID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = s.db.Collection(fitResultsCollection).DeleteMany(ctx, bson.M{"outfit_id": outfitID, "user_id": userID})
	return err
}

func (s *MongoStore) CreateFitResult(ctx context.Context, r *models.FitResult) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(fitResultsCollection).InsertOne(ctx, r)
	return err
}

func (s *MongoStore) GetFitResult(ctx context.Context, userID, resultID primitive.ObjectID) (*models.FitResult, error) {
	var r models.FitResult
	err := s.db.Collection(fitResultsCollection).FindOne(ctx, bson.M{"_id": resultID, "user_id": userID}).Decode(&r)
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func fitResultQuery(userID primitive.ObjectID, filter FitResultFilter) bson.M {
	query := bson.M{"user_id": userID}
	if len(filter.Statuses) > 0 {
		query["fit_status"] = bson.M{"$in": filter.Statuses}
	}
	return query
}

func (s *MongoStore) ListFitResults(ctx context.Context, userID primitive.ObjectID, filter FitResultFilter) ([]models.FitResult, error) {
	findOptions := options.Find()
	if filter.ByScore {
		findOptions.SetSort(bson.D{{Key: "fit_score", Value: -1}, {Key: "created_at", Value: -1}})
	} else {
		findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}
	if filter.Skip > 0 {
		findOptions.SetSkip(filter.Skip)
	}
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}

	cursor, err := s.db.Collection(fitResultsCollection).Find(ctx, fitResultQuery(userID, filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.FitResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *MongoStore) CountFitResults(ctx context.Context, userID primitive.ObjectID, filter FitResultFilter) (int64, error) {
	return s.db.Collection(fitResultsCollection).CountDocuments(ctx, fitResultQuery(userID, filter))
}

func (s *MongoStore) CreateFeedback(ctx context.Context, f *models.FitFeedback) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(feedbackCollection).InsertOne(ctx, f)
	return err
}

func (s *MongoStore) ListFeedback(ctx context.Context) ([]models.FitFeedback, error) {
	cursor, err := s.db.Collection(feedbackCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feedback []models.FitFeedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}
