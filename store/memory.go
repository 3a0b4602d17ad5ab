package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store. It applies the same ordering rules as
// MongoStore and is safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	users        []models.User
	measurements map[primitive.ObjectID]models.Measurement
	outfits      []models.Outfit
	fitResults   []models.FitResult
	feedback     []models.FitFeedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{measurements: map[primitive.ObjectID]models.Measurement{}}
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, *u)
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetMeasurement(_ context.Context, userID primitive.ObjectID) (*models.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.measurements[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) CreateMeasurement(_ context.Context, m *models.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.measurements[m.UserID]; ok {
		return ErrDuplicate
	}
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	s.measurements[m.UserID] = *m
	return nil
}

func (s *MemoryStore) UpdateMeasurement(_ context.Context, m *models.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.measurements[m.UserID]
	if !ok || existing.ID != m.ID {
		return ErrNotFound
	}
	s.measurements[m.UserID] = *m
	return nil
}

func (s *MemoryStore) CreateOutfit(_ context.Context, o *models.Outfit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	s.outfits = append(s.outfits, *o)
	return nil
}

func (s *MemoryStore) GetOutfit(_ context.Context, userID, outfitID primitive.ObjectID) (*models.Outfit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.outfits {
		if o.ID == outfitID && o.UserID == userID {
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListOutfits(_ context.Context, userID primitive.ObjectID, filter OutfitFilter) ([]models.Outfit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Outfit
	for _, o := range s.outfits {
		if o.UserID != userID {
			continue
		}
		if filter.Occasion != "" && o.Occasion != filter.Occasion {
			continue
		}
		if len(filter.Seasons) > 0 && !contains(filter.Seasons, o.Season) {
			continue
		}
		out = append(out, o)
	}

	reverse(out)
	sort.SliceStable(out, func(i, j int) bool {
		if filter.ByUsage && out[i].TimesWorn != out[j].TimesWorn {
			return out[i].TimesWorn > out[j].TimesWorn
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateOutfit(_ context.Context, o *models.Outfit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outfits {
		if s.outfits[i].ID == o.ID && s.outfits[i].UserID == o.UserID {
			s.outfits[i] = *o
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteOutfit(_ context.Context, userID, outfitID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, o := range s.outfits {
		if o.ID == outfitID && o.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.outfits = append(s.outfits[:idx], s.outfits[idx+1:]...)

	kept := s.fitResults[:0]
	for _, r := range s.fitResults {
		if r.OutfitID == outfitID && r.UserID == userID {
			continue
		}
		kept = append(kept, r)
	}
	s.fitResults = kept
	return nil
}

func (s *MemoryStore) CreateFitResult(_ context.Context, r *models.FitResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.fitResults = append(s.fitResults, *r)
	return nil
}

func (s *MemoryStore) GetFitResult(_ context.Context, userID, resultID primitive.ObjectID) (*models.FitResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.fitResults {
		if r.ID == resultID && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) matchingFitResults(userID primitive.ObjectID, filter FitResultFilter) []models.FitResult {
	var out []models.FitResult
	for _, r := range s.fitResults {
		if r.UserID != userID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, r.Status) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *MemoryStore) ListFitResults(_ context.Context, userID primitive.ObjectID, filter FitResultFilter) ([]models.FitResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.matchingFitResults(userID, filter)
	reverse(out)
	sort.SliceStable(out, func(i, j int) bool {
		if filter.ByScore && out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Skip > 0 {
		if filter.Skip >= int64(len(out)) {
			return nil, nil
		}
		out = out[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < int64(len(out)) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) CountFitResults(_ context.Context, userID primitive.ObjectID, filter FitResultFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matchingFitResults(userID, filter))), nil
}

func (s *MemoryStore) CreateFeedback(_ context.Context, f *models.FitFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	s.feedback = append(s.feedback, *f)
	return nil
}

func (s *MemoryStore) ListFeedback(_ context.Context) ([]models.FitFeedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FitFeedback(nil), s.feedback...), nil
}

// reverse puts later inserts first so ties in the sort key resolve newest
// first.
func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func containsStatus(values []fitting.Status, v fitting.Status) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
