package fitting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleScorerScore(t *testing.T) {
	tests := []struct {
		name       string
		user       Set
		outfit     Set
		wantScore  float64
		wantStatus Status
		wantRecs   string
	}{
		{
			name:       "identical measurements",
			user:       Set{Chest: Cm(95), Waist: Cm(80), Hips: Cm(98)},
			outfit:     Set{Chest: Cm(95), Waist: Cm(80), Hips: Cm(98)},
			wantScore:  100,
			wantStatus: StatusPerfect,
			wantRecs:   "Great fit! This outfit matches your measurements well.",
		},
		{
			name:       "loose chest",
			user:       Set{Chest: Cm(90), Waist: Cm(70), Hips: Cm(95)},
			outfit:     Set{Chest: Cm(100), Waist: Cm(70), Hips: Cm(95)},
			wantScore:  80,
			wantStatus: StatusGood,
			wantRecs:   "Chest fit may be loose",
		},
		{
			name:       "difference of exactly five is ignored",
			user:       Set{Chest: Cm(90), Waist: Cm(70), Hips: Cm(95)},
			outfit:     Set{Chest: Cm(95), Waist: Cm(65), Hips: Cm(100)},
			wantScore:  100,
			wantStatus: StatusPerfect,
			wantRecs:   "Great fit! This outfit matches your measurements well.",
		},
		{
			name:       "tight waist and loose hips",
			user:       Set{Chest: Cm(90), Waist: Cm(80), Hips: Cm(95)},
			outfit:     Set{Chest: Cm(90), Waist: Cm(72), Hips: Cm(101)},
			wantScore:  72,
			wantStatus: StatusLoose,
			wantRecs:   "Waist fit may be tight\nHip fit may be loose",
		},
		{
			name:       "score clamps at zero",
			user:       Set{Chest: Cm(120), Waist: Cm(110), Hips: Cm(120)},
			outfit:     Set{Chest: Cm(80), Waist: Cm(60), Hips: Cm(80)},
			wantScore:  0,
			wantStatus: StatusTight,
			wantRecs:   "Chest fit may be tight\nWaist fit may be tight\nHip fit may be tight",
		},
		{
			name:       "missing garment values read as zero",
			user:       Set{Chest: Cm(30), Waist: Cm(4), Hips: Cm(3)},
			outfit:     Set{},
			wantScore:  40,
			wantStatus: StatusTight,
			wantRecs:   "Chest fit may be tight",
		},
		{
			name:       "shoulder is not scored",
			user:       Set{Chest: Cm(90), Waist: Cm(70), Hips: Cm(95), Shoulder: Cm(40)},
			outfit:     Set{Chest: Cm(90), Waist: Cm(70), Hips: Cm(95), Shoulder: Cm(60)},
			wantScore:  100,
			wantStatus: StatusPerfect,
			wantRecs:   "Great fit! This outfit matches your measurements well.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleScorer{}.Score(tt.user, tt.outfit)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantRecs, got.Recommendations)
		})
	}
}

func TestRuleScorerDeterministic(t *testing.T) {
	user := NewSet(92, 74, 99, 41)
	outfit := NewSet(104, 70, 90, 44)
	first := RuleScorer{}.Score(user, outfit)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RuleScorer{}.Score(user, outfit))
	}
}

func TestRuleScorerMonotonic(t *testing.T) {
	user := Set{Chest: Cm(90), Waist: Cm(70), Hips: Cm(95)}
	prev := 101.0
	for garment := 90.0; garment <= 160; garment += 0.5 {
		got := RuleScorer{}.Score(user, Set{Chest: Cm(garment), Waist: Cm(70), Hips: Cm(95)})
		assert.LessOrEqual(t, got.Score, prev, "garment chest %v", garment)
		assert.GreaterOrEqual(t, got.Score, 0.0)
		prev = got.Score
	}
	assert.Equal(t, 0.0, prev)
}

func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Status
	}{
		{100, StatusPerfect},
		{90, StatusPerfect},
		{89.99, StatusGood},
		{75, StatusGood},
		{74.99, StatusLoose},
		{50, StatusLoose},
		{49.99, StatusTight},
		{0, StatusTight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForScore(tt.score), "score %v", tt.score)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusGood.Valid())
	assert.False(t, Status("snug").Valid())
}
