package services

import (
	"testing"

	"dojo-learning-system/models"

	"github.com/stretchr/testify/assert"
)

func badgeUser(level models.UserLevel, xp int64) *models.User {
	return &models.User{ID: "u1", Email: "u1@example.com", NiveauActuel: level, PointsTotaux: xp}
}

func TestMeetsConditions(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		completed  int
		conditions map[string]int64
		want       bool
	}{
		{
			name:       "challenge count met",
			user:       badgeUser(models.LevelExplorer, 0),
			completed:  3,
			conditions: map[string]int64{"challenges_termines": 3},
			want:       true,
		},
		{
			name:       "challenge count not met",
			user:       badgeUser(models.LevelExplorer, 0),
			completed:  2,
			conditions: map[string]int64{"challenges_termines": 3},
			want:       false,
		},
		{
			name:       "xp threshold met",
			user:       badgeUser(models.LevelCrafter, 500),
			conditions: map[string]int64{"points_totaux": 500},
			want:       true,
		},
		{
			name:       "xp threshold not met",
			user:       badgeUser(models.LevelCrafter, 499),
			conditions: map[string]int64{"points_totaux": 500},
			want:       false,
		},
		{
			name:       "level ordinal met",
			user:       badgeUser(models.LevelArchitecte, 0),
			conditions: map[string]int64{"niveau": 2},
			want:       true,
		},
		{
			name:       "level ordinal not met",
			user:       badgeUser(models.LevelExplorer, 0),
			conditions: map[string]int64{"niveau": 2},
			want:       false,
		},
		{
			name:       "event badge always met",
			user:       badgeUser(models.LevelExplorer, 0),
			conditions: map[string]int64{"event": 1},
			want:       true,
		},
		{
			name:       "mixed conditions require all",
			user:       badgeUser(models.LevelCrafter, 100),
			completed:  5,
			conditions: map[string]int64{"challenges_termines": 3, "points_totaux": 500},
			want:       false,
		},
		{
			name:       "unknown key never matches",
			user:       badgeUser(models.LevelArchitecte, 9999),
			completed:  99,
			conditions: map[string]int64{"streak_days": 7},
			want:       false,
		},
		{
			name:       "empty conditions never match",
			user:       badgeUser(models.LevelArchitecte, 9999),
			conditions: map[string]int64{},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, meetsConditions(tt.user, tt.completed, tt.conditions))
		})
	}
}

func TestLevelOrdinal(t *testing.T) {
	assert.Equal(t, int64(1), levelOrdinal(models.LevelExplorer))
	assert.Equal(t, int64(2), levelOrdinal(models.LevelCrafter))
	assert.Equal(t, int64(3), levelOrdinal(models.LevelArchitecte))
	assert.Equal(t, int64(0), levelOrdinal(models.UserLevel("Ninja")))
}

func TestSeededBadgeConditions(t *testing.T) {
	// The shipped catalog must be reachable: every seed either triggers on
	// a known counter or is event-scoped.
	architecte := badgeUser(models.LevelArchitecte, 1000)
	for _, seed := range models.BadgeSeeds {
		t.Run(seed.Code, func(t *testing.T) {
			assert.True(t, meetsConditions(architecte, 10, seed.Conditions),
				"seed %s should be attainable", seed.Code)
		})
	}
}
