package progression

import (
	"testing"

	"dojo-learning-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelingCatalog() []models.Challenge {
	return []models.Challenge{
		{ID: "c1", Titre: "Challenge 1", NiveauAssocie: models.LevelExplorer, Difficulte: 1, XP: 50},
		{ID: "c2", Titre: "Challenge 2", NiveauAssocie: models.LevelExplorer, Difficulte: 2, XP: 75},
		{ID: "c3", Titre: "Challenge 3", NiveauAssocie: models.LevelCrafter, Difficulte: 3, XP: 150},
	}
}

func termine(challengeIDs ...string) []models.Participation {
	out := make([]models.Participation, len(challengeIDs))
	for i, id := range challengeIDs {
		out[i] = models.Participation{UserID: "u1", ChallengeID: id, Statut: models.ParticipationTermine}
	}
	return out
}

func TestCalculateNextLevel(t *testing.T) {
	catalog := levelingCatalog()

	t.Run("two Explorer completions advance to Crafter", func(t *testing.T) {
		next, ok := CalculateNextLevel(models.LevelExplorer, termine("c1", "c2"), catalog)
		require.True(t, ok)
		assert.Equal(t, models.LevelCrafter, next)
	})

	t.Run("one completion is not enough", func(t *testing.T) {
		_, ok := CalculateNextLevel(models.LevelExplorer, termine("c1"), catalog)
		assert.False(t, ok)
	})

	t.Run("Architecte is terminal", func(t *testing.T) {
		_, ok := CalculateNextLevel(models.LevelArchitecte, nil, catalog)
		assert.False(t, ok)
	})

	t.Run("never skips a level", func(t *testing.T) {
		// Completions satisfy both the Explorer and Crafter thresholds,
		// yet a single evaluation advances exactly one step.
		catalog := append(levelingCatalog(),
			models.Challenge{ID: "c4", NiveauAssocie: models.LevelCrafter, XP: 100})
		parts := termine("c1", "c2", "c3", "c4")

		next, ok := CalculateNextLevel(models.LevelExplorer, parts, catalog)
		require.True(t, ok)
		assert.Equal(t, models.LevelCrafter, next)
	})

	t.Run("in-progress completions do not count", func(t *testing.T) {
		parts := []models.Participation{
			{UserID: "u1", ChallengeID: "c1", Statut: models.ParticipationTermine},
			{UserID: "u1", ChallengeID: "c2", Statut: models.ParticipationEnCours},
		}
		_, ok := CalculateNextLevel(models.LevelExplorer, parts, catalog)
		assert.False(t, ok)
	})

	t.Run("pure: same inputs give same result", func(t *testing.T) {
		parts := termine("c1", "c2")
		first, okFirst := CalculateNextLevel(models.LevelExplorer, parts, catalog)
		second, okSecond := CalculateNextLevel(models.LevelExplorer, parts, catalog)
		assert.Equal(t, first, second)
		assert.Equal(t, okFirst, okSecond)
	})
}

func TestCountCompletedByLevel(t *testing.T) {
	catalog := levelingCatalog()

	parts := []models.Participation{
		{UserID: "u1", ChallengeID: "c1", Statut: models.ParticipationTermine},
		{UserID: "u1", ChallengeID: "c2", Statut: models.ParticipationTermine},
		{UserID: "u1", ChallengeID: "c3", Statut: models.ParticipationEnCours},
	}

	counts := CountCompletedByLevel(parts, catalog)
	assert.Equal(t, 2, counts[models.LevelExplorer])
	assert.Equal(t, 0, counts[models.LevelCrafter]) // c3 is En_cours
	assert.Equal(t, 0, counts[models.LevelArchitecte])
}

func TestCountCompletedByLevelIsMonotone(t *testing.T) {
	catalog := levelingCatalog()

	before := CountCompletedByLevel(termine("c1"), catalog)
	after := CountCompletedByLevel(termine("c1", "c2", "c3"), catalog)

	for _, level := range models.Levels {
		assert.GreaterOrEqual(t, after[level], before[level])
	}
}

func TestCalculateTotalXP(t *testing.T) {
	catalog := levelingCatalog()

	t.Run("sums completed challenges", func(t *testing.T) {
		assert.Equal(t, int64(125), CalculateTotalXP(termine("c1", "c2"), catalog))
	})

	t.Run("in-progress contributes zero", func(t *testing.T) {
		parts := []models.Participation{
			{UserID: "u1", ChallengeID: "c1", Statut: models.ParticipationEnCours},
		}
		assert.Equal(t, int64(0), CalculateTotalXP(parts, catalog))
	})

	t.Run("abandoned contributes zero", func(t *testing.T) {
		parts := []models.Participation{
			{UserID: "u1", ChallengeID: "c1", Statut: models.ParticipationAbandonne},
		}
		assert.Equal(t, int64(0), CalculateTotalXP(parts, catalog))
	})
}

func TestXPForNextLevel(t *testing.T) {
	threshold, ok := XPForNextLevel(models.LevelExplorer)
	require.True(t, ok)
	assert.Equal(t, int64(200), threshold)

	threshold, ok = XPForNextLevel(models.LevelCrafter)
	require.True(t, ok)
	assert.Equal(t, int64(500), threshold)

	_, ok = XPForNextLevel(models.LevelArchitecte)
	assert.False(t, ok)
}

func TestLevelProgress(t *testing.T) {
	assert.Equal(t, 50, LevelProgress(models.LevelExplorer, 100))
	assert.Equal(t, 0, LevelProgress(models.LevelExplorer, 0))
	assert.Equal(t, 100, LevelProgress(models.LevelExplorer, 200))

	// clamped above the threshold
	assert.Equal(t, 100, LevelProgress(models.LevelExplorer, 10_000))

	// terminal level is always full
	assert.Equal(t, 100, LevelProgress(models.LevelArchitecte, 0))
	assert.Equal(t, 100, LevelProgress(models.LevelArchitecte, 1000))
}

func TestNextLevel(t *testing.T) {
	next, ok := NextLevel(models.LevelExplorer)
	require.True(t, ok)
	assert.Equal(t, models.LevelCrafter, next)

	next, ok = NextLevel(models.LevelCrafter)
	require.True(t, ok)
	assert.Equal(t, models.LevelArchitecte, next)

	_, ok = NextLevel(models.LevelArchitecte)
	assert.False(t, ok)

	_, ok = NextLevel("Ninja")
	assert.False(t, ok)
}
