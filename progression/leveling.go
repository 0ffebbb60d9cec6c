package progression

import (
	"math"

	"dojo-learning-system/models"
)

// CompletionsPerLevel is the number of Terminé participations at the
// current level required to advance one step.
const CompletionsPerLevel = 2

// xpThresholds: XP needed to fill the progress bar toward the next level.
// Canonical table — Explorer→200, Crafter→500, nothing past Architecte.
var xpThresholds = map[models.UserLevel]int64{
	models.LevelExplorer: 200,
	models.LevelCrafter:  500,
}

// NextLevel returns the level one step above the given one, false at the
// terminal level or for an unrecognized value.
func NextLevel(level models.UserLevel) (models.UserLevel, bool) {
	for i, l := range models.Levels {
		if l == level && i+1 < len(models.Levels) {
			return models.Levels[i+1], true
		}
	}
	return "", false
}

// CalculateNextLevel returns the level the user advances to, or false when
// the threshold for the current level is not met. Advancing is always
// exactly one step, even if counts would satisfy several levels at once.
//
// Completions are counted raw: a Terminé participation counts whether or
// not its solution has been graded.
func CalculateNextLevel(current models.UserLevel, participations []models.Participation, challenges []models.Challenge) (models.UserLevel, bool) {
	next, ok := NextLevel(current)
	if !ok {
		return "", false
	}
	counts := CountCompletedByLevel(participations, challenges)
	if counts[current] >= CompletionsPerLevel {
		return next, true
	}
	return "", false
}

// CountCompletedByLevel counts Terminé participations per challenge level,
// joined by challenge id. Participations referencing unknown challenges
// are ignored.
func CountCompletedByLevel(participations []models.Participation, challenges []models.Challenge) map[models.UserLevel]int {
	byID := make(map[string]*models.Challenge, len(challenges))
	for i := range challenges {
		byID[challenges[i].ID] = &challenges[i]
	}
	counts := map[models.UserLevel]int{
		models.LevelExplorer:   0,
		models.LevelCrafter:    0,
		models.LevelArchitecte: 0,
	}
	for _, p := range participations {
		if p.Statut != models.ParticipationTermine {
			continue
		}
		if c, ok := byID[p.ChallengeID]; ok {
			counts[c.NiveauAssocie]++
		}
	}
	return counts
}

// CalculateTotalXP sums the XP rewards of completed challenges. In-progress
// and abandoned participations contribute zero.
func CalculateTotalXP(participations []models.Participation, challenges []models.Challenge) int64 {
	byID := make(map[string]*models.Challenge, len(challenges))
	for i := range challenges {
		byID[challenges[i].ID] = &challenges[i]
	}
	var total int64
	for _, p := range participations {
		if p.Statut != models.ParticipationTermine {
			continue
		}
		if c, ok := byID[p.ChallengeID]; ok {
			total += c.XP
		}
	}
	return total
}

// XPForNextLevel returns the XP threshold toward the next level, false at
// the terminal level.
func XPForNextLevel(level models.UserLevel) (int64, bool) {
	threshold, ok := xpThresholds[level]
	return threshold, ok
}

// LevelProgress returns the progress percentage toward the next level,
// clamped to [0, 100]. The terminal level is always 100.
func LevelProgress(level models.UserLevel, currentXP int64) int {
	threshold, ok := XPForNextLevel(level)
	if !ok {
		return 100
	}
	pct := math.Round(float64(currentXP) / float64(threshold) * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}
