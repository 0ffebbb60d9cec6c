// Package progression holds the pure business rules of the dojo: catalog
// filtering, participation state queries and the leveling/XP engine.
//
// Every function here is a synchronous computation over slices the caller
// already fetched — participations and challenges are joined in memory by
// challenge id (two round trips to the store, one join here). Nothing in
// this package touches the database or the object store.
package progression

import (
	"math"
	"strings"

	"dojo-learning-system/models"
)

// ChallengeFilters configures the catalog filter. Zero values impose no
// constraint; provided filters AND together.
type ChallengeFilters struct {
	Niveau     models.UserLevel
	Marque     string // matches challenges containing the marque OR transverse ones (empty marques)
	Difficulte int
	Search     string // case/accent-insensitive substring on titre or description
}

// FilterChallenges returns the subset of challenges satisfying every
// provided filter, preserving input order.
func FilterChallenges(challenges []models.Challenge, f ChallengeFilters) []models.Challenge {
	var out []models.Challenge
	search := Fold(f.Search)
	for _, c := range challenges {
		if f.Niveau != "" && c.NiveauAssocie != f.Niveau {
			continue
		}
		if f.Marque != "" && !matchesMarque(c.Marques, f.Marque) {
			continue
		}
		if f.Difficulte != 0 && c.Difficulte != f.Difficulte {
			continue
		}
		if search != "" &&
			!strings.Contains(Fold(c.Titre), search) &&
			!strings.Contains(Fold(c.Description), search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesMarque(marques []string, marque string) bool {
	if len(marques) == 0 {
		return true // transverse: applies to all brands
	}
	for _, m := range marques {
		if m == marque {
			return true
		}
	}
	return false
}

// GroupChallengesByLevel buckets challenges per level, preserving relative
// order. Challenges with an unrecognized level are dropped.
func GroupChallengesByLevel(challenges []models.Challenge) map[models.UserLevel][]models.Challenge {
	grouped := map[models.UserLevel][]models.Challenge{
		models.LevelExplorer:   {},
		models.LevelCrafter:    {},
		models.LevelArchitecte: {},
	}
	for _, c := range challenges {
		if _, ok := grouped[c.NiveauAssocie]; !ok {
			continue
		}
		grouped[c.NiveauAssocie] = append(grouped[c.NiveauAssocie], c)
	}
	return grouped
}

// ParticipationForChallenge returns the participation matching the
// challenge, or nil. At most one match is expected (store invariant).
func ParticipationForChallenge(challengeID string, participations []models.Participation) *models.Participation {
	for i := range participations {
		if participations[i].ChallengeID == challengeID {
			return &participations[i]
		}
	}
	return nil
}

func HasCompletedChallenge(challengeID string, participations []models.Participation) bool {
	p := ParticipationForChallenge(challengeID, participations)
	return p != nil && p.Statut == models.ParticipationTermine
}

func IsInProgress(challengeID string, participations []models.Participation) bool {
	p := ParticipationForChallenge(challengeID, participations)
	return p != nil && p.Statut == models.ParticipationEnCours
}

// CompletedChallengeTitles returns the titles of challenges whose
// participation is Terminé. Participations pointing at unknown challenge
// ids are skipped silently.
func CompletedChallengeTitles(participations []models.Participation, challenges []models.Challenge) []string {
	byID := make(map[string]*models.Challenge, len(challenges))
	for i := range challenges {
		byID[challenges[i].ID] = &challenges[i]
	}
	var titles []string
	for _, p := range participations {
		if p.Statut != models.ParticipationTermine {
			continue
		}
		if c, ok := byID[p.ChallengeID]; ok {
			titles = append(titles, c.Titre)
		}
	}
	return titles
}

// ChallengeStats summarizes a user's catalog progress.
type ChallengeStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"in_progress"`
	CompletionRate int `json:"completion_rate"` // integer percent, 0 when Total is 0
}

func GetChallengeStats(participations []models.Participation, challenges []models.Challenge) ChallengeStats {
	stats := ChallengeStats{Total: len(challenges)}
	for _, p := range participations {
		switch p.Statut {
		case models.ParticipationTermine:
			stats.Completed++
		case models.ParticipationEnCours:
			stats.InProgress++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}
