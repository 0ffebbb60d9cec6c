package models

import "time"

type ParticipationStatus string

const (
	ParticipationEnCours   ParticipationStatus = "En_cours"
	ParticipationTermine   ParticipationStatus = "Terminé"
	ParticipationAbandonne ParticipationStatus = "Abandonné"
)

// Participation is a user's engagement state with a specific challenge.
// One row per (user, challenge) pair: re-participating after an abandon
// reactivates the existing row instead of creating a second one.
type Participation struct {
	UserID      string              `gorm:"primaryKey;type:uuid" json:"user_id"`
	ChallengeID string              `gorm:"primaryKey;type:uuid" json:"challenge_id"`
	Statut      ParticipationStatus `gorm:"type:varchar(16);default:'En_cours'" json:"statut"`
	CreatedAt   time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}
