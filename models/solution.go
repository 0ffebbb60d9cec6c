package models

import "time"

type SolutionStatus string

const (
	SolutionSoumise SolutionStatus = "Soumise"
	SolutionEvaluee SolutionStatus = "Évaluée"
)

// Solution is a user's submitted answer to a challenge.
// At most one per (user, challenge) pair.
type Solution struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      string `gorm:"uniqueIndex:idx_solutions_user_challenge;type:uuid;not null" json:"user_id"`
	ChallengeID string `gorm:"uniqueIndex:idx_solutions_user_challenge;type:uuid;not null" json:"challenge_id"`

	ContenuTexte     string   `gorm:"type:text;not null" json:"contenu_texte"`
	FichiersAttaches []string `gorm:"type:jsonb;serializer:json" json:"fichiers_attaches"` // object store paths

	Statut           SolutionStatus `gorm:"type:varchar(16);default:'Soumise';index" json:"statut"`
	Note             *int           `json:"note,omitempty"` // 1-5, set on review
	FeedbackReviewer *string        `gorm:"type:text" json:"feedback_reviewer,omitempty"`
	ReviewerID       *string        `gorm:"type:uuid" json:"reviewer_id,omitempty"`

	AConsulteSolution bool `gorm:"default:false" json:"a_consulte_solution"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
