// models/challenge.go
package models

import "time"

type ChallengeType string

const (
	ChallengeTypeQuiz     ChallengeType = "Quiz"
	ChallengeTypeExercice ChallengeType = "Exercice"
	ChallengeTypeProjet   ChallengeType = "Projet"
	ChallengeTypeUseCase  ChallengeType = "Use_Case"
)

type EvaluationType string

const (
	EvaluationManuelle    EvaluationType = "Manuelle"
	EvaluationAutomatique EvaluationType = "Automatique"
	EvaluationHybride     EvaluationType = "Hybride"
)

type ChallengeStatus string

const (
	ChallengeActif   ChallengeStatus = "Actif"
	ChallengeArchive ChallengeStatus = "Archivé"
)

type ParticipantMode string

const (
	ParticipantSolo  ParticipantMode = "Solo"
	ParticipantDuo   ParticipantMode = "Duo"
	ParticipantGroup ParticipantMode = "Équipe"
)

// Challenge is a task definition with difficulty, XP reward and evaluation
// mode. Created/edited by administrators only, read by everyone.
// Marques semantics: an empty set means "transverse" — the challenge is
// visible under every brand filter.
type Challenge struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Titre       string `gorm:"not null" json:"titre"`
	Description string `gorm:"type:text" json:"description"`

	NiveauAssocie  UserLevel       `gorm:"type:varchar(16);not null;index" json:"niveau_associe"`
	Type           ChallengeType   `gorm:"type:varchar(16);not null" json:"type"`
	Difficulte     int             `gorm:"not null" json:"difficulte"` // 1-5
	TypeEvaluation EvaluationType  `gorm:"type:varchar(16);not null" json:"type_evaluation"`
	XP             int64           `gorm:"not null;default:0" json:"xp"`
	Statut         ChallengeStatus `gorm:"type:varchar(16);default:'Actif';index" json:"statut"`

	// Tags
	Marques     []string `gorm:"type:jsonb;serializer:json" json:"marques"`
	EtapeVortex *string  `gorm:"type:varchar(32)" json:"etape_vortex,omitempty"`
	Thematiques []string `gorm:"type:jsonb;serializer:json" json:"thematiques"`

	Participants ParticipantMode `gorm:"type:varchar(16);default:'Solo'" json:"participants"`

	// Enrichment
	OutilsRecommandes   []string `gorm:"type:jsonb;serializer:json" json:"outils_recommandes"`
	CriteresEvaluation  string   `gorm:"type:text" json:"criteres_evaluation"`
	VisionImpact        *string  `gorm:"type:text" json:"vision_impact,omitempty"`
	LeSaviezVous        *string  `gorm:"type:text" json:"le_saviez_vous,omitempty"`
	Sources             []string `gorm:"type:jsonb;serializer:json" json:"sources"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
