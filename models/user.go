package models

import (
	"time"

	"gorm.io/gorm"
)

// UserLevel is a strictly ordered skill tier.
type UserLevel string

const (
	LevelExplorer   UserLevel = "Explorer"
	LevelCrafter    UserLevel = "Crafter"
	LevelArchitecte UserLevel = "Architecte"
)

// Levels in ascending order.
var Levels = []UserLevel{LevelExplorer, LevelCrafter, LevelArchitecte}

type UserRole string

const (
	RoleUtilisateur    UserRole = "Utilisateur"
	RoleMentor         UserRole = "Mentor"
	RoleAdministrateur UserRole = "Administrateur"
)

// User is a local snapshot of directory data (email, nom, metier, marque)
// plus progression fields owned by this service (niveau_actuel, points_totaux).
// Populated via sync worker from the directory service; the worker never
// writes the progression fields.
type User struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Nom          *string   `json:"nom,omitempty"`
	MetierID     *string   `json:"metier_id,omitempty"`
	MarqueID     *string   `json:"marque_id,omitempty"`
	Localisation *string   `json:"localisation,omitempty"`
	NiveauActuel UserLevel `gorm:"type:varchar(16);default:'Explorer'" json:"niveau_actuel"`
	Role         UserRole  `gorm:"type:varchar(16);default:'Utilisateur'" json:"role"`
	PointsTotaux int64     `gorm:"default:0" json:"points_totaux"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// DirectoryUser mirrors the JSON served by the profile/SSO directory service
// (read-only, consumed by the sync worker).
type DirectoryUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nom          *string   `json:"nom,omitempty"`
	MetierID     *string   `json:"metier_id,omitempty"`
	MarqueID     *string   `json:"marque_id,omitempty"`
	Localisation *string   `json:"localisation,omitempty"`
	Role         string    `json:"role"`
	UpdatedAt    time.Time `json:"updated_at"`
}
