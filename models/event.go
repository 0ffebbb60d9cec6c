// models/event.go
package models

import "time"

type EventFormat string

const (
	EventEnLigne    EventFormat = "En_Ligne"
	EventPresentiel EventFormat = "Présentiel"
)

type EventStatus string

const (
	EventActif   EventStatus = "Actif"
	EventArchive EventStatus = "Archivé"
)

// DojoEvent is a scheduled learning event (workshop, masterclass...).
// Invariant: DateFin >= DateDebut, Capacite > 0 — enforced at create/update.
// Marques semantics match challenges: empty set means every brand.
type DojoEvent struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Titre       string `gorm:"not null" json:"titre"`
	Description string `gorm:"type:text" json:"description"`

	DateDebut time.Time   `gorm:"not null;index" json:"date_debut"`
	DateFin   time.Time   `gorm:"not null" json:"date_fin"`
	Format    EventFormat `gorm:"type:varchar(16);not null" json:"format"`
	Capacite  int         `gorm:"not null" json:"capacite"`

	LienInscription string   `json:"lien_inscription"`
	Marques         []string `gorm:"type:jsonb;serializer:json" json:"marques"`
	OrganisateurID  *string  `gorm:"type:uuid" json:"organisateur_id,omitempty"`

	Statut EventStatus `gorm:"type:varchar(16);default:'Actif';index" json:"statut"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
