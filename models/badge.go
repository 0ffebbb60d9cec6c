package models

import (
	"time"
)

// Badge: static config (seeded in DB)
type Badge struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"` // e.g., "FIRST_CHALLENGE", "ARCHITECTE"
	Nom         string `gorm:"not null" json:"nom"`
	Description string `gorm:"type:text" json:"description"`
	Emoji       string `gorm:"size:10" json:"emoji"`
	// Conditions is an opaque descriptor evaluated by the badge service,
	// e.g., {"challenges_termines": 1}, {"points_totaux": 500}, {"niveau": 3}
	Conditions map[string]int64 `gorm:"type:jsonb;serializer:json" json:"conditions"`
	CreatedAt  time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance. Duplicate awards are idempotent — the unique
// pair key turns a re-award into a no-op, not an error.
type UserBadge struct {
	UserID  string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	BadgeID string    `gorm:"primaryKey;type:uuid" json:"badge_id"`
	Date    time.Time `gorm:"autoCreateTime" json:"date"`
}

// Predefined badge seeds
var BadgeSeeds = []Badge{
	{
		Code:        "BIENVENUE",
		Nom:         "Bienvenue au Dojo",
		Description: "Compte créé sur la plateforme",
		Emoji:       "👋",
		Conditions:  map[string]int64{"event": 1}, // awarded on first visit
	},
	{
		Code:        "FIRST_CHALLENGE",
		Nom:         "Premier Pas",
		Description: "Premier challenge terminé",
		Emoji:       "🎯",
		Conditions:  map[string]int64{"challenges_termines": 1},
	},
	{
		Code:        "SERIAL_LEARNER",
		Nom:         "Apprenant en Série",
		Description: "Cinq challenges terminés",
		Emoji:       "🔥",
		Conditions:  map[string]int64{"challenges_termines": 5},
	},
	{
		Code:        "CRAFTER",
		Nom:         "Crafter",
		Description: "Niveau Crafter atteint",
		Emoji:       "🛠️",
		Conditions:  map[string]int64{"niveau": 2},
	},
	{
		Code:        "ARCHITECTE",
		Nom:         "Architecte",
		Description: "Niveau Architecte atteint",
		Emoji:       "🏛️",
		Conditions:  map[string]int64{"niveau": 3},
	},
	{
		Code:        "XP_500",
		Nom:         "Collectionneur d'XP",
		Description: "500 points d'expérience cumulés",
		Emoji:       "💎",
		Conditions:  map[string]int64{"points_totaux": 500},
	},
}
