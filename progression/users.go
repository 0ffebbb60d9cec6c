package progression

import (
	"strings"

	"dojo-learning-system/models"
)

// DisplayName returns the user's nom, falling back to the local part of
// the email.
func DisplayName(u *models.User) string {
	if u.Nom != nil && *u.Nom != "" {
		return *u.Nom
	}
	return emailLocalPart(u.Email)
}

// Initials derives two uppercase letters for the avatar placeholder:
// first letters of the first two name tokens ("Jean Dupont" → "JD"),
// first two letters of a single token ("Jean" → "JE"), or the same rules
// applied to the email local part split on dots ("jean.dupont" → "JD").
func Initials(u *models.User) string {
	if u.Nom != nil && *u.Nom != "" {
		return initialsFromTokens(strings.Fields(*u.Nom))
	}
	return initialsFromTokens(strings.Split(emailLocalPart(u.Email), "."))
}

func initialsFromTokens(tokens []string) string {
	var parts []string
	for _, t := range tokens {
		if t != "" {
			parts = append(parts, t)
		}
	}
	switch {
	case len(parts) >= 2:
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[1]))
	case len(parts) == 1:
		r := []rune(parts[0])
		if len(r) >= 2 {
			return strings.ToUpper(string(r[:2]))
		}
		return strings.ToUpper(string(r))
	default:
		return ""
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}

func IsAdmin(u *models.User) bool {
	return u.Role == models.RoleAdministrateur
}

// IsMentor reports whether the user may review solutions. Administrators
// are a superset of mentors for gating purposes.
func IsMentor(u *models.User) bool {
	return u.Role == models.RoleMentor || IsAdmin(u)
}

// HasAdminRole / HasMentorRole mirror IsAdmin / IsMentor for the raw role
// strings forwarded by the gateway in X-User-Roles.
func HasAdminRole(roles []string) bool {
	for _, r := range roles {
		if r == string(models.RoleAdministrateur) {
			return true
		}
	}
	return false
}

func HasMentorRole(roles []string) bool {
	if HasAdminRole(roles) {
		return true
	}
	for _, r := range roles {
		if r == string(models.RoleMentor) {
			return true
		}
	}
	return false
}

// Presentation tokens per level. Unrecognized level defaults to Explorer.
var levelColorClasses = map[models.UserLevel]string{
	models.LevelExplorer:   "text-accent-vert",
	models.LevelCrafter:    "text-exalt-blue",
	models.LevelArchitecte: "text-accent-rose",
}

var levelBgClasses = map[models.UserLevel]string{
	models.LevelExplorer:   "bg-accent-vert",
	models.LevelCrafter:    "bg-exalt-blue",
	models.LevelArchitecte: "bg-accent-rose",
}

func LevelColorClass(level models.UserLevel) string {
	if c, ok := levelColorClasses[level]; ok {
		return c
	}
	return levelColorClasses[models.LevelExplorer]
}

func LevelBgClass(level models.UserLevel) string {
	if c, ok := levelBgClasses[level]; ok {
		return c
	}
	return levelBgClasses[models.LevelExplorer]
}
