package progression

import (
	"testing"

	"dojo-learning-system/models"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	user := &models.User{Email: "jean.dupont@exalt.com", Nom: ptr("Jean Dupont")}
	assert.Equal(t, "Jean Dupont", DisplayName(user))

	noName := &models.User{Email: "jean.dupont@exalt.com"}
	assert.Equal(t, "jean.dupont", DisplayName(noName))

	emptyName := &models.User{Email: "jean.dupont@exalt.com", Nom: ptr("")}
	assert.Equal(t, "jean.dupont", DisplayName(emptyName))
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		user models.User
		want string
	}{
		{"two name tokens", models.User{Nom: ptr("Jean Dupont"), Email: "x@y.com"}, "JD"},
		{"single name token uses first two letters", models.User{Nom: ptr("Jean"), Email: "x@y.com"}, "JE"},
		{"email local part split on dots", models.User{Email: "jean.dupont@x.com"}, "JD"},
		{"single email token", models.User{Email: "jean@x.com"}, "JE"},
		{"extra tokens ignored", models.User{Nom: ptr("Jean Pierre Dupont"), Email: "x@y.com"}, "JP"},
		{"one-letter token", models.User{Nom: ptr("J"), Email: "x@y.com"}, "J"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initials(&tt.user))
		})
	}
}

func TestRoleChecks(t *testing.T) {
	user := &models.User{Role: models.RoleUtilisateur}
	mentor := &models.User{Role: models.RoleMentor}
	admin := &models.User{Role: models.RoleAdministrateur}

	assert.False(t, IsAdmin(user))
	assert.False(t, IsAdmin(mentor))
	assert.True(t, IsAdmin(admin))

	assert.False(t, IsMentor(user))
	assert.True(t, IsMentor(mentor))
	assert.True(t, IsMentor(admin)) // admin is a superset of mentor
}

func TestRoleChecksFromHeaders(t *testing.T) {
	assert.True(t, HasAdminRole([]string{"Utilisateur", "Administrateur"}))
	assert.False(t, HasAdminRole([]string{"Mentor"}))
	assert.True(t, HasMentorRole([]string{"Mentor"}))
	assert.True(t, HasMentorRole([]string{"Administrateur"}))
	assert.False(t, HasMentorRole([]string{"Utilisateur"}))
	assert.False(t, HasMentorRole(nil))
}

func TestLevelClasses(t *testing.T) {
	assert.Equal(t, "text-accent-vert", LevelColorClass(models.LevelExplorer))
	assert.Equal(t, "text-exalt-blue", LevelColorClass(models.LevelCrafter))
	assert.Equal(t, "text-accent-rose", LevelColorClass(models.LevelArchitecte))

	assert.Equal(t, "bg-accent-vert", LevelBgClass(models.LevelExplorer))
	assert.Equal(t, "bg-exalt-blue", LevelBgClass(models.LevelCrafter))
	assert.Equal(t, "bg-accent-rose", LevelBgClass(models.LevelArchitecte))

	// unrecognized level falls back to the Explorer mapping
	assert.Equal(t, "text-accent-vert", LevelColorClass("Ninja"))
	assert.Equal(t, "bg-accent-vert", LevelBgClass(""))
}
