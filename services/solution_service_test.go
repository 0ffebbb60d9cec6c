package services

import (
	"testing"

	"dojo-learning-system/models"

	"github.com/stretchr/testify/assert"
)

func TestSolutionGate(t *testing.T) {
	tests := []struct {
		name    string
		statut  models.ParticipationStatus
		blocked bool
	}{
		{"in progress accepts a submission", models.ParticipationEnCours, false},
		{"completed blocks a second submission", models.ParticipationTermine, true},
		{"abandoned requires re-participation first", models.ParticipationAbandonne, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := solutionGate(tt.statut)
			if tt.blocked {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestSolutionGateMessages(t *testing.T) {
	assert.Equal(t, "solution already submitted", solutionGate(models.ParticipationTermine))
	assert.NotEqual(t, solutionGate(models.ParticipationTermine), solutionGate(models.ParticipationAbandonne))
}
