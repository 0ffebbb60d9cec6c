// workers/evaluation_worker.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"dojo-learning-system/models"
	"dojo-learning-system/utils"

	"gorm.io/gorm"
)

// EvaluationClient talks to the external evaluator service that grades
// automatic-evaluation solutions.
type EvaluationClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewEvaluationClient(db *gorm.DB, baseURL, token string) *EvaluationClient {
	return &EvaluationClient{
		BaseURL:    baseURL,
		Token:      token,
		DB:         db,
		HTTPClient: utils.HTTPClient,
	}
}

// evaluationRequest is what the evaluator service receives.
type evaluationRequest struct {
	SolutionID         string `json:"solution_id"`
	ContenuTexte       string `json:"contenu_texte"`
	ChallengeTitre     string `json:"challenge_titre"`
	ChallengeNiveau    string `json:"challenge_niveau"`
	CriteresEvaluation string `json:"criteres_evaluation"`
}

// evaluationResult is the evaluator's verdict.
type evaluationResult struct {
	Note     int    `json:"note"` // 1-5
	Feedback string `json:"feedback"`
}

// Evaluate posts one solution to the evaluator service.
func (c *EvaluationClient) Evaluate(ctx context.Context, sol *models.Solution, ch *models.Challenge) (*evaluationResult, error) {
	payload, err := json.Marshal(evaluationRequest{
		SolutionID:         sol.ID,
		ContenuTexte:       sol.ContenuTexte,
		ChallengeTitre:     ch.Titre,
		ChallengeNiveau:    string(ch.NiveauAssocie),
		CriteresEvaluation: ch.CriteresEvaluation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/v1/evaluations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call evaluator service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("evaluator returned status %d: %s", resp.StatusCode, string(body))
	}

	var result evaluationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode evaluator response: %w", err)
	}
	if result.Note < 1 || result.Note > 5 {
		return nil, fmt.Errorf("evaluator returned out-of-range note %d", result.Note)
	}
	return &result, nil
}

// pendingAutoEvaluations selects the oldest submitted solutions whose
// challenge carries automatic or hybrid evaluation. Manual-only solutions
// stay in the mentor queue and never occupy a batch slot.
func pendingAutoEvaluations(db *gorm.DB, limit int, dest *[]models.Solution) *gorm.DB {
	return db.
		Joins("JOIN challenges ON challenges.id = solutions.challenge_id").
		Where("solutions.statut = ? AND challenges.type_evaluation <> ?", models.SolutionSoumise, models.EvaluationManuelle).
		Order("solutions.created_at ASC").
		Limit(limit).
		Find(dest)
}

// PollPendingSolutions grades Soumise solutions whose challenge is set to
// automatic evaluation. A failed evaluation is logged and retried on the
// next tick; nothing is marked failed.
func PollPendingSolutions(ctx context.Context, client *EvaluationClient, pollInterval time.Duration) {
	log.Println("Starting solution evaluation polling…")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Solution evaluation polling stopped.")
			return
		case <-ticker.C:
			var solutions []models.Solution
			if err := pendingAutoEvaluations(client.DB, 20, &solutions).Error; err != nil {
				log.Printf("❌ Error fetching pending solutions: %v", err)
				continue
			}
			if len(solutions) == 0 {
				continue
			}

			var graded int
			for i := range solutions {
				sol := &solutions[i]

				var challenge models.Challenge
				if err := client.DB.Where("id = ?", sol.ChallengeID).First(&challenge).Error; err != nil {
					log.Printf("⚠️ Solution %s references missing challenge %s, skipping", sol.ID, sol.ChallengeID)
					continue
				}
				result, err := client.Evaluate(ctx, sol, &challenge)
				if err != nil {
					log.Printf("❌ Evaluation failed for solution %s: %v", sol.ID, err)
					continue
				}

				sol.Note = &result.Note
				sol.Statut = models.SolutionEvaluee
				if result.Feedback != "" {
					sol.FeedbackReviewer = &result.Feedback
				}
				if err := client.DB.Save(sol).Error; err != nil {
					log.Printf("❌ Failed to persist evaluation for solution %s: %v", sol.ID, err)
					continue
				}
				graded++
			}

			if graded > 0 {
				log.Printf("✅ Auto-evaluated %d solution(s)", graded)
			}
		}
	}
}
