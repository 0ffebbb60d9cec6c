package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dojo-learning-system/models"
	"dojo-learning-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// signedURLTTL bounds attachment links returned to reviewers/authors.
const signedURLTTL = 24 * time.Hour

type SolutionService struct {
	DB     *gorm.DB
	Store  *utils.R2Store
	Limits utils.UploadLimits

	Users  *UserService
	Badges *BadgeService
}

func NewSolutionService(db *gorm.DB, store *utils.R2Store, limits utils.UploadLimits, users *UserService, badges *BadgeService) *SolutionService {
	return &SolutionService{DB: db, Store: store, Limits: limits, Users: users, Badges: badges}
}

// solutionGate returns the conflict message blocking a submission, or ""
// when the participation accepts one. Only an in-progress participation
// does: an abandoned one must be reactivated through participate first.
func solutionGate(statut models.ParticipationStatus) string {
	switch statut {
	case models.ParticipationEnCours:
		return ""
	case models.ParticipationTermine:
		return "solution already submitted"
	default:
		return "participation is not in progress — participate again before submitting"
	}
}

// Submit handles POST /challenges/:id/solutions (multipart).
//
// The write sequence is deliberately non-transactional: insert solution,
// flip participation to Terminé, credit XP, check level. A failure after
// the insert leaves the solution committed and is logged — the next
// reconciliation sweep catches missed level-ups.
func (s *SolutionService) Submit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	challengeID := c.Params("id")

	var challenge models.Challenge
	err := s.DB.Where("id = ?", challengeID).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch challenge", "cause": err.Error(),
		})
	}

	var participation models.Participation
	err = s.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&participation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "participate in the challenge before submitting a solution",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch participation", "cause": err.Error(),
		})
	}
	if msg := solutionGate(participation.Statut); msg != "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
	}

	contenu := strings.TrimSpace(c.FormValue("contenu_texte"))
	if contenu == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "contenu_texte is required"})
	}

	// Validate every file before the first byte hits the store — no
	// partial state on a validation error.
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid multipart form", "cause": err.Error(),
		})
	}
	files := form.File["fichiers"]
	if err := utils.ValidateUploads(files, s.Limits); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var attachedPaths []string
	for _, fh := range files {
		key := utils.SolutionObjectKey(userID, challengeID, fh.Filename, time.Now())
		if _, err := s.Store.UploadMultipart(c.Context(), fh, key); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to upload %q", fh.Filename), "cause": err.Error(),
			})
		}
		attachedPaths = append(attachedPaths, key)
	}

	solution := models.Solution{
		ID:               uuid.NewString(),
		UserID:           userID,
		ChallengeID:      challengeID,
		ContenuTexte:     contenu,
		FichiersAttaches: attachedPaths,
		Statut:           models.SolutionSoumise,
	}
	if solution.FichiersAttaches == nil {
		solution.FichiersAttaches = []string{}
	}
	if err := s.DB.Create(&solution).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save solution", "cause": err.Error(),
		})
	}

	// Step 2: completion. Logged on failure, the solution stays committed.
	if err := s.DB.Model(&models.Participation{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Update("statut", models.ParticipationTermine).Error; err != nil {
		log.Printf("❌ [SOLUTION] Failed to mark participation Terminé for user=%s challenge=%s: %v", userID, challengeID, err)
	} else {
		if challenge.XP > 0 {
			if _, err := s.Users.CreditXP(userID, challenge.XP, fmt.Sprintf("challenge_%s_termine", challengeID)); err != nil {
				log.Printf("❌ [SOLUTION] XP credit failed for user=%s: %v", userID, err)
			}
		}
		if _, err := s.Users.CheckAndUpdateLevel(userID); err != nil {
			log.Printf("❌ [SOLUTION] Level check failed for user=%s: %v", userID, err)
		}
		_ = s.Badges.AutoAwardBadges(userID) // fire-and-forget
	}

	log.Printf("📝 Solution submitted: user=%s challenge=%s files=%d", userID, challengeID, len(attachedPaths))
	return c.Status(fiber.StatusCreated).JSON(solution)
}

// attachmentLinks resolves stored paths into time-bounded URLs. A presign
// failure degrades to an empty link rather than failing the read.
func (s *SolutionService) attachmentLinks(c *fiber.Ctx, paths []string) []fiber.Map {
	links := make([]fiber.Map, 0, len(paths))
	for _, p := range paths {
		url, err := s.Store.SignedURL(c.Context(), p, signedURLTTL)
		if err != nil {
			log.Printf("❌ [SOLUTION] Failed to sign URL for %s: %v", p, err)
			url = ""
		}
		links = append(links, fiber.Map{"path": p, "url": url})
	}
	return links
}

// GetMine serves the caller's own solution for a challenge, with signed
// attachment URLs. No solution yet is a null body, not an error.
func (s *SolutionService) GetMine(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	challengeID := c.Params("id")

	var solution models.Solution
	err := s.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&solution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch solution", "cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"solution":    solution,
		"attachments": s.attachmentLinks(c, solution.FichiersAttaches),
	})
}

// MarkViewed records that the author consulted the reference solution.
func (s *SolutionService) MarkViewed(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	challengeID := c.Params("id")

	if err := s.DB.Model(&models.Solution{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Update("a_consulte_solution", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to mark solution viewed", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "solution marked viewed"})
}

// DeleteAttachment removes one of the caller's own stored files while the
// solution is still pending review.
func (s *SolutionService) DeleteAttachment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	challengeID := c.Params("id")

	type Req struct {
		Path string `json:"path"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON", "cause": err.Error(),
		})
	}
	// Ownership check: the path must live under the caller's prefix.
	prefix := utils.SolutionObjectPrefix(userID, challengeID)
	if !strings.HasPrefix(req.Path, prefix) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "path does not belong to this submission"})
	}

	var solution models.Solution
	err := s.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&solution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "solution not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch solution", "cause": err.Error(),
		})
	}
	if solution.Statut == models.SolutionEvaluee {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "solution already evaluated"})
	}

	if err := s.Store.Delete(c.Context(), req.Path); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete file", "cause": err.Error(),
		})
	}

	remaining := make([]string, 0, len(solution.FichiersAttaches))
	for _, p := range solution.FichiersAttaches {
		if p != req.Path {
			remaining = append(remaining, p)
		}
	}
	solution.FichiersAttaches = remaining
	if err := s.DB.Save(&solution).Error; err != nil {
		log.Printf("❌ [SOLUTION] File deleted from store but record update failed for %s: %v", solution.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update solution record", "cause": err.Error(),
		})
	}
	return c.JSON(solution)
}

// ListPending serves the mentor review queue, oldest first.
func (s *SolutionService) ListPending(c *fiber.Ctx) error {
	var solutions []models.Solution
	if err := s.DB.Where("statut = ?", models.SolutionSoumise).
		Order("created_at ASC").
		Find(&solutions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch pending solutions", "cause": err.Error(),
		})
	}
	return c.JSON(solutions)
}

// Review records a mentor's grade and feedback on a submitted solution.
func (s *SolutionService) Review(c *fiber.Ctx) error {
	reviewerID := c.Locals("user_id").(string)

	type Req struct {
		Note     int    `json:"note"`
		Feedback string `json:"feedback"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON", "cause": err.Error(),
		})
	}
	if req.Note < 1 || req.Note > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "note must be between 1 and 5"})
	}

	var solution models.Solution
	err := s.DB.Where("id = ?", c.Params("id")).First(&solution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "solution not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch solution", "cause": err.Error(),
		})
	}

	solution.Note = &req.Note
	solution.Statut = models.SolutionEvaluee
	solution.ReviewerID = &reviewerID
	if req.Feedback != "" {
		solution.FeedbackReviewer = &req.Feedback
	}

	if err := s.DB.Save(&solution).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save review", "cause": err.Error(),
		})
	}
	log.Printf("🧐 Solution reviewed: id=%s note=%d by=%s", solution.ID, req.Note, reviewerID)
	return c.JSON(solution)
}
