package services

import (
	"errors"
	"log"

	"dojo-learning-system/models"
	"dojo-learning-system/progression"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ParticipationService struct {
	DB *gorm.DB
}

func NewParticipationService(db *gorm.DB) *ParticipationService {
	return &ParticipationService{DB: db}
}

// get returns nil, nil when the pair has no row yet.
func (s *ParticipationService) get(userID, challengeID string) (*models.Participation, error) {
	var p models.Participation
	err := s.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// setStatus flips the status of the (user, challenge) row.
func (s *ParticipationService) setStatus(userID, challengeID string, statut models.ParticipationStatus) error {
	return s.DB.Model(&models.Participation{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Update("statut", statut).Error
}

// Participate creates an En_cours participation for the caller. An
// abandoned row is reactivated in place — one row per (user, challenge),
// always.
func (s *ParticipationService) Participate(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	challengeID := c.Params("id")

	var challenge models.Challenge
	err := s.DB.Where("id = ? AND statut = ?", challengeID, models.ChallengeActif).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found or archived"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch challenge", "cause": err.Error(),
		})
	}

	existing, err := s.get(userID, challengeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch participation", "cause": err.Error(),
		})
	}

	if existing != nil {
		switch existing.Statut {
		case models.ParticipationAbandonne:
			if err := s.setStatus(userID, challengeID, models.ParticipationEnCours); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to reactivate participation", "cause": err.Error(),
				})
			}
			existing.Statut = models.ParticipationEnCours
			log.Printf("🔄 Participation reactivated: user=%s challenge=%s", userID, challengeID)
			return c.JSON(existing)
		default:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "already participating", "statut": existing.Statut,
			})
		}
	}

	p := models.Participation{
		UserID:      userID,
		ChallengeID: challengeID,
		Statut:      models.ParticipationEnCours,
	}
	if err := s.DB.Create(&p).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create participation", "cause": err.Error(),
		})
	}
	log.Printf("🥋 Participation started: user=%s challenge=%s", userID, challengeID)
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Abandon flips an in-progress participation to Abandonné.
func (s *ParticipationService) Abandon(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	challengeID := c.Params("id")

	existing, err := s.get(userID, challengeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch participation", "cause": err.Error(),
		})
	}
	if existing == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "participation not found"})
	}
	if existing.Statut != models.ParticipationEnCours {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "only an in-progress participation can be abandoned", "statut": existing.Statut,
		})
	}

	if err := s.setStatus(userID, challengeID, models.ParticipationAbandonne); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to abandon participation", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "participation abandoned"})
}

// ListMine returns the caller's participations.
func (s *ParticipationService) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	var participations []models.Participation
	if err := s.DB.Where("user_id = ?", userID).Find(&participations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch participations", "cause": err.Error(),
		})
	}
	return c.JSON(participations)
}

// GetStats joins the caller's participations with the current catalog and
// returns counts plus completed titles.
func (s *ParticipationService) GetStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var participations []models.Participation
	if err := s.DB.Where("user_id = ?", userID).Find(&participations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch participations", "cause": err.Error(),
		})
	}
	var challenges []models.Challenge
	if err := s.DB.Where("statut = ?", models.ChallengeActif).Find(&challenges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch challenges", "cause": err.Error(),
		})
	}

	stats := progression.GetChallengeStats(participations, challenges)
	titles := progression.CompletedChallengeTitles(participations, challenges)
	return c.JSON(fiber.Map{
		"stats":            stats,
		"completed_titles": titles,
	})
}
