package services

import (
	"log"

	"dojo-learning-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedBadges upserts the predefined badge catalog at boot (idempotent on
// the code column).
func (s *BadgeService) SeedBadges() error {
	for _, seed := range models.BadgeSeeds {
		badge := seed
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&badge).Error; err != nil {
			return err
		}
	}
	return nil
}

// Award gives a badge to a user. Duplicate awards are success, not errors.
func (s *BadgeService) Award(userID, badgeID string) error {
	userBadge := models.UserBadge{UserID: userID, BadgeID: badgeID}
	err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&userBadge).Error
	if err != nil {
		return err
	}
	return nil
}

// AutoAwardBadges evaluates every badge condition against the user's
// current progress and awards whatever newly qualifies.
func (s *BadgeService) AutoAwardBadges(userID string) error {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return err
	}

	var participations []models.Participation
	if err := s.DB.Where("user_id = ?", userID).Find(&participations).Error; err != nil {
		return err
	}
	completed := 0
	for _, p := range participations {
		if p.Statut == models.ParticipationTermine {
			completed++
		}
	}

	var badges []models.Badge
	if err := s.DB.Find(&badges).Error; err != nil {
		return err
	}

	for _, badge := range badges {
		if !meetsConditions(&user, completed, badge.Conditions) {
			continue
		}
		var count int64
		s.DB.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_id = ?", userID, badge.ID).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := s.Award(userID, badge.ID); err != nil {
			log.Printf("❌ [BADGE] Failed to award %s to %s: %v", badge.Code, userID, err)
			continue
		}
		log.Printf("🎖️ Badge awarded: %s → %s", badge.Nom, userID)
	}
	return nil
}

// meetsConditions evaluates an opaque condition descriptor against the
// user's progress counters. Unknown keys never match.
func meetsConditions(user *models.User, completedChallenges int, conditions map[string]int64) bool {
	if len(conditions) == 0 {
		return false
	}
	for key, required := range conditions {
		switch key {
		case "challenges_termines":
			if int64(completedChallenges) < required {
				return false
			}
		case "points_totaux":
			if user.PointsTotaux < required {
				return false
			}
		case "niveau":
			if levelOrdinal(user.NiveauActuel) < required {
				return false
			}
		case "event": // no progress counter to compare; always considered met
			continue
		default:
			return false
		}
	}
	return true
}

func levelOrdinal(level models.UserLevel) int64 {
	for i, l := range models.Levels {
		if l == level {
			return int64(i + 1)
		}
	}
	return 0
}

// --- Fiber handlers ---

// ListAll serves the badge catalog.
func (s *BadgeService) ListAll(c *fiber.Ctx) error {
	var badges []models.Badge
	if err := s.DB.Find(&badges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch badges", "cause": err.Error(),
		})
	}
	return c.JSON(badges)
}

// ListMine serves the caller's awarded badges joined with their catalog
// entries.
func (s *BadgeService) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var userBadges []models.UserBadge
	if err := s.DB.Where("user_id = ?", userID).Find(&userBadges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch user badges", "cause": err.Error(),
		})
	}
	if len(userBadges) == 0 {
		return c.JSON([]fiber.Map{})
	}

	ids := make([]string, len(userBadges))
	dates := make(map[string]interface{}, len(userBadges))
	for i, ub := range userBadges {
		ids[i] = ub.BadgeID
		dates[ub.BadgeID] = ub.Date
	}
	var badges []models.Badge
	if err := s.DB.Where("id IN ?", ids).Find(&badges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch badges", "cause": err.Error(),
		})
	}

	response := make([]fiber.Map, 0, len(badges))
	for _, b := range badges {
		response = append(response, fiber.Map{
			"id":          b.ID,
			"code":        b.Code,
			"nom":         b.Nom,
			"description": b.Description,
			"emoji":       b.Emoji,
			"date":        dates[b.ID],
		})
	}
	return c.JSON(response)
}

// AdminAward is the manual award endpoint. Idempotent like the automatic
// path.
func (s *BadgeService) AdminAward(c *fiber.Ctx) error {
	badgeID := c.Params("id")

	type Req struct {
		UserID string `json:"user_id"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON", "cause": err.Error(),
		})
	}
	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	var badge models.Badge
	if err := s.DB.Where("id = ?", badgeID).First(&badge).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "badge not found"})
	}

	if err := s.Award(req.UserID, badgeID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to award badge", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "badge awarded", "badge": badge.Code, "user_id": req.UserID})
}

// VerifyProgress is called by the reconciliation sweep so badge checks
// stay in sync with level changes made outside the submit path.
func (s *BadgeService) VerifyProgress(userID string) {
	if err := s.AutoAwardBadges(userID); err != nil {
		log.Printf("❌ [BADGE] Progress verification failed for %s: %v", userID, err)
	}
}
