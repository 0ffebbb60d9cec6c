package services

import (
	"errors"
	"fmt"
	"log"

	"dojo-learning-system/models"
	"dojo-learning-system/progression"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// GetOrCreateUser resolves a user by email, creating the row on first
// visit (idempotent). New users start at Explorer with zero XP.
func (s *UserService) GetOrCreateUser(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:           uuid.NewString(),
			Email:        email,
			NiveauActuel: models.LevelExplorer,
			Role:         models.RoleUtilisateur,
			PointsTotaux: 0,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns nil, nil when the user does not exist.
func (s *UserService) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreditXP adds xp to the user's cumulative total. XP is monotone: the
// amount must be positive. The increment is a single store-side UPDATE,
// never a read-modify-write, so concurrent credits all land.
func (s *UserService) CreditXP(userID string, xp int64, reason string) (*models.User, error) {
	if xp <= 0 {
		return nil, fmt.Errorf("xp must be positive, got %d", xp)
	}
	res := creditXPUpdate(s.DB, userID, xp)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("user not found for %s", userID)
	}
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	log.Printf("🎮 XP credited: %s → +%d (total=%d, reason: %s)", userID, xp, user.PointsTotaux, reason)
	return &user, nil
}

func creditXPUpdate(db *gorm.DB, userID string, xp int64) *gorm.DB {
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("points_totaux", gorm.Expr("points_totaux + ?", xp))
}

// CheckAndUpdateLevel fetches the user's participations and the active
// challenges (two round trips), runs the pure leveling engine over them
// and persists a one-step advance when the threshold is met. Levels never
// go down.
func (s *UserService) CheckAndUpdateLevel(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user not found for %s", userID)
	}

	var participations []models.Participation
	if err := s.DB.Where("user_id = ?", userID).Find(&participations).Error; err != nil {
		return nil, err
	}
	var challenges []models.Challenge
	if err := s.DB.Find(&challenges).Error; err != nil {
		return nil, err
	}

	next, ok := progression.CalculateNextLevel(user.NiveauActuel, participations, challenges)
	if !ok {
		return &user, nil
	}

	user.NiveauActuel = next
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	log.Printf("🏆 Level up: %s → %s", userID, next)
	return &user, nil
}

// LeaderboardEntry is the public ranking row.
type LeaderboardEntry struct {
	UserID       string           `json:"user_id"`
	Nom          string           `json:"nom"`
	NiveauActuel models.UserLevel `json:"niveau_actuel"`
	PointsTotaux int64            `json:"points_totaux"`
	Marque       *string          `json:"marque"`
	Rank         int              `json:"rank"`
}

// Leaderboard returns the top users by cumulative XP, rank assigned by
// position.
func (s *UserService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var users []models.User
	if err := s.DB.Order("points_totaux DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			UserID:       u.ID,
			Nom:          progression.DisplayName(&u),
			NiveauActuel: u.NiveauActuel,
			PointsTotaux: u.PointsTotaux,
			Marque:       u.MarqueID,
			Rank:         i + 1,
		}
	}
	return entries, nil
}

// --- Fiber handlers ---

// GetProgress returns the caller's XP, level, next-level threshold and
// completed counts per level.
func (s *UserService) GetProgress(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	user, err := s.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching user", "cause": err.Error(),
		})
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	var participations []models.Participation
	if err := s.DB.Where("user_id = ?", userID).Find(&participations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching participations", "cause": err.Error(),
		})
	}
	var challenges []models.Challenge
	if err := s.DB.Find(&challenges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching challenges", "cause": err.Error(),
		})
	}

	stats := progression.GetChallengeStats(participations, challenges)
	counts := progression.CountCompletedByLevel(participations, challenges)

	response := fiber.Map{
		"user_id":            user.ID,
		"nom":                progression.DisplayName(user),
		"initiales":          progression.Initials(user),
		"niveau_actuel":      user.NiveauActuel,
		"points_totaux":      user.PointsTotaux,
		"completed_by_level": counts,
		"stats":              stats,
		"level_color_class":  progression.LevelColorClass(user.NiveauActuel),
		"level_progress":     progression.LevelProgress(user.NiveauActuel, user.PointsTotaux),
	}
	if threshold, ok := progression.XPForNextLevel(user.NiveauActuel); ok {
		next, _ := progression.NextLevel(user.NiveauActuel)
		response["next_level"] = next
		response["xp_for_next_level"] = threshold
	}
	return c.JSON(response)
}

// GetLeaderboard serves GET /leaderboard?limit=
func (s *UserService) GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	entries, err := s.Leaderboard(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch leaderboard", "cause": err.Error(),
		})
	}
	return c.JSON(entries)
}

// GetMe resolves (or creates) the caller's profile from the forwarded
// identity.
func (s *UserService) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	user, err := s.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching user", "cause": err.Error(),
		})
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(user)
}

// UpdateProfile lets a user edit their own display fields.
func (s *UserService) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		Nom          *string `json:"nom"`
		Localisation *string `json:"localisation"`
		MetierID     *string `json:"metier_id"`
		MarqueID     *string `json:"marque_id"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON", "cause": err.Error(),
		})
	}

	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error fetching user", "cause": err.Error(),
		})
	}

	if req.Nom != nil {
		user.Nom = req.Nom
	}
	if req.Localisation != nil {
		user.Localisation = req.Localisation
	}
	if req.MetierID != nil {
		user.MetierID = req.MetierID
	}
	if req.MarqueID != nil {
		user.MarqueID = req.MarqueID
	}

	if err := s.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update profile", "cause": err.Error(),
		})
	}
	return c.JSON(user)
}

// GrantXP is the admin backdoor for manual XP credits.
func (s *UserService) GrantXP(c *fiber.Ctx) error {
	type Req struct {
		UserID string `json:"user_id"`
		XP     int64  `json:"xp"`
		Reason string `json:"reason"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON", "cause": err.Error(),
		})
	}
	if req.UserID == "" || req.XP <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and a positive xp are required",
		})
	}

	if _, err := s.CreditXP(req.UserID, req.XP, req.Reason); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "XP grant failed", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "XP granted successfully",
		"user_id": req.UserID,
		"xp":      req.XP,
	})
}
