package services

import (
	"encoding/json"
	"errors"
	"strings"

	"dojo-learning-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ChallengeService struct {
	DB *gorm.DB
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{DB: db}
}

// marqueJSON renders a single marque as a jsonb array literal for the
// containment operator.
func marqueJSON(marque string) string {
	b, _ := json.Marshal([]string{marque})
	return string(b)
}

// GetChallenges serves the catalog: active challenges ordered by
// difficulty, with optional niveau / marque / difficulte / search query
// filters. The marque filter also returns transverse challenges (empty
// marques set).
func (s *ChallengeService) GetChallenges(c *fiber.Ctx) error {
	db := s.DB.Where("statut = ?", models.ChallengeActif).Order("difficulte ASC")

	if niveau := c.Query("niveau"); niveau != "" {
		db = db.Where("niveau_associe = ?", niveau)
	}
	if marque := c.Query("marque"); marque != "" {
		db = db.Where("marques @> ?::jsonb OR marques = '[]'::jsonb", marqueJSON(marque))
	}
	if difficulte := c.QueryInt("difficulte", 0); difficulte != 0 {
		db = db.Where("difficulte = ?", difficulte)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		term := "%" + search + "%"
		db = db.Where("titre ILIKE ? OR description ILIKE ?", term, term)
	}

	var challenges []models.Challenge
	if err := db.Find(&challenges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch challenges", "cause": err.Error(),
		})
	}
	return c.JSON(challenges)
}

// GetChallengeByID serves a single challenge, archived ones included (for
// users finishing an archived challenge).
func (s *ChallengeService) GetChallengeByID(c *fiber.Ctx) error {
	var challenge models.Challenge
	err := s.DB.Where("id = ?", c.Params("id")).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch challenge", "cause": err.Error(),
		})
	}
	return c.JSON(challenge)
}

type challengeRequest struct {
	Titre              string   `json:"titre"`
	Description        string   `json:"description"`
	NiveauAssocie      string   `json:"niveau_associe"`
	Type               string   `json:"type"`
	Difficulte         int      `json:"difficulte"`
	TypeEvaluation     string   `json:"type_evaluation"`
	XP                 int64    `json:"xp"`
	Marques            []string `json:"marques"`
	EtapeVortex        *string  `json:"etape_vortex"`
	Thematiques        []string `json:"thematiques"`
	Participants       string   `json:"participants"`
	OutilsRecommandes  []string `json:"outils_recommandes"`
	CriteresEvaluation string   `json:"criteres_evaluation"`
	VisionImpact       *string  `json:"vision_impact"`
	LeSaviezVous       *string  `json:"le_saviez_vous"`
	Sources            []string `json:"sources"`
}

func (r *challengeRequest) validate() []string {
	var problems []string
	if strings.TrimSpace(r.Titre) == "" {
		problems = append(problems, "titre is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		problems = append(problems, "description is required")
	}
	switch models.UserLevel(r.NiveauAssocie) {
	case models.LevelExplorer, models.LevelCrafter, models.LevelArchitecte:
	default:
		problems = append(problems, "niveau_associe must be Explorer, Crafter or Architecte")
	}
	if r.Difficulte < 1 || r.Difficulte > 5 {
		problems = append(problems, "difficulte must be between 1 and 5")
	}
	if r.XP < 0 {
		problems = append(problems, "xp must be non-negative")
	}
	return problems
}

// CreateChallenge (admin only, gated at the route).
func (s *ChallengeService) CreateChallenge(c *fiber.Ctx) error {
	var req challengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON", "cause": err.Error(),
		})
	}
	if problems := req.validate(); len(problems) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "validation failed", "problems": problems,
		})
	}

	participants := models.ParticipantMode(req.Participants)
	if participants == "" {
		participants = models.ParticipantSolo
	}

	challenge := models.Challenge{
		ID:                 uuid.NewString(),
		Slug:               slug.Make(req.Titre),
		Titre:              req.Titre,
		Description:        req.Description,
		NiveauAssocie:      models.UserLevel(req.NiveauAssocie),
		Type:               models.ChallengeType(req.Type),
		Difficulte:         req.Difficulte,
		TypeEvaluation:     models.EvaluationType(req.TypeEvaluation),
		XP:                 req.XP,
		Statut:             models.ChallengeActif,
		Marques:            req.Marques,
		EtapeVortex:        req.EtapeVortex,
		Thematiques:        req.Thematiques,
		Participants:       participants,
		OutilsRecommandes:  req.OutilsRecommandes,
		CriteresEvaluation: req.CriteresEvaluation,
		VisionImpact:       req.VisionImpact,
		LeSaviezVous:       req.LeSaviezVous,
		Sources:            req.Sources,
	}
	if challenge.Marques == nil {
		challenge.Marques = []string{} // empty set = transverse
	}

	if err := s.DB.Create(&challenge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create challenge", "cause": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(challenge)
}

// UpdateChallenge (admin only).
func (s *ChallengeService) UpdateChallenge(c *fiber.Ctx) error {
	var challenge models.Challenge
	err := s.DB.Where("id = ?", c.Params("id")).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch challenge", "cause": err.Error(),
		})
	}

	var req challengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON", "cause": err.Error(),
		})
	}
	if problems := req.validate(); len(problems) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "validation failed", "problems": problems,
		})
	}

	if req.Titre != challenge.Titre {
		challenge.Slug = slug.Make(req.Titre)
	}
	challenge.Titre = req.Titre
	challenge.Description = req.Description
	challenge.NiveauAssocie = models.UserLevel(req.NiveauAssocie)
	challenge.Type = models.ChallengeType(req.Type)
	challenge.Difficulte = req.Difficulte
	challenge.TypeEvaluation = models.EvaluationType(req.TypeEvaluation)
	challenge.XP = req.XP
	challenge.Marques = req.Marques
	if challenge.Marques == nil {
		challenge.Marques = []string{}
	}
	challenge.EtapeVortex = req.EtapeVortex
	challenge.Thematiques = req.Thematiques
	if req.Participants != "" {
		challenge.Participants = models.ParticipantMode(req.Participants)
	}
	challenge.OutilsRecommandes = req.OutilsRecommandes
	challenge.CriteresEvaluation = req.CriteresEvaluation
	challenge.VisionImpact = req.VisionImpact
	challenge.LeSaviezVous = req.LeSaviezVous
	challenge.Sources = req.Sources

	if err := s.DB.Save(&challenge).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update challenge", "cause": err.Error(),
		})
	}
	return c.JSON(challenge)
}

// ArchiveChallenge flips the status instead of deleting; participations
// and solutions keep their history.
func (s *ChallengeService) ArchiveChallenge(c *fiber.Ctx) error {
	res := s.DB.Model(&models.Challenge{}).
		Where("id = ?", c.Params("id")).
		Update("statut", models.ChallengeArchive)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to archive challenge", "cause": res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found"})
	}
	return c.JSON(fiber.Map{"message": "challenge archived"})
}
