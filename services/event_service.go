package services

import (
	"errors"
	"strings"
	"time"

	"dojo-learning-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

// GetEvents lists active events ordered by start date, optionally scoped
// to a marque (transverse events always included).
func (s *EventService) GetEvents(c *fiber.Ctx) error {
	db := s.DB.Where("statut = ?", models.EventActif).Order("date_debut ASC")

	if marque := c.Query("marque"); marque != "" {
		db = db.Where("marques @> ?::jsonb OR marques = '[]'::jsonb", marqueJSON(marque))
	}

	var events []models.DojoEvent
	if err := db.Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch events", "cause": err.Error(),
		})
	}
	return c.JSON(events)
}

type eventRequest struct {
	Titre           string   `json:"titre"`
	Description     string   `json:"description"`
	DateDebut       time.Time `json:"date_debut"`
	DateFin         time.Time `json:"date_fin"`
	Format          string   `json:"format"`
	Capacite        int      `json:"capacite"`
	LienInscription string   `json:"lien_inscription"`
	Marques         []string `json:"marques"`
	OrganisateurID  *string  `json:"organisateur_id"`
}

func (r *eventRequest) validate() []string {
	var problems []string
	if strings.TrimSpace(r.Titre) == "" {
		problems = append(problems, "titre is required")
	}
	if r.DateDebut.IsZero() || r.DateFin.IsZero() {
		problems = append(problems, "date_debut and date_fin are required")
	} else if r.DateFin.Before(r.DateDebut) {
		problems = append(problems, "date_fin must not precede date_debut")
	}
	switch models.EventFormat(r.Format) {
	case models.EventEnLigne, models.EventPresentiel:
	default:
		problems = append(problems, "format must be En_Ligne or Présentiel")
	}
	if r.Capacite <= 0 {
		problems = append(problems, "capacite must be positive")
	}
	return problems
}

// CreateEvent (admin only, gated at the route).
func (s *EventService) CreateEvent(c *fiber.Ctx) error {
	var req eventRequest
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

	event := models.DojoEvent{
		ID:              uuid.NewString(),
		Titre:           req.Titre,
		Description:     req.Description,
		DateDebut:       req.DateDebut,
		DateFin:         req.DateFin,
		Format:          models.EventFormat(req.Format),
		Capacite:        req.Capacite,
		LienInscription: req.LienInscription,
		Marques:         req.Marques,
		OrganisateurID:  req.OrganisateurID,
		Statut:          models.EventActif,
	}
	if event.Marques == nil {
		event.Marques = []string{}
	}

	if err := s.DB.Create(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create event", "cause": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// UpdateEvent (admin only).
func (s *EventService) UpdateEvent(c *fiber.Ctx) error {
	var event models.DojoEvent
	err := s.DB.Where("id = ?", c.Params("id")).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch event", "cause": err.Error(),
		})
	}

	var req eventRequest
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

	event.Titre = req.Titre
	event.Description = req.Description
	event.DateDebut = req.DateDebut
	event.DateFin = req.DateFin
	event.Format = models.EventFormat(req.Format)
	event.Capacite = req.Capacite
	event.LienInscription = req.LienInscription
	event.Marques = req.Marques
	if event.Marques == nil {
		event.Marques = []string{}
	}
	event.OrganisateurID = req.OrganisateurID

	if err := s.DB.Save(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update event", "cause": err.Error(),
		})
	}
	return c.JSON(event)
}

// ArchiveEvent flips the status; past events stay queryable for history.
func (s *EventService) ArchiveEvent(c *fiber.Ctx) error {
	res := s.DB.Model(&models.DojoEvent{}).
		Where("id = ?", c.Params("id")).
		Update("statut", models.EventArchive)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to archive event", "cause": res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}
	return c.JSON(fiber.Map{"message": "event archived"})
}
