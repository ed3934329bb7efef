package services

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"lexiguard-backend/models"
	"lexiguard-backend/store"
	"lexiguard-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxRecordingSize = 100 * 1024 * 1024 // 100MB

// IncidentService is CRUD over user-submitted incident logs, plus the audio
// recording upload that backs the record button.
type IncidentService struct {
	incidents store.IncidentStore
}

func NewIncidentService(incidents store.IncidentStore) *IncidentService {
	return &IncidentService{incidents: incidents}
}

func (s *IncidentService) GetIncidents(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User ID is required"})
	}

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	incidents, err := s.incidents.IncidentsByUser(c.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("❌ [INCIDENTS] list for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch incidents"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    incidents,
		"total":   len(incidents),
	})
}

type incidentLocationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
	State     string   `json:"state" validate:"required"`
}

type incidentMetadataPayload struct {
	Duration            *float64 `json:"duration"`
	InteractionType     string   `json:"interactionType" validate:"required"`
	OfficerBadgeNumbers []string `json:"officerBadgeNumbers"`
	VehicleInfo         string   `json:"vehicleInfo"`
	Notes               string   `json:"notes"`
}

type createIncidentRequest struct {
	IncidentID   string                  `json:"incidentId" validate:"required"`
	UserID       string                  `json:"userId" validate:"required"`
	Timestamp    string                  `json:"timestamp" validate:"required"`
	Location     incidentLocationPayload `json:"location" validate:"required"`
	RecordingURL string                  `json:"recordingUrl"`
	Summary      string                  `json:"summary" validate:"required"`
	SharedStatus string                  `json:"sharedStatus" validate:"omitempty,oneof=private shared_contacts shared_legal"`
	Metadata     incidentMetadataPayload `json:"metadata" validate:"required"`
}

func (s *IncidentService) CreateIncident(c *fiber.Ctx) error {
	var req createIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid incident data"})
	}
	if details := utils.ValidateStruct(req); details != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid incident data",
			"details": details,
		})
	}

	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid incident data",
			"details": fiber.Map{"timestamp": "must be an RFC 3339 timestamp"},
		})
	}

	sharedStatus := req.SharedStatus
	if sharedStatus == "" {
		sharedStatus = models.SharedPrivate
	}

	incident := &models.Incident{
		IncidentID:   req.IncidentID,
		UserID:       req.UserID,
		Timestamp:    timestamp.UTC(),
		Location:     models.IncidentLocation(req.Location),
		RecordingURL: req.RecordingURL,
		Summary:      req.Summary,
		SharedStatus: sharedStatus,
		Metadata:     models.IncidentMetadata(req.Metadata),
	}

	if err := s.incidents.CreateIncident(c.Context(), incident); err != nil {
		log.Printf("❌ [INCIDENTS] create %s: %v", req.IncidentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create incident"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    incident,
	})
}

type updateIncidentRequest struct {
	IncidentID   string                   `json:"incidentId" validate:"required"`
	Summary      *string                  `json:"summary"`
	SharedStatus *string                  `json:"sharedStatus" validate:"omitempty,oneof=private shared_contacts shared_legal"`
	Metadata     *incidentMetadataPayload `json:"metadata"`
}

// UpdateIncident applies a partial update; only summary, shared status and
// metadata are mutable.
func (s *IncidentService) UpdateIncident(c *fiber.Ctx) error {
	var req updateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid update data"})
	}
	if details := utils.ValidateStruct(req); details != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid update data",
			"details": details,
		})
	}

	changes := store.IncidentChanges{
		Summary:      req.Summary,
		SharedStatus: req.SharedStatus,
	}
	if req.Metadata != nil {
		meta := models.IncidentMetadata(*req.Metadata)
		changes.Metadata = &meta
	}

	incident, err := s.incidents.UpdateIncident(c.Context(), req.IncidentID, changes)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Incident not found"})
	}
	if err != nil {
		log.Printf("❌ [INCIDENTS] update %s: %v", req.IncidentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update incident"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    incident,
	})
}

// UploadRecording stores an incident's audio file in R2 and links it. The
// bytes are stored as received; no transcoding.
func (s *IncidentService) UploadRecording(c *fiber.Ctx) error {
	incidentID := c.Params("id")

	file, err := c.FormFile("recording")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recording file is required"})
	}
	if file.Size > maxRecordingSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recording too large (max 100MB)"})
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".webm"
	}
	key := "recordings/" + uuid.NewString() + ext

	url, err := utils.UploadToR2(file, key)
	if err != nil {
		log.Printf("❌ [INCIDENTS] recording upload for %s: %v", incidentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store recording"})
	}

	incident, err := s.incidents.UpdateIncident(c.Context(), incidentID, store.IncidentChanges{RecordingURL: &url})
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Incident not found"})
	}
	if err != nil {
		log.Printf("❌ [INCIDENTS] link recording to %s: %v", incidentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update incident"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    incident,
	})
}
