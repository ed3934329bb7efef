package services

import (
	"fmt"
	"log"

	"lexiguard-backend/models"
	"lexiguard-backend/store"
	"lexiguard-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
)

// ContentService serves guides and scripts. Reads fall back to the built-in
// sample dataset when the store is unavailable, annotated with
// source: "fallback" so clients can tell.
type ContentService struct {
	content store.ContentStore
}

func NewContentService(content store.ContentStore) *ContentService {
	return &ContentService{content: content}
}

func (s *ContentService) GetGuides(c *fiber.Ctx) error {
	filter := store.GuideFilter{
		State: c.Query("state"),
		Type:  c.Query("type"),
	}

	if lang := c.Query("language"); lang != "" {
		normalized, ok := utils.NormalizeLanguage(lang)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid query parameters",
				"details": fiber.Map{"language": "must be one of en, es"},
			})
		}
		filter.Language = normalized
	}
	if filter.Type != "" && filter.Type != models.GuideTypeBasic && filter.Type != models.GuideTypePremium {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid query parameters",
			"details": fiber.Map{"type": "must be one of basic, premium"},
		})
	}

	guides, err := s.content.Guides(c.Context(), filter)
	if err != nil {
		log.Printf("⚠️ [CONTENT] guide query failed, serving fallback: %v", err)
		return c.JSON(fiber.Map{
			"success": true,
			"data":    filterFallbackGuides(filter),
			"source":  "fallback",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    guides,
		"source":  "database",
	})
}

func (s *ContentService) GetScripts(c *fiber.Ctx) error {
	filter := store.ScriptFilter{
		Scenario: c.Query("scenario"),
		State:    c.Query("state"),
	}

	if lang := c.Query("language"); lang != "" {
		normalized, ok := utils.NormalizeLanguage(lang)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid query parameters",
				"details": fiber.Map{"language": "must be one of en, es"},
			})
		}
		filter.Language = normalized
	}

	scripts, err := s.content.Scripts(c.Context(), filter)
	if err != nil {
		log.Printf("⚠️ [CONTENT] script query failed, serving fallback: %v", err)
		return c.JSON(fiber.Map{
			"success": true,
			"data":    filterFallbackScripts(filter),
			"source":  "fallback",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    scripts,
		"source":  "database",
	})
}

type guideSectionPayload struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	Importance string `json:"importance" validate:"required,oneof=critical important helpful"`
}

type guideContentPayload struct {
	Title    string                `json:"title" validate:"required"`
	Summary  string                `json:"summary" validate:"required"`
	Sections []guideSectionPayload `json:"sections" validate:"required,min=1,dive"`
}

type createGuideRequest struct {
	GuideID     string              `json:"guideId"`
	State       string              `json:"state" validate:"required"`
	Language    string              `json:"language" validate:"required,oneof=en es"`
	Content     guideContentPayload `json:"content" validate:"required"`
	Type        string              `json:"type" validate:"required,oneof=basic premium"`
	LastUpdated string              `json:"lastUpdated" validate:"required"`
}

func (s *ContentService) CreateGuide(c *fiber.Ctx) error {
	var req createGuideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid guide data"})
	}
	if details := utils.ValidateStruct(req); details != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid guide data",
			"details": details,
		})
	}

	guideID := req.GuideID
	if guideID == "" {
		guideID = slug.Make(fmt.Sprintf("%s %s %s", req.State, req.Type, req.Language))
	}

	sections := make([]models.GuideSection, len(req.Content.Sections))
	for i, sec := range req.Content.Sections {
		sections[i] = models.GuideSection(sec)
	}
	guide := &models.Guide{
		GuideID:  guideID,
		State:    req.State,
		Language: req.Language,
		Content: models.GuideContent{
			Title:    req.Content.Title,
			Summary:  req.Content.Summary,
			Sections: sections,
		},
		Type:        req.Type,
		LastUpdated: req.LastUpdated,
	}

	if err := s.content.CreateGuide(c.Context(), guide); err != nil {
		log.Printf("❌ [CONTENT] create guide %s: %v", guideID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create guide"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    guide,
	})
}

type scriptContentPayload struct {
	Title     string   `json:"title" validate:"required"`
	Situation string   `json:"situation" validate:"required"`
	DoSay     []string `json:"doSay" validate:"required,min=1"`
	DontSay   []string `json:"dontSay" validate:"required,min=1"`
	KeyPoints []string `json:"keyPoints" validate:"required,min=1"`
}

type createScriptRequest struct {
	ScriptID           string               `json:"scriptId"`
	Scenario           string               `json:"scenario" validate:"required"`
	Language           string               `json:"language" validate:"required,oneof=en es"`
	Content            scriptContentPayload `json:"content" validate:"required"`
	StateApplicability []string             `json:"stateApplicability" validate:"required,min=1"`
}

func (s *ContentService) CreateScript(c *fiber.Ctx) error {
	var req createScriptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid script data"})
	}
	if details := utils.ValidateStruct(req); details != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid script data",
			"details": details,
		})
	}

	scriptID := req.ScriptID
	if scriptID == "" {
		scriptID = slug.Make(fmt.Sprintf("%s %s", req.Scenario, req.Language))
	}

	script := &models.Script{
		ScriptID: scriptID,
		Scenario: req.Scenario,
		Language: req.Language,
		Content: models.ScriptContent{
			Title:     req.Content.Title,
			Situation: req.Content.Situation,
			DoSay:     req.Content.DoSay,
			DontSay:   req.Content.DontSay,
			KeyPoints: req.Content.KeyPoints,
		},
		StateApplicability: models.StringList(req.StateApplicability),
	}

	if err := s.content.CreateScript(c.Context(), script); err != nil {
		log.Printf("❌ [CONTENT] create script %s: %v", scriptID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create script"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    script,
	})
}
