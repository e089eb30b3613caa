package job

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	jobs   *Service
	runner *Runner
}

func NewHandler(jobs *Service, runner *Runner) *Handler {
	return &Handler{jobs: jobs, runner: runner}
}

type createRequest struct {
	Input string `json:"input"`
	URL   string `json:"url,omitempty"`
}

func (h *Handler) HandleCreateResearch(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid body"})
	}
	req.Input = strings.TrimSpace(req.Input)
	req.URL = strings.TrimSpace(req.URL)
	if req.Input == "" && req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "input or url required"})
	}
	id, err := h.runner.Enqueue(c.Context(), req.Input, req.URL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "job_id": id})
}

func (h *Handler) HandleGetResearch(c *fiber.Ctx) error {
	id := c.Params("jobId")
	doc, err := h.jobs.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "not_found"})
	}
	return c.JSON(doc)
}
