package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/pkg/serverutils"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/service"
)

type ISummaryController interface {
	RegisterRoutes(r fiber.Router)
	GetSummaries(ctx *fiber.Ctx) error
}

type summaryController struct {
	service service.ISummaryService
}

func NewSummaryController(service service.ISummaryService) ISummaryController {
	return &summaryController{service: service}
}

func (c *summaryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/summaries", serverutils.JwtMiddleware)
	h.Get("/", c.GetSummaries)
}

func (c *summaryController) GetSummaries(ctx *fiber.Ctx) error {
	userId, _, ok := identityFromLocals(ctx)
	if !ok {
		return unauthorizedClaims(ctx)
	}

	summaries, err := c.service.GetSummaries(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": "Failed to load summaries",
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Summaries loaded",
		"data":    fiber.Map{"summaries": summaries},
	})
}
