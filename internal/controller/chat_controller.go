package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/dto"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/pkg/serverutils"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	service  service.IChatService
	validate *validator.Validate
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat", serverutils.JwtMiddleware)
	h.Post("/", c.SendChat)
	h.Get("/sessions/:session_id/history", c.GetHistory)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	userId, username, ok := identityFromLocals(ctx)
	if !ok {
		return unauthorizedClaims(ctx)
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "message is required and session_id, when set, must be a UUID",
		})
	}

	res, err := c.service.SendChat(ctx.Context(), userId, username, &req)
	if err != nil {
		if errors.Is(err, service.ErrDailyLimitReached) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"code":    429,
				"message": "Daily chat limit reached, please come back tomorrow",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": "Failed to process message",
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Message processed",
		"data":    res,
	})
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	userId, _, ok := identityFromLocals(ctx)
	if !ok {
		return unauthorizedClaims(ctx)
	}

	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "Invalid session id",
		})
	}

	items, err := c.service.GetHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": "Failed to load history",
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "History loaded",
		"data":    fiber.Map{"messages": items},
	})
}

// identityFromLocals pulls the authenticated user out of the JWT locals.
func identityFromLocals(ctx *fiber.Ctx) (uuid.UUID, string, bool) {
	rawId, _ := ctx.Locals("user_id").(string)
	username, _ := ctx.Locals("username").(string)

	userId, err := uuid.Parse(rawId)
	if err != nil || username == "" {
		return uuid.Nil, "", false
	}
	return userId, username, true
}

func unauthorizedClaims(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"code":    401,
		"message": "Invalid token claims",
	})
}
