package controller

import (
	"ai-docquery-be/internal/dto"
	"ai-docquery-be/internal/pkg/serverutils"
	"ai-docquery-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRagController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type ragController struct {
	ragService service.IRagService
}

func NewRagController(ragService service.IRagService) IRagController {
	return &ragController{
		ragService: ragService,
	}
}

func (c *ragController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/rag/v1")
	h.Post("query", c.Ask)
	h.Get("health", c.Health)
}

func (c *ragController) Health(ctx *fiber.Ctx) error {
	res, err := c.ragService.Health(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rag health", res))
}

func (c *ragController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ragService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate answer", res))
}
