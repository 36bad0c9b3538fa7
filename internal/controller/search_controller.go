package controller

import (
	"ai-docquery-be/internal/dto"
	"ai-docquery-be/internal/pkg/serverutils"
	"ai-docquery-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Semantic(ctx *fiber.Ctx) error
	Keyword(ctx *fiber.Ctx) error
	Hybrid(ctx *fiber.Ctx) error
	WithContext(ctx *fiber.Ctx) error
	Statistics(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{
		searchService: searchService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Post("semantic", c.Semantic)
	h.Post("keyword", c.Keyword)
	h.Post("hybrid", c.Hybrid)
	h.Post("context", c.WithContext)
	h.Get("statistics", c.Statistics)
}

func (c *searchController) Statistics(ctx *fiber.Ctx) error {
	res, err := c.searchService.Statistics(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search statistics", res))
}

func (c *searchController) Semantic(ctx *fiber.Ctx) error {
	req, err := parseSearchRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.searchService.Semantic(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search", res))
}

func (c *searchController) Keyword(ctx *fiber.Ctx) error {
	req, err := parseSearchRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.searchService.Keyword(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success keyword search", res))
}

func (c *searchController) Hybrid(ctx *fiber.Ctx) error {
	req, err := parseSearchRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.searchService.Hybrid(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success hybrid search", res))
}

func (c *searchController) WithContext(ctx *fiber.Ctx) error {
	var req dto.SearchWithContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.WithContext(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search with context", res))
}

func parseSearchRequest(ctx *fiber.Ctx) (*dto.SearchRequest, error) {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}
