package controller

import (
	"lost-london-agent/internal/dto"
	"lost-london-agent/internal/pkg/serverutils"
	"lost-london-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	MergeKeywords(ctx *fiber.Ctx) error
	RebuildTeasers(ctx *fiber.Ctx) error
	TeaserKeywords(ctx *fiber.Ctx) error
}

type adminController struct {
	guideService service.IGuideService
}

func NewAdminController(guideService service.IGuideService) IAdminController {
	return &adminController{
		guideService: guideService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("articles/:id/keywords", c.MergeKeywords)
	h.Post("teasers/rebuild", c.RebuildTeasers)
	h.Get("teasers/keywords", c.TeaserKeywords)
}

func (c *adminController) MergeKeywords(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid article id")
	}

	var req dto.MergeKeywordsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.guideService.MergeKeywords(ctx.Context(), id, req.Keywords)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "article not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success merge keywords", res))
}

func (c *adminController) RebuildTeasers(ctx *fiber.Ctx) error {
	count, err := c.guideService.RebuildTeaserCache(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rebuild teaser cache", fiber.Map{
		"keywords": count,
	}))
}

func (c *adminController) TeaserKeywords(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list teaser keywords", c.guideService.TeaserKeywords()))
}
