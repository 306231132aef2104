package controller

import (
	"fmt"

	"medrag-be/internal/dto"
	"medrag-be/internal/pkg/serverutils"
	"medrag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICaseController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Diagnose(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
	Notify(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type caseController struct {
	service service.ICaseService
}

func NewCaseController(service service.ICaseService) ICaseController {
	return &caseController{service: service}
}

func (c *caseController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Post("/diagnose", c.Diagnose)

	r.Post("/cases", c.Submit)
	r.Get("/cases", c.List)
	r.Get("/cases/:id", c.Show)
	r.Post("/cases/:id/regenerate", c.Regenerate)
	r.Post("/cases/:id/notify", c.Notify)

	r.Get("/export/:id", auth, c.Export)
	r.Get("/dashboard/stats", auth, c.Stats)
}

func (c *caseController) Diagnose(ctx *fiber.Ctx) error {
	var req dto.DiagnoseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Diagnose(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Diagnosis generated", res))
}

func (c *caseController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitCaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Submit(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Case submitted", res))
}

func (c *caseController) List(ctx *fiber.Ctx) error {
	var req dto.ListCasesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get cases", res))
}

func (c *caseController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get case", res))
}

func (c *caseController) Regenerate(ctx *fiber.Ctx) error {
	res, err := c.service.Regenerate(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Diagnosis regenerated", res))
}

func (c *caseController) Notify(ctx *fiber.Ctx) error {
	if err := c.service.Notify(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Diagnosis notice queued", nil))
}

func (c *caseController) Export(ctx *fiber.Ctx) error {
	payload, filename, err := c.service.Export(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return ctx.Send(payload)
}

func (c *caseController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}
