package controller

import (
	"context"
	"errors"

	"cubie-assistant/internal/dto"
	"cubie-assistant/internal/pkg/serverutils"
	"cubie-assistant/internal/service"
	"cubie-assistant/pkg/analytics"
	"cubie-assistant/pkg/chartstore"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Query(ctx *fiber.Ctx) error
	SetSticky(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	Routes(ctx *fiber.Ctx) error
	Chart(ctx *fiber.Ctx) error
	ReloadIndex(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
	indexerService   service.IIndexerService
	charts           analytics.ChartStore
}

func NewAssistantController(
	assistantService service.IAssistantService,
	indexerService service.IIndexerService,
	charts analytics.ChartStore,
) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
		indexerService:   indexerService,
		charts:           charts,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/assistant/v1")
	h.Get("routes", c.Routes)
	h.Get("charts/:handle", c.Chart)

	h.Post("query", auth, c.Query)
	h.Post("sticky", auth, c.SetSticky)
	h.Delete("session", auth, c.ResetSession)
	h.Post("admin/reload-index", auth, c.ReloadIndex)
}

// Identity reads the claims set by the JWT middleware.
func Identity(ctx interface{ Locals(key interface{}, value ...interface{}) interface{} }) analytics.Identity {
	userID, _ := ctx.Locals(serverutils.LocalUserID).(string)
	userName, _ := ctx.Locals(serverutils.LocalUserName).(string)
	email, _ := ctx.Locals(serverutils.LocalEmail).(string)
	return analytics.Identity{UserID: userID, UserName: userName, Email: email}
}

func mapServiceError(err error) error {
	if errors.Is(err, service.ErrSessionNotOwned) {
		return fiber.NewError(fiber.StatusForbidden, "Session not found")
	}
	return err
}

func (c *assistantController) Query(ctx *fiber.Ctx) error {
	var req dto.AssistantQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Query(ctx.UserContext(), Identity(ctx), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *assistantController) SetSticky(ctx *fiber.Ctx) error {
	var req dto.SetStickyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if err := c.assistantService.SetSticky(ctx.UserContext(), Identity(ctx), &req); err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Sticky mode set", nil))
}

func (c *assistantController) ResetSession(ctx *fiber.Ctx) error {
	req := dto.ResetSessionRequest{SessionId: ctx.Query("session_id")}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if err := c.assistantService.ResetSession(ctx.UserContext(), Identity(ctx), req.SessionId); err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session cleared", nil))
}

func (c *assistantController) Routes(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success", c.assistantService.Routes()))
}

func (c *assistantController) Chart(ctx *fiber.Ctx) error {
	spec, err := c.charts.Get(ctx.UserContext(), ctx.Params("handle"))
	if errors.Is(err, chartstore.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Chart not found")
	}
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Send(spec)
}

func (c *assistantController) ReloadIndex(ctx *fiber.Ctx) error {
	n, err := c.indexerService.Reload(context.WithoutCancel(ctx.UserContext()))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Help index reloaded", dto.ReloadIndexResponse{Chunks: n}))
}
