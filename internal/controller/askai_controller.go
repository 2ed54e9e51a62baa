package controller

import (
	"pm-assist-be/internal/dto"
	"pm-assist-be/internal/pkg/serverutils"
	"pm-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAskAiController interface {
	RegisterRoutes(r fiber.Router)
	GetState(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	SwitchSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	ClearConversation(ctx *fiber.Ctx) error
	SubmitQuestion(ctx *fiber.Ctx) error
	LoadMore(ctx *fiber.Ctx) error
	CopyAnswer(ctx *fiber.Ctx) error
}

type askAiController struct {
	askAiService service.IAskAiService
}

func NewAskAiController(askAiService service.IAskAiService) IAskAiController {
	return &askAiController{
		askAiService: askAiService,
	}
}

func (c *askAiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/askai/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("state", c.GetState)
	h.Post("sessions", c.CreateSession)
	h.Post("sessions/switch", c.SwitchSession)
	h.Delete("sessions", c.DeleteSession)
	h.Post("conversation/clear", c.ClearConversation)
	h.Post("questions", c.SubmitQuestion)
	h.Post("conversation/load-more", c.LoadMore)
	h.Post("conversation/copy", c.CopyAnswer)
}

func (c *askAiController) GetState(ctx *fiber.Ctx) error {
	var req dto.ScopeRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.askAiService.GetState(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation state", res))
}

func (c *askAiController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.ScopeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.askAiService.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *askAiController) SwitchSession(ctx *fiber.Ctx) error {
	var req dto.SwitchSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.askAiService.SwitchSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success switch session", res))
}

func (c *askAiController) DeleteSession(ctx *fiber.Ctx) error {
	var req dto.DeleteSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.askAiService.DeleteSession(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", nil))
}

func (c *askAiController) ClearConversation(ctx *fiber.Ctx) error {
	var req dto.ScopeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.askAiService.ClearConversation(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear conversation", nil))
}

func (c *askAiController) SubmitQuestion(ctx *fiber.Ctx) error {
	var req dto.SubmitQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.askAiService.SubmitQuestion(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit question", res))
}

func (c *askAiController) LoadMore(ctx *fiber.Ctx) error {
	var req dto.LoadMoreRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.askAiService.LoadMore(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load more", res))
}

func (c *askAiController) CopyAnswer(ctx *fiber.Ctx) error {
	var req dto.CopyAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.askAiService.CopyAnswer(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success copy answer", nil))
}
