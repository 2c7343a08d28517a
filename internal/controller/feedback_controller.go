package controller

import (
	"github.com/Unshaft/StudyBuddy/internal/dto"
	"github.com/Unshaft/StudyBuddy/internal/pkg/serverutils"
	"github.com/Unshaft/StudyBuddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
}

type feedbackController struct {
	feedbackService service.IFeedbackService
}

func NewFeedbackController(feedbackService service.IFeedbackService) IFeedbackController {
	return &feedbackController{
		feedbackService: feedbackService,
	}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/feedback/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
}

func (c *feedbackController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.feedbackService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create feedback", res))
}
