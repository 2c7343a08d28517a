package controller

import (
	"github.com/Unshaft/StudyBuddy/internal/pkg/serverutils"
	"github.com/Unshaft/StudyBuddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICourseController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type courseController struct {
	courseService service.ICourseService
}

func NewCourseController(courseService service.ICourseService) ICourseController {
	return &courseController{
		courseService: courseService,
	}
}

func (c *courseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/course/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Upload)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *courseController) Upload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	image, err := readImageFile(ctx, "file")
	if err != nil {
		return err
	}

	res, err := c.courseService.Upload(ctx.Context(), userId, image)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Course upload queued", res))
}

func (c *courseController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid course id")
	}

	res, err := c.courseService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show course", res))
}

func (c *courseController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	subject := ctx.Query("subject", "")

	res, err := c.courseService.List(ctx.Context(), userId, subject)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list courses", res))
}

func (c *courseController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid course id")
	}

	err = c.courseService.Delete(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete course", nil))
}
