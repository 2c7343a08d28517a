package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"time"

	"github.com/Unshaft/StudyBuddy/internal/dto"
	"github.com/Unshaft/StudyBuddy/internal/pkg/serverutils"
	"github.com/Unshaft/StudyBuddy/internal/service"
	"github.com/Unshaft/StudyBuddy/pkg/agent"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// streamTimeout bounds a single correction stream. A pipeline run that
// has not finished by then is stuck on an upstream API.
const streamTimeout = 5 * time.Minute

type ICorrectionController interface {
	RegisterRoutes(r fiber.Router)
	Correct(ctx *fiber.Ctx) error
	CorrectStream(ctx *fiber.Ctx) error
	FollowupStream(ctx *fiber.Ctx) error
}

type correctionController struct {
	correctionService service.ICorrectionService
}

func NewCorrectionController(correctionService service.ICorrectionService) ICorrectionController {
	return &correctionController{
		correctionService: correctionService,
	}
}

func (c *correctionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/correction/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Correct)
	h.Post("stream", c.CorrectStream)
	h.Post("followup/stream", c.FollowupStream)
}

func (c *correctionController) Correct(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	image, err := readImageFile(ctx, "file")
	if err != nil {
		return err
	}

	subject := ctx.FormValue("subject")
	studentAnswer := ctx.FormValue("student_answer")

	res, err := c.correctionService.Correct(ctx.Context(), userId, image, subject, studentAnswer)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success correct exercise", res))
}

// CorrectStream runs the same pipeline but pushes progress and answer
// tokens over SSE as they happen.
func (c *correctionController) CorrectStream(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	image, err := readImageFile(ctx, "file")
	if err != nil {
		return err
	}

	subject := ctx.FormValue("subject")
	studentAnswer := ctx.FormValue("student_answer")

	setSSEHeaders(ctx)

	// The fiber ctx is recycled once this handler returns; everything
	// the stream writer needs is captured before that.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithTimeout(context.Background(), streamTimeout)
		defer cancel()

		events := c.correctionService.CorrectStream(streamCtx, userId, image, subject, studentAnswer)
		for event := range events {
			if !writeSSEEvent(w, event) {
				return
			}
		}
	}))

	return nil
}

// FollowupStream answers a clarification question on a finished
// correction, streaming the tutor's reply token by token.
func (c *correctionController) FollowupStream(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.FollowupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	setSSEHeaders(ctx)

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithTimeout(context.Background(), streamTimeout)
		defer cancel()

		err := c.correctionService.FollowupStream(streamCtx, userId, &req, func(token string) {
			writeSSEEvent(w, agent.Event{Type: agent.EventToken, Text: token})
		})
		if err != nil {
			writeSSEEvent(w, agent.Event{Type: agent.EventError, Code: "FOLLOWUP_FAILED", Message: err.Error()})
			return
		}
		writeSSEEvent(w, agent.Event{Type: agent.EventDone})
	}))

	return nil
}

func setSSEHeaders(ctx *fiber.Ctx) {
	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")
}

// writeSSEEvent reports false when the client is gone.
func writeSSEEvent(w *bufio.Writer, event agent.Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}
	if _, err := w.WriteString("data: " + string(data) + "\n\n"); err != nil {
		return false
	}
	return w.Flush() == nil
}
