package handler

import (
	"context"
	"os"
	"strings"

	"github.com/Unshaft/StudyBuddy/internal/pkg/logger"
	internalWS "github.com/Unshaft/StudyBuddy/internal/websocket"
	"github.com/Unshaft/StudyBuddy/pkg/events"
	pktNats "github.com/Unshaft/StudyBuddy/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NotificationHandler relays ingestion events from the bus to the
// owner's websocket connections and serves the websocket endpoint.
type NotificationHandler struct {
	subscriber *pktNats.Subscriber
	hub        *internalWS.Hub
	logger     logger.ILogger
}

func NewNotificationHandler(subscriber *pktNats.Subscriber, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

// Start subscribes to the event stream. Safe to call once at boot; the
// durable consumer resumes where it left off after a restart.
func (h *NotificationHandler) Start() error {
	if h.subscriber == nil {
		h.logger.Warn("NotificationHandler", "No event subscriber configured, websocket push disabled", nil)
		return nil
	}
	return h.subscriber.Subscribe("events.>", "notification-relay", h.handleEvent)
}

func (h *NotificationHandler) handleEvent(ctx context.Context, event events.Event) error {
	// The subscriber surfaces the raw subject, e.g. "events.COURSE_INGESTED".
	eventType := strings.TrimPrefix(event.EventType(), "events.")

	switch eventType {
	case events.CourseIngested, events.CourseIngestFailed:
	default:
		return nil
	}

	data := event.Payload()
	userIDStr, ok := data["user_id"].(string)
	if !ok {
		h.logger.Warn("NotificationHandler", "Event without user_id, dropping", map[string]interface{}{"type": eventType})
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		h.logger.Warn("NotificationHandler", "Event with malformed user_id, dropping", map[string]interface{}{"type": eventType, "user_id": userIDStr})
		return nil
	}

	h.hub.Send(userID, internalWS.Notification{
		Type: eventType,
		Data: data,
	})
	return nil
}

// ServeWs handles websocket requests from the peer.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	// 1. Get Token source
	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	// 2. Parse JWT with the same secret as the HTTP middleware
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	// 3. Extract UserID from Claim
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, c, userID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket endpoint.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
