package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
	"bookingdesk/internal/sse"
)

const retryHint = 3 * time.Second

// Stream opens an SSE connection. The first event carries the connection id
// the client authenticates with; notifications follow once it has.
func (h *Handler) Stream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		internalError(c, "streaming unsupported")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	client := &sse.Client{
		ID: uuid.NewString(),
		Ch: make(chan model.Notification, 16),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := writeConnected(c.Writer, client.ID); err != nil {
		h.log.Error("write connected event failed", zap.String("connection_id", client.ID), zap.Error(err))
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(h.cfg.SSEHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.String("connection_id", client.ID), zap.Error(err))
				return
			}
			flusher.Flush()
		case notification, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeNotification(c.Writer, notification); err != nil {
				h.log.Error("write notification failed", zap.String("connection_id", client.ID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// AuthenticateStream binds a connection to the caller. The body must name
// the same principal as the bearer token.
func (h *Handler) AuthenticateStream(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if !domain.IsValidRole(req.Role) {
		badRequest(c, "role must be one of: user, technician, admin")
		return
	}
	caller := principal(c)
	if caller.ID != req.PrincipalID || caller.Role != req.Role {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "principal does not match token"})
		return
	}
	connID := c.Param("conn")
	if !h.hub.Bind(c.Request.Context(), connID, sse.Recipient{PrincipalID: req.PrincipalID, Role: req.Role}) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "unknown connection"})
		return
	}
	h.log.Info("stream authenticated",
		zap.String("connection_id", connID),
		zap.String("principal_id", req.PrincipalID),
		zap.String("role", req.Role),
	)
	c.Status(http.StatusNoContent)
}

// ReadSignal marks a notification read on behalf of the principal the
// connection is bound to.
func (h *Handler) ReadSignal(c *gin.Context) {
	var req dto.ReadSignal
	if err := c.ShouldBindJSON(&req); err != nil || req.NotificationID == "" {
		badRequest(c, "notificationId is required")
		return
	}
	recipient, ok := h.hub.Recipient(c.Param("conn"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "connection not authenticated"})
		return
	}
	owner := model.Principal{ID: recipient.PrincipalID, Role: recipient.Role}
	if err := h.svc.MarkRead(c.Request.Context(), owner, req.NotificationID); err != nil {
		storeError(c, err, "failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

func writeConnected(w http.ResponseWriter, connID string) error {
	payload, err := json.Marshal(dto.ConnectedEvent{ConnectionID: connID})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "retry: %d\nevent: connected\ndata: %s\n\n", retryHint.Milliseconds(), payload)
	return err
}

func writeNotification(w http.ResponseWriter, notification model.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", notification.ID, payload)
	return err
}
