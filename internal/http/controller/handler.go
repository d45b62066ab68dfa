package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookingdesk/internal/auth"
	"bookingdesk/internal/config"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/http/middleware"
	"bookingdesk/internal/model"
	"bookingdesk/internal/service/account"
	"bookingdesk/internal/service/booking"
	"bookingdesk/internal/service/notify"
	"bookingdesk/internal/sse"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	cfg      *config.Config
	svc      *notify.Service
	bookings *booking.Service
	accounts *account.Service
	hub      *sse.Hub
	log      *zap.Logger
}

func NewHandler(cfg *config.Config, svc *notify.Service, bookings *booking.Service, accounts *account.Service, hub *sse.Hub, logger *zap.Logger) *Handler {
	return &Handler{cfg: cfg, svc: svc, bookings: bookings, accounts: accounts, hub: hub, log: logger}
}

// IssueToken signs a token for any principal. The stub API has no user
// database; this stands in for the real login flow.
func (h *Handler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if req.PrincipalID == "" {
		badRequest(c, "principalId is required")
		return
	}
	token, err := auth.Sign(h.cfg.StubJWTSecret, model.Principal{
		ID:    req.PrincipalID,
		Role:  req.Role,
		Name:  req.Name,
		Email: req.Email,
	}, tokenTTL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRole) {
			badRequest(c, "role must be one of: user, technician, admin")
			return
		}
		h.log.Error("sign token failed", zap.Error(err))
		internalError(c, "failed to issue token")
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func principal(c *gin.Context) model.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: message})
}

func internalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: message})
}

// storeError maps domain errors to status codes.
func storeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "forbidden"})
	default:
		internalError(c, fallback)
	}
}
