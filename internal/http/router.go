package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"bookingdesk/internal/config"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/http/controller"
	"bookingdesk/internal/http/middleware"
	"bookingdesk/internal/metrics"
)

func NewRouter(handler *controller.Handler, cfg *config.Config, m *metrics.Server, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName+"-stubapi"),
		middleware.ZapLogger(logger),
		middleware.Metrics(m),
		middleware.ZapRecovery(logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.POST("/auth/token", handler.IssueToken)
	router.GET("/realtime/stream", handler.Stream)

	secured := router.Group("/", middleware.JWTAuth(cfg.StubJWTSecret))
	secured.GET("/notifications/unread", handler.ListUnread)
	secured.GET("/notifications/unread-count", handler.UnreadCount)
	secured.PATCH("/notifications/:id/read", handler.MarkRead)
	secured.POST("/notifications", middleware.RequireRole(domain.RoleAdmin), handler.CreateNotification)
	secured.GET("/bookings", handler.ListBookings)
	secured.POST("/bookings", handler.CreateBooking)
	secured.GET("/profile", handler.GetProfile)
	secured.PUT("/profile", handler.UpdateProfile)
	coupons := secured.Group("/coupons", middleware.RequireRole(domain.RoleAdmin))
	coupons.GET("", handler.ListCoupons)
	coupons.PUT("/:code", handler.UpsertCoupon)
	coupons.DELETE("/:code", handler.DeleteCoupon)
	secured.POST("/realtime/:conn/auth", handler.AuthenticateStream)
	secured.POST("/realtime/:conn/read", handler.ReadSignal)

	return router
}
