package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chesterOps/meetro/internal/http/handlers"
	"github.com/chesterOps/meetro/internal/http/middleware"
)

// Deps carries everything the router needs; main builds it once.
type Deps struct {
	Logger   *slog.Logger
	Sessions middleware.SessionCfg

	Auth     *handlers.AuthHandler
	Events   *handlers.EventHandler
	ChipIns  *handlers.ChipInHandler
	Payouts  *handlers.PayoutHandler
	Webhooks *handlers.WebhookHandler

	// LocalUploads serves files from this directory under /uploads when the
	// local storage driver is active. Empty disables it.
	LocalUploads string
}

func NewRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	// ErrorHandler must wrap Recovery: a recovered panic is surfaced through
	// Fail, and the 500 body is only written on ErrorHandler's way back out.
	r.Use(middleware.ErrorHandler(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.SessionMiddleware(d.Sessions))

	if d.LocalUploads != "" {
		r.Static("/uploads", d.LocalUploads)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", d.Auth.Register)
			auth.POST("/login", d.Auth.Login)
			auth.POST("/logout", d.Auth.Logout)
		}

		api.GET("/events/:slug", d.Events.GetBySlug)

		// Guests chip in without an account; the handler picks up the
		// session user when one exists.
		api.POST("/events/:slug/chipins", d.ChipIns.Create)
		api.GET("/payments/verify", d.ChipIns.Verify)

		api.GET("/banks/resolve", d.Payouts.ResolveAccount)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/me", d.Auth.Me)
			protected.GET("/me/events", d.Events.ListMine)
			protected.POST("/me/payout-account", d.Payouts.SetPayoutAccount)

			protected.POST("/events", d.Events.Create)
			protected.GET("/events/:slug/chipins", d.Events.ListChipIns)
			protected.POST("/events/:slug/cover-image", d.Events.UploadCoverImage)
		}
	}

	// Gateway webhooks skip the session layer; signature is the auth.
	r.POST("/webhooks/paystack", d.Webhooks.Handle)

	return r
}
