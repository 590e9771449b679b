package api

import (
	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/config"
	"github.com/inboop/inboop_server/internal/api/handler"
	"github.com/inboop/inboop_server/internal/api/middleware"
	"github.com/inboop/inboop_server/internal/metrics"
	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Workspace    *handler.WorkspaceHandler
	Plan         *handler.PlanHandler
	Channel      *handler.ChannelHandler
	Webhook      *handler.WebhookHandler
	Conversation *handler.ConversationHandler
	Lead         *handler.LeadHandler
	Order        *handler.OrderHandler
	Analytics    *handler.AnalyticsHandler
	WebSocket    *handler.WebSocketHandler
}

type Router struct {
	handlers Handlers
	members  middleware.MembershipChecker
	plans    middleware.PlanGate
	cfg      *config.Config
}

func NewRouter(handlers Handlers, members middleware.MembershipChecker, plans middleware.PlanGate, cfg *config.Config) *Router {
	return &Router{
		handlers: handlers,
		members:  members,
		plans:    plans,
		cfg:      cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := r.handlers
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.CORS(r.cfg.CORS))
	if r.cfg.Metrics.Enabled {
		engine.Use(metrics.Middleware())
		engine.GET(r.cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(200, "ok")
	})

	api := engine.Group("/api/v1")
	{
		api.GET("/ws", h.WebSocket.Handle)
		api.GET("/plans", h.Plan.Catalog)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", middleware.Auth(r.cfg.JWT.Secret), h.Auth.Me)
		}

		// called by Meta, not by users
		webhooks := api.Group("/webhooks")
		{
			webhooks.GET("/meta", h.Webhook.Verify)
			webhooks.POST("/meta", h.Webhook.Receive)
		}
		api.GET("/channels/meta/callback", h.Channel.Callback)

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.POST("/workspaces", h.Workspace.Create)
			authenticated.GET("/workspaces", h.Workspace.List)
			authenticated.POST("/invitations/accept", h.Workspace.AcceptInvitation)
		}

		ws := authenticated.Group("/workspaces/:workspace_id")
		ws.Use(middleware.WorkspaceMember(r.members))
		{
			ws.GET("/plan", h.Plan.Info)
			ws.GET("/seats", h.Workspace.Seats)
			ws.GET("/members", h.Workspace.Members)
			ws.POST("/members", h.Workspace.Invite)
			ws.DELETE("/members/:user_id", h.Workspace.RemoveMember)

			ws.GET("/channels", h.Channel.List)
			ws.GET("/channels/meta/connect", middleware.RequireActivePlan(r.plans), h.Channel.Connect)
			ws.DELETE("/channels/:id", h.Channel.Disconnect)

			ws.GET("/conversations", h.Conversation.List)
			ws.GET("/conversations/:id", h.Conversation.Get)
			ws.POST("/conversations/:id/read", h.Conversation.MarkRead)

			active := middleware.RequireActivePlan(r.plans)
			leads := ws.Group("/leads")
			{
				leads.GET("", h.Lead.List)
				leads.GET("/:id", h.Lead.Get)
				leads.POST("", active, h.Lead.Create)
				leads.PATCH("/:id/status", active, h.Lead.UpdateStatus)
				leads.PUT("/:id/labels", active, h.Lead.SetLabels)
				leads.POST("/bulk-status", active, h.Lead.BulkUpdateStatus)
			}

			orders := ws.Group("/orders")
			{
				orders.GET("", h.Order.List)
				orders.GET("/:id", h.Order.Get)
				orders.POST("", active, h.Order.Create)
				orders.PATCH("/:id/status", active, h.Order.UpdateStatus)
				orders.PATCH("/:id/payment", active, h.Order.UpdatePaymentStatus)
			}

			analytics := ws.Group("/analytics")
			{
				analytics.GET("", middleware.RequireFeature(r.plans, model.FeatureAnalyticsDashboard), h.Analytics.Overview)
				analytics.POST("/export", middleware.RequireFeature(r.plans, model.FeatureAnalyticsExport), h.Analytics.Export)
			}
		}
	}

	return engine
}

// compile-time checks for the router's collaborators
var (
	_ middleware.MembershipChecker = (*service.WorkspaceService)(nil)
	_ middleware.PlanGate          = (*service.PlanService)(nil)
)
