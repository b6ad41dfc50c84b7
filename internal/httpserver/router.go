package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agencydesk/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

type Handlers struct {
	Auth    *handler.AuthHandler
	Inquiry *handler.InquiryHandler
	Webhook *handler.WebhookHandler
	Project *handler.ProjectHandler
	Quote   *handler.QuoteHandler
	Client  *handler.ClientHandler
	Skill   *handler.SkillHandler
	Post    *handler.PostHandler
	Comment *handler.CommentHandler
	Contact *handler.ContactHandler
	Message *handler.MessageHandler
	Outbox  *handler.OutboxHandler
}

func NewRouter(h Handlers, jwtSecret string, db *pgxpool.Pool) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Provider webhooks (authenticated by provider signing, not JWT)
	r.POST("/webhooks/inbound/:provider", h.Webhook.Inbound)
	r.POST("/webhooks/delivery", h.Webhook.Delivery)

	// Public
	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/inquiries", h.Inquiry.Create)
		api.POST("/contact", h.Contact.Create)
		api.GET("/skills", h.Skill.List)
		api.GET("/posts", h.Post.ListPublic)
		api.GET("/posts/:slug", h.Post.Get)
		api.GET("/comments", h.Comment.ListPublic)
		api.POST("/comments", h.Comment.Create)
	}

	// Admin
	admin := r.Group("/api/admin")
	admin.Use(AuthMiddleware(jwtSecret))
	{
		admin.GET("/projects", h.Project.List)
		admin.POST("/projects", h.Project.Create)
		admin.GET("/projects/:id", h.Project.Get)
		admin.PUT("/projects/:id", h.Project.Update)
		admin.DELETE("/projects/:id", h.Project.Delete)
		admin.POST("/projects/:id/read", h.Project.MarkRead)
		admin.POST("/projects/:id/milestones/:position/complete", h.Project.CompleteMilestone)
		admin.POST("/projects/:id/milestones/:position/reopen", h.Project.ReopenMilestone)
		admin.PUT("/projects/:id/milestones/:position", h.Project.UpdateMilestone)
		admin.GET("/projects/:id/messages", h.Message.List)
		admin.POST("/projects/:id/messages", h.Message.Send)

		admin.GET("/quotes", h.Quote.List)
		admin.GET("/quotes/:id", h.Quote.Get)
		admin.POST("/quotes", h.Quote.Create)
		admin.POST("/quotes/:id/send", h.Quote.Send)
		admin.POST("/quotes/:id/paid", h.Quote.MarkPaid)

		admin.GET("/clients", h.Client.List)
		admin.GET("/clients/:id", h.Client.Get)
		admin.POST("/clients", h.Client.Create)
		admin.PUT("/clients/:id", h.Client.Update)

		admin.POST("/skills", h.Skill.Create)
		admin.PUT("/skills/:id", h.Skill.Update)
		admin.DELETE("/skills/:id", h.Skill.Delete)

		admin.GET("/posts", h.Post.ListAdmin)
		admin.POST("/posts", h.Post.Create)
		admin.PUT("/posts/:slug", h.Post.Update)
		admin.DELETE("/posts/:slug", h.Post.Delete)

		admin.GET("/comments", h.Comment.ListAdmin)
		admin.POST("/comments/:id/approve", h.Comment.Approve)
		admin.DELETE("/comments/:id", h.Comment.Delete)

		admin.GET("/contact", h.Contact.List)
		admin.POST("/contact/:id/handled", h.Contact.MarkHandled)
		admin.DELETE("/contact/:id", h.Contact.Delete)

		admin.POST("/users", h.Auth.CreateUser)

		admin.GET("/outbox/failed", h.Outbox.ListFailed)
		admin.POST("/outbox/replay", h.Outbox.Replay)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
