package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"content-protect-assistant/internal/config"
	"content-protect-assistant/internal/gateway"
	"content-protect-assistant/internal/logger"
	"content-protect-assistant/internal/telemetry"
	"content-protect-assistant/middleware"
	"content-protect-assistant/models"
	"content-protect-assistant/services"
	"content-protect-assistant/utils"
)

// Gateway is the outbound chat surface the routes depend on
type Gateway interface {
	Chat(ctx context.Context, sessionKey, systemPrompt, userMessage string) (*gateway.Reply, error)
	ClearHistory(ctx context.Context, sessionKey string) error
}

// AdminGate authenticates the administrator before any assistant work
type AdminGate interface {
	RequireAdmin() gin.HandlerFunc
}

// AssistantDeps bundles the collaborators behind the assistant endpoints
type AssistantDeps struct {
	Cfg       *config.Config
	Limiter   services.Limiter
	Builder   *services.ContextBuilder
	Composer  *services.PromptComposer
	Gateway   Gateway
	Analytics services.ChatLogger
	Metrics   *telemetry.Metrics
}

func SetupAssistantRoutes(router *gin.Engine, deps AssistantDeps, gate AdminGate) {
	// Bootstrap issues the nonce, so it sits outside the nonce gate
	router.GET("/assistant/bootstrap", gate.RequireAdmin(), func(c *gin.Context) {
		user := middleware.GetUser(c)

		c.JSON(http.StatusOK, models.BootstrapResponse{
			Nonce:            middleware.IssueNonce(deps.Cfg.NonceSecret, user.ID),
			UserID:           user.ID,
			UserName:         user.Name,
			Enabled:          deps.Cfg.AssistantEnabled,
			APIKeyConfigured: deps.Cfg.GatewayAPIKey != "",
			Strings: map[string]string{
				"sending":    "Sending...",
				"thinking":   "Assistant is thinking...",
				"error":      "Error communicating with AI",
				"rate_limit": "Too many requests. Please wait.",
				"cleared":    "Chat history cleared",
			},
		})
	})

	assistant := router.Group("/assistant")
	assistant.Use(gate.RequireAdmin())
	assistant.Use(middleware.EnrichTrace())
	assistant.Use(middleware.RequireNonce(deps.Cfg.NonceSecret))

	assistant.POST("/chat", func(c *gin.Context) {
		start := time.Now()

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Message cannot be empty", gin.H{"error": err.Error()})
			return
		}

		if !deps.Cfg.AssistantEnabled {
			utils.RespondWithForbidden(c, "assistant_disabled", "The AI assistant is disabled")
			return
		}

		user := middleware.GetUser(c)

		allowed, err := deps.Limiter.Allow(c.Request.Context(), user.ID)
		if err != nil {
			logger.Warn("rate limit check degraded",
				"request_id", middleware.GetRequestID(c), "user_id", user.ID, "error", err)
		}
		if !allowed {
			if deps.Metrics != nil {
				deps.Metrics.RecordRateLimitDenied(user.ID)
			}
			utils.RespondWithTooManyRequests(c,
				"Rate limit exceeded. Please wait before sending more messages.",
				gin.H{
					"retry_after": deps.Cfg.RateLimitWindow,
					"limit":       deps.Cfg.RateLimitReqs,
				})
			return
		}

		adminCtx := deps.Builder.Build(c.Request.Context(), user)
		systemPrompt := deps.Composer.Compose(adminCtx)
		sessionKey := deps.Cfg.SessionPrefix + user.ID

		reply, err := deps.Gateway.Chat(c.Request.Context(), sessionKey, systemPrompt, req.Message)
		if err != nil {
			if err == gateway.ErrNoAPIKey {
				recordChat(deps.Metrics, "config_error", start)
				utils.RespondWithInternalError(c, "api_key_missing",
					"Gateway API key not configured", nil)
				return
			}
			recordChat(deps.Metrics, "error", start)
			utils.RespondWithInternalError(c, "internal_error", "Failed to contact gateway", nil)
			return
		}

		if !reply.Success {
			recordChat(deps.Metrics, "gateway_error", start)
			utils.RespondWithBadGateway(c, reply.Error, nil)
			return
		}

		category := services.Classify(reply.Reply)

		if deps.Analytics != nil {
			deps.Analytics.LogChat(user.ID, len(req.Message), len(reply.Reply))
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordGatewayCall(reply.Model, time.Since(start).Seconds(), int64(reply.Tokens))
		}
		recordChat(deps.Metrics, "ok", start)

		c.JSON(http.StatusOK, models.ChatResponse{
			Reply:     reply.Reply,
			MediaClip: services.ClipFor(category),
			Metadata: models.ChatMetadata{
				Timestamp: time.Now().UTC(),
				Model:     reply.Model,
				Tokens:    reply.Tokens,
			},
		})
	})

	assistant.POST("/history/clear", func(c *gin.Context) {
		user := middleware.GetUser(c)
		sessionKey := deps.Cfg.SessionPrefix + user.ID

		// Best effort: a gateway that cannot clear history is not worth
		// surfacing to the admin
		if err := deps.Gateway.ClearHistory(c.Request.Context(), sessionKey); err != nil {
			logger.Warn("history clear failed",
				"request_id", middleware.GetRequestID(c), "session", sessionKey, "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared"})
	})

	assistant.GET("/context", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Builder.Build(c.Request.Context(), middleware.GetUser(c)))
	})
}

func recordChat(metrics *telemetry.Metrics, status string, start time.Time) {
	if metrics != nil {
		metrics.RecordChat(status, time.Since(start).Seconds())
	}
}
