package services

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"content-protect-assistant/internal/logger"
	"content-protect-assistant/internal/telemetry"
	"content-protect-assistant/models"
)

// ChatLogger records assistant conversations in the analytics collection.
// Logging is strictly best-effort: a failed write is logged and swallowed so
// it can never turn a successful chat into an error.
type ChatLogger interface {
	LogChat(userID string, messageLen, replyLen int)
}

type AnalyticsLogger struct {
	col     *mongo.Collection
	metrics *telemetry.Metrics
}

func NewAnalyticsLogger(db *mongo.Database, prefix string, metrics *telemetry.Metrics) *AnalyticsLogger {
	return &AnalyticsLogger{
		col:     db.Collection(prefix + "analytics"),
		metrics: metrics,
	}
}

// LogChat writes an admin_ai_chat event asynchronously so the response is
// never blocked on the analytics store.
func (a *AnalyticsLogger) LogChat(userID string, messageLen, replyLen int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		metadata, _ := json.Marshal(map[string]interface{}{
			"message_length": messageLen,
			"reply_length":   replyLen,
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})

		event := models.AnalyticsEvent{
			EventType:  "admin_ai_chat",
			ObjectType: "admin",
			ObjectID:   userID,
			Metadata:   string(metadata),
			CreatedAt:  time.Now().UTC(),
		}

		_, err := a.col.InsertOne(ctx, event)
		if err != nil {
			logger.Warn("analytics logging failed", "error", err)
		}
		if a.metrics != nil {
			a.metrics.RecordAnalyticsEvent("admin_ai_chat", err == nil)
		}
	}()
}
