package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GiftCode mirrors a row in the host platform's gift code table
type GiftCode struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Code            string             `bson:"code" json:"code"`
	DurationMinutes int                `bson:"duration_minutes" json:"duration_minutes"`
	Status          string             `bson:"status" json:"status"` // unused, redeemed, expired
	RedemptionCount int                `bson:"redemption_count" json:"redemption_count"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	ExpiresAt       *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// ProtectedVideo mirrors a row in the host platform's protected content table
type ProtectedVideo struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	VideoID         string             `bson:"video_id" json:"video_id"`
	PlayerID        string             `bson:"player_id,omitempty" json:"player_id,omitempty"`
	RequiredMinutes int                `bson:"required_minutes" json:"required_minutes"`
	IntegrationType string             `bson:"integration_type" json:"integration_type"`
	Status          string             `bson:"status" json:"status"` // active, disabled
	CreatedAt       time.Time          `bson:"created_at" json:"-"`
}

// ViewerSession mirrors a row in the host platform's session table
type ViewerSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Status    string             `bson:"status" json:"status"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// AnalyticsEvent mirrors a row in the host platform's analytics table.
// Metadata is stored as a raw JSON string, matching the host schema.
type AnalyticsEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventType  string             `bson:"event_type" json:"event_type"`
	ObjectType string             `bson:"object_type,omitempty" json:"object_type,omitempty"`
	ObjectID   string             `bson:"object_id,omitempty" json:"object_id,omitempty"`
	Metadata   string             `bson:"metadata" json:"metadata"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
