package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationNewQuote is the only notification kind: a lead was submitted.
const NotificationNewQuote = "new_quote"

// Notification records a new lead for the operator dashboard. LeadID is a
// weak reference; the notification is removed together with its lead.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	LeadID    primitive.ObjectID `json:"leadId" bson:"lead_id"`
	Type      string             `json:"type" bson:"type"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// MarkReadRequest is the body of PUT /notifications/read.
type MarkReadRequest struct {
	ID string `json:"id" validate:"required"`
}
