package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultService is the service label given to leads that don't name one.
	DefaultService = "Quote Request"
	// MaxLeadImages caps the number of photos attached to a quote request.
	MaxLeadImages = 4
	// DateLayout is the calendar-date format used for submission and service dates.
	DateLayout = "2006-01-02"
)

// Lead is a potential customer created from an inbound quote request.
type Lead struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone" bson:"phone"`
	Address   string             `json:"address" bson:"address"`
	Service   string             `json:"service" bson:"service"`
	Date      string             `json:"date" bson:"date"`
	Images    int                `json:"images" bson:"images"`
	ImageURLs []string           `json:"imageUrls" bson:"image_urls"`
	Notes     string             `json:"notes" bson:"notes"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// CreateLeadRequest is the operator-facing body for adding a lead by hand.
type CreateLeadRequest struct {
	Name    string `json:"name" validate:"max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=500"`
	Service string `json:"service" validate:"max=100"`
	Images  int    `json:"images" validate:"min=0,max=4"`
	Notes   string `json:"notes"`
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize applies the storage rules shared by every write of a lead.
func (l *Lead) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = NormalizeEmail(l.Email)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Address = strings.TrimSpace(l.Address)
	l.Service = strings.TrimSpace(l.Service)
	if l.Service == "" {
		l.Service = DefaultService
	}
	if l.ImageURLs == nil {
		l.ImageURLs = []string{}
	}
}

// Validate checks the lead invariants that don't depend on the store.
func (l *Lead) Validate() error {
	if len(l.ImageURLs) > MaxLeadImages {
		return NewValidationError("imageUrls", "Maximum 4 images allowed")
	}
	return nil
}
