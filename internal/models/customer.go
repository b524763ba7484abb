package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotesDivider separates notes folded in from a merged lead.
const NotesDivider = "\n\n---\n\n"

// ServiceRecord is one dated entry in a customer's service history.
type ServiceRecord struct {
	Date string `json:"date" bson:"date"`
	Note string `json:"note" bson:"note"`
}

// Customer is an active customer. ServiceHistory is kept newest first and
// LastServiceDate/ServiceNote always mirror ServiceHistory[0].
type Customer struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Phone           string             `json:"phone" bson:"phone"`
	Address         string             `json:"address" bson:"address"`
	Service         string             `json:"service" bson:"service"`
	LastServiceDate string             `json:"lastServiceDate" bson:"last_service_date"`
	ServiceNote     string             `json:"serviceNote" bson:"service_note"`
	ServiceHistory  []ServiceRecord    `json:"serviceHistory" bson:"service_history"`
	Images          int                `json:"images" bson:"images"`
	ImageURLs       []string           `json:"imageUrls" bson:"image_urls"`
	Notes           string             `json:"notes" bson:"notes"`
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updated_at"`
}

// AddServiceRecord prepends rec to the history and mirrors it into the summary fields.
func (c *Customer) AddServiceRecord(rec ServiceRecord) {
	c.ServiceHistory = append([]ServiceRecord{rec}, c.ServiceHistory...)
	c.LastServiceDate = rec.Date
	c.ServiceNote = rec.Note
}

// SetLastService edits the most recent service entry in place. A nil argument
// keeps the current value. With an empty history a single entry is created.
func (c *Customer) SetLastService(date, note *string) {
	if date == nil && note == nil {
		return
	}
	rec := ServiceRecord{Date: c.LastServiceDate, Note: c.ServiceNote}
	if date != nil {
		rec.Date = *date
	}
	if note != nil {
		rec.Note = *note
	}
	if len(c.ServiceHistory) > 0 {
		c.ServiceHistory[0] = rec
	} else {
		c.ServiceHistory = []ServiceRecord{rec}
	}
	c.LastServiceDate = rec.Date
	c.ServiceNote = rec.Note
}

// AppendNotes adds extra to the customer's notes below a divider.
// Blank input leaves the notes untouched.
func (c *Customer) AppendNotes(extra string) {
	if strings.TrimSpace(extra) == "" {
		return
	}
	if c.Notes == "" {
		c.Notes = extra
		return
	}
	c.Notes = c.Notes + NotesDivider + extra
}

// Normalize applies the storage rules shared by every write of a customer.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = NormalizeEmail(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Service = strings.TrimSpace(c.Service)
	if c.Service == "" {
		c.Service = DefaultService
	}
	if c.ImageURLs == nil {
		c.ImageURLs = []string{}
	}
	if c.ServiceHistory == nil {
		c.ServiceHistory = []ServiceRecord{}
	}
}
