// Package services holds the CRM workflows: lead intake, duplicate
// detection, lead conversion and merge, and customer record maintenance.
package services

import (
	"log/slog"
	"time"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/repositories"
)

const (
	// ConvertedNote is the first service note of a customer created from a lead.
	ConvertedNote = "Converted from potential customer"
	// MergeNotePrefix starts the service note recorded when a lead is merged.
	MergeNotePrefix = "Merged from lead request: "
	// MergeNoNotes stands in for a merged lead without notes.
	MergeNoNotes = "No notes"
)

// CustomerService coordinates the lead, customer and notification stores.
//
// Convert and merge touch two documents without a transaction: the customer
// write happens first and the lead (plus its notifications) is deleted
// afterwards. A failure in between leaves an orphaned lead for manual cleanup.
type CustomerService struct {
	leads         repositories.LeadRepository
	customers     repositories.CustomerRepository
	notifications repositories.NotificationRepository
	log           *slog.Logger
	now           func() time.Time
}

// NewCustomerService creates a CustomerService.
func NewCustomerService(
	log *slog.Logger,
	leads repositories.LeadRepository,
	customers repositories.CustomerRepository,
	notifications repositories.NotificationRepository,
) *CustomerService {
	return &CustomerService{
		leads:         leads,
		customers:     customers,
		notifications: notifications,
		log:           log.With("service", "customers"),
		now:           time.Now,
	}
}

// today is the current UTC calendar date.
func (s *CustomerService) today() string {
	return s.now().UTC().Format(models.DateLayout)
}
