package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/junkcaptain/crm/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConvertLead turns a lead into a new customer, then removes the lead and
// its notifications.
func (s *CustomerService) ConvertLead(ctx context.Context, leadID primitive.ObjectID) (*models.Customer, error) {
	lead, err := s.leads.GetLeadByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Address:   lead.Address,
		Service:   lead.Service,
		Images:    lead.Images,
		ImageURLs: lead.ImageURLs,
		Notes:     lead.Notes,
	}
	customer.AddServiceRecord(models.ServiceRecord{Date: s.today(), Note: ConvertedNote})
	customer.Normalize()

	if err := s.customers.CreateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer from lead %s: %w", leadID.Hex(), err)
	}
	if err := s.retireLead(ctx, leadID); err != nil {
		s.log.ErrorContext(ctx, "lead converted but not removed",
			slog.String("lead_id", leadID.Hex()),
			slog.String("customer_id", customer.ID.Hex()),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "lead converted",
		slog.String("lead_id", leadID.Hex()),
		slog.String("customer_id", customer.ID.Hex()),
	)
	return customer, nil
}

// MergeLead folds a lead into an existing customer as a repeat contact:
// a dated history entry is prepended, the lead's notes are appended to the
// customer's notes, and the lead and its notifications are removed.
func (s *CustomerService) MergeLead(ctx context.Context, leadID, customerID primitive.ObjectID) (*models.Customer, error) {
	lead, err := s.leads.GetLeadByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	customer.AddServiceRecord(models.ServiceRecord{Date: s.today(), Note: MergeNote(lead.Notes)})
	customer.AppendNotes(lead.Notes)
	customer.Normalize()

	if err := s.customers.UpdateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer %s: %w", customerID.Hex(), err)
	}
	if err := s.retireLead(ctx, leadID); err != nil {
		s.log.ErrorContext(ctx, "lead merged but not removed",
			slog.String("lead_id", leadID.Hex()),
			slog.String("customer_id", customerID.Hex()),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "lead merged",
		slog.String("lead_id", leadID.Hex()),
		slog.String("customer_id", customerID.Hex()),
	)
	return customer, nil
}

// MergeNote is the history note recorded when a lead with notes is merged.
func MergeNote(leadNotes string) string {
	notes := strings.TrimSpace(leadNotes)
	if notes == "" {
		notes = MergeNoNotes
	}
	return MergeNotePrefix + notes
}

// retireLead deletes a lead together with the notifications pointing at it.
func (s *CustomerService) retireLead(ctx context.Context, leadID primitive.ObjectID) error {
	if err := s.leads.DeleteLead(ctx, leadID); err != nil {
		return fmt.Errorf("delete lead %s: %w", leadID.Hex(), err)
	}
	if _, err := s.notifications.DeleteByLeadID(ctx, leadID); err != nil {
		return fmt.Errorf("delete notifications of lead %s: %w", leadID.Hex(), err)
	}
	return nil
}
