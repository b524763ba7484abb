package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/junkcaptain/crm/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddServiceRecord logs a service visit on a customer, newest first.
func (s *CustomerService) AddServiceRecord(ctx context.Context, customerID primitive.ObjectID, date, note string) (*models.Customer, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, models.NewValidationError("date", "Service date is required")
	}

	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	customer.AddServiceRecord(models.ServiceRecord{Date: date, Note: strings.TrimSpace(note)})
	customer.Normalize()

	if err := s.customers.UpdateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer %s: %w", customerID.Hex(), err)
	}
	return customer, nil
}

// UpdateRecord applies a partial field update to a lead or a customer.
func (s *CustomerService) UpdateRecord(ctx context.Context, kind models.RecordKind, id primitive.ObjectID, patch models.RecordPatch) (models.Record, error) {
	switch kind {
	case models.KindLead:
		lead, err := s.leads.GetLeadByID(ctx, id)
		if err != nil {
			return models.Record{}, err
		}
		patch.ApplyToLead(lead)
		lead.Normalize()
		if err := lead.Validate(); err != nil {
			return models.Record{}, err
		}
		if err := s.leads.UpdateLead(ctx, lead); err != nil {
			return models.Record{}, fmt.Errorf("update lead %s: %w", id.Hex(), err)
		}
		return models.LeadRecord(lead), nil

	case models.KindCustomer:
		customer, err := s.customers.GetCustomerByID(ctx, id)
		if err != nil {
			return models.Record{}, err
		}
		patch.ApplyToCustomer(customer)
		customer.Normalize()
		if err := s.customers.UpdateCustomer(ctx, customer); err != nil {
			return models.Record{}, fmt.Errorf("update customer %s: %w", id.Hex(), err)
		}
		return models.CustomerRecord(customer), nil
	}
	return models.Record{}, models.NewValidationError("type", "Invalid type")
}

// DeleteRecord removes a lead (with its notifications) or a customer.
func (s *CustomerService) DeleteRecord(ctx context.Context, kind models.RecordKind, id primitive.ObjectID) error {
	switch kind {
	case models.KindLead:
		return s.retireLead(ctx, id)
	case models.KindCustomer:
		if err := s.customers.DeleteCustomer(ctx, id); err != nil {
			return fmt.Errorf("delete customer %s: %w", id.Hex(), err)
		}
		return nil
	}
	return models.NewValidationError("type", "Invalid type")
}
