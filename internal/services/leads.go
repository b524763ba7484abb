package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/junkcaptain/crm/backend/internal/models"
)

// CreateLead stores a new lead and its "new quote" notification.
func (s *CustomerService) CreateLead(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	lead.Normalize()
	if err := lead.Validate(); err != nil {
		return nil, err
	}
	if lead.Date == "" {
		lead.Date = s.today()
	}

	if err := s.leads.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	notification := &models.Notification{
		LeadID: lead.ID,
		Type:   models.NotificationNewQuote,
		Read:   false,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		// A lead is never kept without its notification.
		if delErr := s.leads.DeleteLead(context.WithoutCancel(ctx), lead.ID); delErr != nil {
			s.log.ErrorContext(ctx, "lead stored without notification",
				slog.String("lead_id", lead.ID.Hex()),
				slog.Any("error", delErr),
			)
		}
		return nil, fmt.Errorf("create notification for lead %s: %w", lead.ID.Hex(), err)
	}

	s.log.InfoContext(ctx, "lead created",
		slog.String("lead_id", lead.ID.Hex()),
		slog.Int("images", len(lead.ImageURLs)),
	)
	return lead, nil
}

// ListLeads returns every lead, newest first.
func (s *CustomerService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	leads, err := s.leads.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// ListCustomers returns every customer, most recently updated first.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}
