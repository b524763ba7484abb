package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/repositories"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 22, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*CustomerService, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	svc := NewCustomerService(discardLogger(), store.Leads(), store.Customers(), store.Notifications())
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func seedLead(t *testing.T, store *repositories.MemoryStore, lead models.Lead) *models.Lead {
	t.Helper()
	lead.Normalize()
	require.NoError(t, store.Leads().CreateLead(context.Background(), &lead))
	return &lead
}

func seedCustomer(t *testing.T, store *repositories.MemoryStore, customer models.Customer) *models.Customer {
	t.Helper()
	customer.Normalize()
	require.NoError(t, store.Customers().CreateCustomer(context.Background(), &customer))
	return &customer
}
