package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stores struct {
	leads         LeadRepository
	customers     CustomerRepository
	notifications NotificationRepository
}

// tick separates writes so millisecond timestamps order them.
func tick() { time.Sleep(2 * time.Millisecond) }

// runStoreTests exercises behaviour every backing store must share.
func runStoreTests(t *testing.T, newStores func(t *testing.T) stores) {
	t.Run("LeadLifecycle", func(t *testing.T) {
		s := newStores(t)
		ctx := context.Background()

		first := &models.Lead{Name: "First", Service: models.DefaultService, ImageURLs: []string{}}
		second := &models.Lead{Name: "Second", Service: models.DefaultService, ImageURLs: []string{"https://img/1.jpg"}}
		require.NoError(t, s.leads.CreateLead(ctx, first))
		tick()
		require.NoError(t, s.leads.CreateLead(ctx, second))
		assert.False(t, first.ID.IsZero())
		assert.False(t, first.CreatedAt.IsZero())

		leads, err := s.leads.ListLeads(ctx)
		require.NoError(t, err)
		require.Len(t, leads, 2)
		assert.Equal(t, "Second", leads[0].Name, "newest first")

		first.Notes = "call after 5"
		require.NoError(t, s.leads.UpdateLead(ctx, first))
		got, err := s.leads.GetLeadByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "call after 5", got.Notes)
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

		require.NoError(t, s.leads.DeleteLead(ctx, first.ID))
		_, err = s.leads.GetLeadByID(ctx, first.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.ErrorIs(t, s.leads.DeleteLead(ctx, first.ID), models.ErrNotFound)
		assert.ErrorIs(t, s.leads.UpdateLead(ctx, first), models.ErrNotFound)
	})

	t.Run("CustomersOrderedByUpdate", func(t *testing.T) {
		s := newStores(t)
		ctx := context.Background()

		a := &models.Customer{Name: "A", ServiceHistory: []models.ServiceRecord{}, ImageURLs: []string{}}
		b := &models.Customer{Name: "B", ServiceHistory: []models.ServiceRecord{}, ImageURLs: []string{}}
		require.NoError(t, s.customers.CreateCustomer(ctx, a))
		require.NoError(t, s.customers.CreateCustomer(ctx, b))
		tick()

		a.AddServiceRecord(models.ServiceRecord{Date: "2025-03-01", Note: "garage"})
		require.NoError(t, s.customers.UpdateCustomer(ctx, a))

		list, err := s.customers.ListCustomers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "A", list[0].Name, "most recently updated first")
		assert.Equal(t, []models.ServiceRecord{{Date: "2025-03-01", Note: "garage"}}, list[0].ServiceHistory)

		require.NoError(t, s.customers.DeleteCustomer(ctx, b.ID))
		_, err = s.customers.GetCustomerByID(ctx, b.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("PatternLookups", func(t *testing.T) {
		s := newStores(t)
		ctx := context.Background()

		for _, c := range []*models.Customer{
			{Name: "Dana", Email: "dana@example.com", Phone: "(555) 123-4567"},
			{Name: "Eli", Email: "eli@example.com", Phone: "555.987.6543"},
		} {
			require.NoError(t, s.customers.CreateCustomer(ctx, c))
		}

		got, err := s.customers.FindByEmailPattern(ctx, "^"+regexp.QuoteMeta("DANA@example.com")+"$")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dana", got[0].Name)

		got, err = s.customers.FindByEmailPattern(ctx, "^"+regexp.QuoteMeta("ana@example.com")+"$")
		require.NoError(t, err)
		assert.Empty(t, got, "anchored pattern must not match a suffix")

		got, err = s.customers.FindByPhonePattern(ctx, `5\D*5\D*5\D*1\D*2\D*3\D*4\D*5\D*6\D*7`)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dana", got[0].Name)
	})

	t.Run("Notifications", func(t *testing.T) {
		s := newStores(t)
		ctx := context.Background()

		leadA, leadB := primitive.NewObjectID(), primitive.NewObjectID()
		for _, id := range []primitive.ObjectID{leadA, leadA, leadB} {
			tick()
			require.NoError(t, s.notifications.CreateNotification(ctx, &models.Notification{
				LeadID: id, Type: models.NotificationNewQuote,
			}))
		}

		count, err := s.notifications.GetUnreadCount(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)

		list, err := s.notifications.ListNotifications(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, leadB, list[0].LeadID, "newest first")

		require.NoError(t, s.notifications.MarkAsRead(ctx, list[0].ID))
		assert.ErrorIs(t, s.notifications.MarkAsRead(ctx, primitive.NewObjectID()), models.ErrNotFound)

		updated, err := s.notifications.MarkAllAsRead(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, updated)

		removed, err := s.notifications.DeleteByLeadID(ctx, leadA)
		require.NoError(t, err)
		assert.EqualValues(t, 2, removed)

		list, err = s.notifications.ListNotifications(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].Read)
	})
}
