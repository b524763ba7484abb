package services

import (
	"context"
	"testing"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestConvertLead(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	lead, err := svc.CreateLead(ctx, &models.Lead{
		Name:      "Dana",
		Email:     "dana@example.com",
		Phone:     "919-555-1234",
		Address:   "1 Main St",
		Service:   "Garage cleanout",
		Images:    2,
		ImageURLs: []string{"https://img/1", "https://img/2"},
		Notes:     "Old couch",
	})
	require.NoError(t, err)

	customer, err := svc.ConvertLead(ctx, lead.ID)
	require.NoError(t, err)

	assert.NotEqual(t, lead.ID, customer.ID)
	assert.Equal(t, "Dana", customer.Name)
	assert.Equal(t, "Garage cleanout", customer.Service)
	assert.Equal(t, 2, customer.Images)
	assert.Equal(t, lead.ImageURLs, customer.ImageURLs)
	assert.Equal(t, "Old couch", customer.Notes)
	assert.Equal(t, []models.ServiceRecord{{Date: "2025-03-14", Note: ConvertedNote}}, customer.ServiceHistory)
	assert.Equal(t, "2025-03-14", customer.LastServiceDate)
	assert.Equal(t, ConvertedNote, customer.ServiceNote)

	_, err = store.Leads().GetLeadByID(ctx, lead.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	notifications, err := store.Notifications().ListNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, notifications)

	stored, err := store.Customers().GetCustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ServiceHistory, stored.ServiceHistory)
}

func TestConvertLead_UnknownLead(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.ConvertLead(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, models.ErrNotFound)

	customers, err := store.Customers().ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestMergeLead(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	customer := seedCustomer(t, store, models.Customer{
		Name:  "Dana",
		Notes: "Gate code 1234",
	})
	customer.AddServiceRecord(models.ServiceRecord{Date: "2024-11-02", Note: "Basement"})
	require.NoError(t, store.Customers().UpdateCustomer(ctx, customer))

	lead, err := svc.CreateLead(ctx, &models.Lead{Name: "Dana", Notes: "Yard waste"})
	require.NoError(t, err)

	merged, err := svc.MergeLead(ctx, lead.ID, customer.ID)
	require.NoError(t, err)

	require.Len(t, merged.ServiceHistory, 2)
	assert.Equal(t, models.ServiceRecord{Date: "2025-03-14", Note: "Merged from lead request: Yard waste"}, merged.ServiceHistory[0])
	assert.Equal(t, models.ServiceRecord{Date: "2024-11-02", Note: "Basement"}, merged.ServiceHistory[1])
	assert.Equal(t, "2025-03-14", merged.LastServiceDate)
	assert.Equal(t, merged.ServiceHistory[0].Note, merged.ServiceNote)
	assert.Equal(t, "Gate code 1234"+models.NotesDivider+"Yard waste", merged.Notes)

	_, err = store.Leads().GetLeadByID(ctx, lead.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	unread, err := store.Notifications().GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestMergeLead_WithoutNotes(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	customer := seedCustomer(t, store, models.Customer{Name: "Dana", Notes: "Keep"})
	lead := seedLead(t, store, models.Lead{Name: "Dana", Notes: "   "})

	merged, err := svc.MergeLead(ctx, lead.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Merged from lead request: No notes", merged.ServiceNote)
	assert.Equal(t, "Keep", merged.Notes)
}

func TestMergeLead_UnknownCustomerKeepsLead(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, store, models.Lead{Name: "Dana"})

	_, err := svc.MergeLead(ctx, lead.ID, primitive.NewObjectID())
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = store.Leads().GetLeadByID(ctx, lead.ID)
	assert.NoError(t, err)
}

func TestMergeNote(t *testing.T) {
	assert.Equal(t, "Merged from lead request: No notes", MergeNote(""))
	assert.Equal(t, "Merged from lead request: tires", MergeNote("  tires "))
}
