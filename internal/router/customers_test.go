package router

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *testServer) seedCustomer(t *testing.T, c models.Customer) *models.Customer {
	t.Helper()
	c.Normalize()
	require.NoError(t, s.store.Customers().CreateCustomer(context.Background(), &c))
	return &c
}

func (s *testServer) submitQuote(t *testing.T, fields map[string]string) string {
	t.Helper()
	rec := s.do(t, quoteRequest(t, fields))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		ID string `json:"id"`
	}
	decode(t, rec, &resp)
	return resp.ID
}

func today() string { return time.Now().UTC().Format(models.DateLayout) }

func TestListRecords(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	leadID := s.submitQuote(t, validQuoteFields())
	s.seedCustomer(t, models.Customer{Name: "Existing"})

	rec := s.doJSON(t, http.MethodGet, "/api/customers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var both struct {
		Potential []apiLead     `json:"potential"`
		Active    []apiCustomer `json:"active"`
	}
	decode(t, rec, &both)
	require.Len(t, both.Potential, 1)
	assert.Equal(t, leadID, both.Potential[0].ID)
	require.Len(t, both.Active, 1)
	assert.Equal(t, "Existing", both.Active[0].Name)

	rec = s.doJSON(t, http.MethodGet, "/api/customers?type=potential", token, nil)
	var leads []apiLead
	decode(t, rec, &leads)
	assert.Len(t, leads, 1)

	rec = s.doJSON(t, http.MethodGet, "/api/customers?type=active", token, nil)
	var customers []apiCustomer
	decode(t, rec, &customers)
	assert.Len(t, customers, 1)
}

func TestCreateLeadByHand(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.doJSON(t, http.MethodPost, "/api/customers", token, map[string]any{
		"name": "Walk-in", "email": "WALK@in.test", "notes": "called the office",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var lead apiLead
	decode(t, rec, &lead)
	assert.Equal(t, "walk@in.test", lead.Email)
	assert.Equal(t, models.DefaultService, lead.Service)
	assert.NotNil(t, lead.ImageURLs)

	rec = s.doJSON(t, http.MethodGet, "/api/notifications/unread-count", token, nil)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = s.doJSON(t, http.MethodPost, "/api/customers", token, map[string]any{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email must be a valid email address", errorMessage(t, rec))
}

func TestCheckDuplicates(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	byEmail := s.seedCustomer(t, models.Customer{Name: "By Email", Email: "DANA@example.com"})
	byPhone := s.seedCustomer(t, models.Customer{Name: "By Phone", Phone: "919.555.1234"})
	s.seedCustomer(t, models.Customer{Name: "Unrelated", Email: "x@y.test", Phone: "111-2222"})
	leadID := s.submitQuote(t, validQuoteFields())

	rec := s.doJSON(t, http.MethodGet, "/api/customers?checkDuplicates="+leadID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var matches []apiCustomer
	decode(t, rec, &matches)
	require.Len(t, matches, 2)
	assert.Equal(t, byEmail.ID.Hex(), matches[0].ID)
	assert.Equal(t, byPhone.ID.Hex(), matches[1].ID)

	for _, id := range []string{primitive.NewObjectID().Hex(), "garbage"} {
		rec = s.doJSON(t, http.MethodGet, "/api/customers?checkDuplicates="+id, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	}
}

func TestConvertLead(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	leadID := s.submitQuote(t, validQuoteFields())

	rec := s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{"action": "convert", "id": leadID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var customer apiCustomer
	decode(t, rec, &customer)
	assert.NotEqual(t, leadID, customer.ID)
	assert.Equal(t, "Dana Reyes", customer.Name)
	assert.Equal(t, "Old couch and a fridge", customer.Notes)
	assert.Equal(t, []models.ServiceRecord{{Date: today(), Note: "Converted from potential customer"}}, customer.ServiceHistory)

	rec = s.doJSON(t, http.MethodGet, "/api/customers?type=potential", token, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
	rec = s.doJSON(t, http.MethodGet, "/api/notifications", token, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{"action": "convert", "id": leadID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Customer not found", errorMessage(t, rec))
}

func TestMergeLead(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	existing := s.seedCustomer(t, models.Customer{Name: "Dana", Notes: "Dog in yard"})
	leadID := s.submitQuote(t, validQuoteFields())

	rec := s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{
		"action": "merge", "potentialId": leadID, "activeId": existing.ID.Hex(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var customer apiCustomer
	decode(t, rec, &customer)
	assert.Equal(t, existing.ID.Hex(), customer.ID)
	assert.Equal(t, "Dog in yard"+models.NotesDivider+"Old couch and a fridge", customer.Notes)
	require.Len(t, customer.ServiceHistory, 1)
	assert.Equal(t, "Merged from lead request: Old couch and a fridge", customer.ServiceNote)
	assert.Equal(t, today(), customer.LastServiceDate)

	rec = s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{
		"action": "merge", "potentialId": leadID, "activeId": existing.ID.Hex(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddServiceAndEdit(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	c := s.seedCustomer(t, models.Customer{Name: "Dana"})

	rec := s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{
		"action": "addService", "id": c.ID.Hex(), "date": " ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Service date is required", errorMessage(t, rec))

	rec = s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{
		"action": "addService", "id": c.ID.Hex(), "date": "2025-05-01", "note": "Garage",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{
		"id": c.ID.Hex(), "type": "active", "serviceNote": "Garage and shed", "phone": "555-0101",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated apiCustomer
	decode(t, rec, &updated)
	assert.Equal(t, "active", updated.Type)
	assert.Equal(t, []models.ServiceRecord{{Date: "2025-05-01", Note: "Garage and shed"}}, updated.ServiceHistory)

	rec = s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{"id": c.ID.Hex(), "type": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid type", errorMessage(t, rec))

	rec = s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{"id": "nope", "type": "active"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID", errorMessage(t, rec))

	rec = s.doJSON(t, http.MethodPut, "/api/customers", token, map[string]string{"id": c.ID.Hex(), "type": "potential", "name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", errorMessage(t, rec))
}

func TestDeleteRecords(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	keep := s.submitQuote(t, validQuoteFields())
	drop := s.submitQuote(t, validQuoteFields())
	c := s.seedCustomer(t, models.Customer{Name: "Gone"})

	rec := s.doJSON(t, http.MethodDelete, "/api/customers", token, map[string]string{"id": drop, "type": "potential"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	var notifications []models.Notification
	decode(t, s.doJSON(t, http.MethodGet, "/api/notifications", token, nil), &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, keep, notifications[0].LeadID.Hex())

	rec = s.doJSON(t, http.MethodDelete, "/api/customers", token, map[string]string{"id": c.ID.Hex(), "type": "active"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.doJSON(t, http.MethodDelete, "/api/customers", token, map[string]string{"id": c.ID.Hex(), "type": "active"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.doJSON(t, http.MethodDelete, "/api/customers", token, map[string]string{"id": "bad", "type": "active"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotifications(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	s.submitQuote(t, validQuoteFields())
	s.submitQuote(t, validQuoteFields())

	var notifications []models.Notification
	decode(t, s.doJSON(t, http.MethodGet, "/api/notifications", token, nil), &notifications)
	require.Len(t, notifications, 2)
	assert.True(t, !notifications[0].CreatedAt.Before(notifications[1].CreatedAt), "newest first")
	assert.Equal(t, models.NotificationNewQuote, notifications[0].Type)

	rec := s.doJSON(t, http.MethodPut, "/api/notifications/read", token, map[string]string{"id": notifications[0].ID.Hex()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.JSONEq(t, `{"count":1}`, s.doJSON(t, http.MethodGet, "/api/notifications/unread-count", token, nil).Body.String())

	rec = s.doJSON(t, http.MethodPut, "/api/notifications/read", token, map[string]string{"id": primitive.NewObjectID().Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.doJSON(t, http.MethodPut, "/api/notifications/read", token, map[string]string{"id": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.doJSON(t, http.MethodPut, "/api/notifications/read-all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"updated":1}`, rec.Body.String())
	assert.JSONEq(t, `{"count":0}`, s.doJSON(t, http.MethodGet, "/api/notifications/unread-count", token, nil).Body.String())
}
