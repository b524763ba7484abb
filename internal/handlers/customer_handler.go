package handlers

import (
	"errors"
	"net/http"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerHandler serves the operator's lead and customer records.
type CustomerHandler struct {
	service *services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterCustomerRoutes registers the record routes on g (mounted at /customers).
func (h *CustomerHandler) RegisterCustomerRoutes(g *echo.Group) {
	g.GET("", h.ListRecords)
	g.POST("", h.CreateLead)
	g.PUT("", h.UpdateRecord)
	g.DELETE("", h.DeleteRecord)
}

// updateRecordRequest is the PUT body. Action selects a workflow; without
// one the remaining fields are a partial update of the record named by ID and Type.
type updateRecordRequest struct {
	Action      string `json:"action"`
	ID          string `json:"id"`
	Type        string `json:"type"`
	PotentialID string `json:"potentialId"`
	ActiveID    string `json:"activeId"`
	Date        string `json:"date"`
	Note        string `json:"note"`
	models.RecordPatch
}

type deleteRecordRequest struct {
	ID   string `json:"id" query:"id"`
	Type string `json:"type" query:"type"`
}

// ListRecords returns leads, customers, both, or the duplicate candidates of a lead.
func (h *CustomerHandler) ListRecords(c echo.Context) error {
	ctx := c.Request().Context()

	if leadID := c.QueryParam("checkDuplicates"); leadID != "" {
		id, err := primitive.ObjectIDFromHex(leadID)
		if err != nil {
			return c.JSON(http.StatusOK, []models.Customer{})
		}
		matches, err := h.service.FindDuplicates(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusOK, []models.Customer{})
		}
		if err != nil {
			return httpError(err, "Not found", "Failed to load customers")
		}
		return c.JSON(http.StatusOK, matches)
	}

	switch models.RecordKind(c.QueryParam("type")) {
	case models.KindLead:
		leads, err := h.service.ListLeads(ctx)
		if err != nil {
			return httpError(err, "Not found", "Failed to load customers")
		}
		return c.JSON(http.StatusOK, leads)
	case models.KindCustomer:
		customers, err := h.service.ListCustomers(ctx)
		if err != nil {
			return httpError(err, "Not found", "Failed to load customers")
		}
		return c.JSON(http.StatusOK, customers)
	}

	leads, err := h.service.ListLeads(ctx)
	if err != nil {
		return httpError(err, "Not found", "Failed to load customers")
	}
	customers, err := h.service.ListCustomers(ctx)
	if err != nil {
		return httpError(err, "Not found", "Failed to load customers")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"potential": leads,
		"active":    customers,
	})
}

// CreateLead adds a lead by hand.
func (h *CustomerHandler) CreateLead(c echo.Context) error {
	var req models.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return httpError(err, "Not found", "Failed to create customer")
	}

	lead, err := h.service.CreateLead(c.Request().Context(), &models.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Service: req.Service,
		Images:  req.Images,
		Notes:   req.Notes,
	})
	if err != nil {
		return httpError(err, "Not found", "Failed to create customer")
	}
	return c.JSON(http.StatusCreated, lead)
}

// UpdateRecord dispatches on the request's action.
func (h *CustomerHandler) UpdateRecord(c echo.Context) error {
	var req updateRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	ctx := c.Request().Context()

	switch req.Action {
	case "addService":
		id, err := parseObjectID(req.ID)
		if err != nil {
			return err
		}
		customer, err := h.service.AddServiceRecord(ctx, id, req.Date, req.Note)
		if err != nil {
			return httpError(err, "Customer not found", "Update failed")
		}
		return c.JSON(http.StatusOK, customer)

	case "merge":
		leadID, err := parseObjectID(req.PotentialID)
		if err != nil {
			return err
		}
		customerID, err := parseObjectID(req.ActiveID)
		if err != nil {
			return err
		}
		customer, err := h.service.MergeLead(ctx, leadID, customerID)
		if err != nil {
			return httpError(err, "Customer not found", "Update failed")
		}
		return c.JSON(http.StatusOK, customer)

	case "convert":
		id, err := parseObjectID(req.ID)
		if err != nil {
			return err
		}
		customer, err := h.service.ConvertLead(ctx, id)
		if err != nil {
			return httpError(err, "Customer not found", "Update failed")
		}
		return c.JSON(http.StatusOK, customer)
	}

	id, err := parseObjectID(req.ID)
	if err != nil {
		return err
	}
	kind, err := models.ParseRecordKind(req.Type)
	if err != nil {
		return httpError(err, "Not found", "Update failed")
	}
	record, err := h.service.UpdateRecord(ctx, kind, id, req.RecordPatch)
	if err != nil {
		return httpError(err, "Not found", "Update failed")
	}
	return c.JSON(http.StatusOK, record)
}

// DeleteRecord removes a lead or a customer.
func (h *CustomerHandler) DeleteRecord(c echo.Context) error {
	var req deleteRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	id, err := parseObjectID(req.ID)
	if err != nil {
		return err
	}
	kind, err := models.ParseRecordKind(req.Type)
	if err != nil {
		return httpError(err, "Not found", "Delete failed")
	}
	if err := h.service.DeleteRecord(c.Request().Context(), kind, id); err != nil {
		return httpError(err, "Not found", "Delete failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
