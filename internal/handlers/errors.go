package handlers

import (
	"errors"
	"net/http"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// httpError maps service errors onto HTTP errors. Unknown errors become a
// 500 carrying fallback; the cause is kept as the internal error for logging.
func httpError(err error, notFound, fallback string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, models.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
}

func parseObjectID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}
