package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/junkcaptain/crm/backend/internal/imagestore"
	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// QuoteThankYou is returned to the visitor after a successful submission.
const QuoteThankYou = "Thank you! We'll be in touch soon with your free quote."

// QuoteHandler accepts public quote requests.
type QuoteHandler struct {
	service *services.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(service *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

type quoteRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Address string `json:"address" form:"address"`
	Message string `json:"message" form:"message"`
}

// SubmitQuote handles a multipart quote form with up to four "images" parts.
// Plain form and JSON bodies are accepted without images.
func (h *QuoteHandler) SubmitQuote(c echo.Context) error {
	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	images, err := readImages(c)
	if err != nil {
		return err
	}

	lead, err := h.service.Submit(c.Request().Context(), services.QuoteSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Message: req.Message,
		Images:  images,
	})
	if err != nil {
		return httpError(err, "Not found", "Something went wrong. Please try again or call us.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": QuoteThankYou,
		"id":      lead.ID.Hex(),
	})
}

// readImages loads the "images" parts, rejecting oversize or non-image files
// before any of them is read into memory.
func readImages(c echo.Context) ([]imagestore.Image, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}

	files := form.File["images"]
	if len(files) > models.MaxLeadImages {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Maximum 4 images allowed")
	}

	images := make([]imagestore.Image, 0, len(files))
	for _, fh := range files {
		if fh.Size > services.MaxImageBytes {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Each image must be under 5MB")
		}
		contentType := fh.Header.Get(echo.HeaderContentType)
		if !strings.HasPrefix(contentType, "image/") {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Only image files are allowed")
		}
		data, err := readPart(fh)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data").SetInternal(err)
		}
		images = append(images, imagestore.Image{
			Filename:    fh.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}
	return images, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
