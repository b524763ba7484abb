package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/junkcaptain/crm/backend/internal/imagestore"
	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/notify"
)

// MaxImageBytes is the upload limit for a single quote photo.
const MaxImageBytes = 5 << 20

const notifyTimeout = 15 * time.Second

// QuoteSubmission is a public quote request before it becomes a lead.
type QuoteSubmission struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Message string
	Images  []imagestore.Image
}

// Validate checks the request before anything is uploaded or stored.
func (q *QuoteSubmission) Validate() error {
	if strings.TrimSpace(q.Name) == "" || strings.TrimSpace(q.Email) == "" ||
		strings.TrimSpace(q.Phone) == "" || strings.TrimSpace(q.Address) == "" {
		return models.NewValidationError("name", "Name, email, phone, and address are required")
	}
	if len(q.Images) > models.MaxLeadImages {
		return models.NewValidationError("images", "Maximum 4 images allowed")
	}
	for _, img := range q.Images {
		if !strings.HasPrefix(img.ContentType, "image/") {
			return models.NewValidationError("images", "Only image files are allowed")
		}
		if len(img.Data) > MaxImageBytes {
			return models.NewValidationError("images", "Each image must be under 5MB")
		}
	}
	return nil
}

// QuoteService turns public quote requests into leads.
type QuoteService struct {
	crm     *CustomerService
	images  imagestore.Store
	emitter notify.Emitter
	log     *slog.Logger
}

// NewQuoteService creates a QuoteService. images may be nil when no object
// storage is configured; photos are then dropped.
func NewQuoteService(log *slog.Logger, crm *CustomerService, images imagestore.Store, emitter notify.Emitter) *QuoteService {
	if emitter == nil {
		emitter = notify.Multi(nil)
	}
	return &QuoteService{
		crm:     crm,
		images:  images,
		emitter: emitter,
		log:     log.With("service", "quotes"),
	}
}

// Submit uploads the photos, stores the lead with its notification and
// alerts the owner. Upload and alert failures never fail the submission.
func (s *QuoteService) Submit(ctx context.Context, q QuoteSubmission) (*models.Lead, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	urls := imagestore.UploadEach(ctx, s.images, s.log, q.Images)

	lead, err := s.crm.CreateLead(ctx, &models.Lead{
		Name:      q.Name,
		Email:     q.Email,
		Phone:     q.Phone,
		Address:   q.Address,
		Service:   models.DefaultService,
		Images:    len(urls),
		ImageURLs: urls,
		Notes:     strings.TrimSpace(q.Message),
	})
	if err != nil {
		return nil, err
	}

	// The request may be cancelled once the lead is saved; the alert still goes out.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	alert := notify.NewLead{
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Address:    lead.Address,
		Message:    lead.Notes,
		ImageCount: lead.Images,
		ImageURLs:  lead.ImageURLs,
	}
	if err := s.emitter.NotifyNewLead(notifyCtx, alert); err != nil {
		s.log.WarnContext(ctx, "new lead alert failed",
			slog.String("lead_id", lead.ID.Hex()),
			slog.Any("error", err),
		)
	}
	return lead, nil
}
