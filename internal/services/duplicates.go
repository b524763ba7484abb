package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/junkcaptain/crm/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinPhoneDigits is the shortest phone number used for duplicate matching.
// Shorter numbers would match almost every stored phone.
const MinPhoneDigits = 7

var nonDigits = regexp.MustCompile(`\D`)

// PhoneDigits strips everything but digits from phone.
func PhoneDigits(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// EmailPattern matches exactly email; callers match it case-insensitively.
func EmailPattern(email string) string {
	return "^" + regexp.QuoteMeta(email) + "$"
}

// PhonePattern matches digits in order anywhere in a stored phone, allowing
// any non-digit separators between them: "9195551234" matches "(919) 555-1234".
func PhonePattern(digits string) string {
	return strings.Join(strings.Split(digits, ""), `\D*`)
}

// FindDuplicates returns the customers that probably are the same contact as
// the lead: email matches first, then phone matches, each customer once.
func (s *CustomerService) FindDuplicates(ctx context.Context, leadID primitive.ObjectID) ([]models.Customer, error) {
	lead, err := s.leads.GetLeadByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]struct{})
	matches := []models.Customer{}
	collect := func(found []models.Customer) {
		for _, c := range found {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			matches = append(matches, c)
		}
	}

	if email := models.NormalizeEmail(lead.Email); email != "" {
		byEmail, err := s.customers.FindByEmailPattern(ctx, EmailPattern(email))
		if err != nil {
			return nil, fmt.Errorf("match customers by email: %w", err)
		}
		collect(byEmail)
	}

	if digits := PhoneDigits(lead.Phone); len(digits) >= MinPhoneDigits {
		byPhone, err := s.customers.FindByPhonePattern(ctx, PhonePattern(digits))
		if err != nil {
			return nil, fmt.Errorf("match customers by phone: %w", err)
		}
		collect(byPhone)
	}

	return matches, nil
}
