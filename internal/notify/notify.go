// Package notify alerts the business owner about new leads over email and SMS.
// Delivery is best effort: callers log failures and carry on.
package notify

import (
	"context"
	"errors"
)

// NewLead is the content of a new-lead alert.
type NewLead struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	Message    string
	ImageCount int
	ImageURLs  []string
}

// Emitter delivers a new-lead alert over one channel.
type Emitter interface {
	NotifyNewLead(ctx context.Context, lead NewLead) error
}

// Multi fans an alert out to every emitter and joins their errors.
// One failing channel does not stop the others.
type Multi []Emitter

func (m Multi) NotifyNewLead(ctx context.Context, lead NewLead) error {
	var errs []error
	for _, e := range m {
		if err := e.NotifyNewLead(ctx, lead); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
