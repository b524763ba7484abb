package models

import (
	"encoding/json"
	"errors"
)

// RecordKind discriminates the two contact representations.
type RecordKind string

const (
	KindLead     RecordKind = "potential"
	KindCustomer RecordKind = "active"
)

// ParseRecordKind validates a discriminator received from a client.
func ParseRecordKind(s string) (RecordKind, error) {
	switch RecordKind(s) {
	case KindLead, KindCustomer:
		return RecordKind(s), nil
	}
	return "", NewValidationError("type", "Invalid type")
}

// Record is either a Lead or a Customer, never both.
type Record struct {
	kind     RecordKind
	lead     *Lead
	customer *Customer
}

// LeadRecord wraps a lead.
func LeadRecord(l *Lead) Record { return Record{kind: KindLead, lead: l} }

// CustomerRecord wraps a customer.
func CustomerRecord(c *Customer) Record { return Record{kind: KindCustomer, customer: c} }

func (r Record) Kind() RecordKind { return r.kind }

func (r Record) Lead() (*Lead, bool) { return r.lead, r.kind == KindLead && r.lead != nil }

func (r Record) Customer() (*Customer, bool) {
	return r.customer, r.kind == KindCustomer && r.customer != nil
}

// MarshalJSON writes the wrapped record with its "type" discriminator.
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case KindLead:
		return json.Marshal(struct {
			Type RecordKind `json:"type"`
			*Lead
		}{r.kind, r.lead})
	case KindCustomer:
		return json.Marshal(struct {
			Type RecordKind `json:"type"`
			*Customer
		}{r.kind, r.customer})
	}
	return nil, errors.New("record: empty variant")
}

// RecordPatch lists the editable fields of a record; nil means unchanged.
// LastServiceDate and ServiceNote only apply to customers.
type RecordPatch struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Service         *string `json:"service"`
	Notes           *string `json:"notes"`
	LastServiceDate *string `json:"lastServiceDate"`
	ServiceNote     *string `json:"serviceNote"`
}

// ApplyToLead copies the set fields onto l.
func (p RecordPatch) ApplyToLead(l *Lead) {
	applyString(&l.Name, p.Name)
	applyString(&l.Email, p.Email)
	applyString(&l.Phone, p.Phone)
	applyString(&l.Address, p.Address)
	applyString(&l.Service, p.Service)
	applyString(&l.Notes, p.Notes)
}

// ApplyToCustomer copies the set fields onto c, rewriting the head of the
// service history when the last-service fields are edited directly.
func (p RecordPatch) ApplyToCustomer(c *Customer) {
	applyString(&c.Name, p.Name)
	applyString(&c.Email, p.Email)
	applyString(&c.Phone, p.Phone)
	applyString(&c.Address, p.Address)
	applyString(&c.Service, p.Service)
	applyString(&c.Notes, p.Notes)
	c.SetLastService(p.LastServiceDate, p.ServiceNote)
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
