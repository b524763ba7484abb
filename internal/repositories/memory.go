package repositories

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/junkcaptain/crm/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps leads, customers and notifications in process memory.
// It backs local development without MongoDB and the package tests; data is
// lost on restart. Records are stored by value so callers never share state
// with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	leads         []models.Lead
	customers     []models.Customer
	notifications []models.Notification
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Leads returns the store's LeadRepository view.
func (s *MemoryStore) Leads() LeadRepository { return memoryLeads{s} }

// Customers returns the store's CustomerRepository view.
func (s *MemoryStore) Customers() CustomerRepository { return memoryCustomers{s} }

// Notifications returns the store's NotificationRepository view.
func (s *MemoryStore) Notifications() NotificationRepository { return memoryNotifications{s} }

// now is strictly increasing so list orderings are deterministic.
func (s *MemoryStore) now(last time.Time) time.Time {
	t := time.Now().UTC()
	if !t.After(last) {
		t = last.Add(time.Microsecond)
	}
	return t
}

func (s *MemoryStore) latest() time.Time {
	var t time.Time
	for _, l := range s.leads {
		if l.UpdatedAt.After(t) {
			t = l.UpdatedAt
		}
	}
	for _, c := range s.customers {
		if c.UpdatedAt.After(t) {
			t = c.UpdatedAt
		}
	}
	for _, n := range s.notifications {
		if n.CreatedAt.After(t) {
			t = n.CreatedAt
		}
	}
	return t
}

type memoryLeads struct{ s *MemoryStore }

func (m memoryLeads) CreateLead(_ context.Context, lead *models.Lead) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := m.s.now(m.s.latest())
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	m.s.leads = append(m.s.leads, cloneLead(*lead))
	return nil
}

func (m memoryLeads) GetLeadByID(_ context.Context, id primitive.ObjectID) (*models.Lead, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, l := range m.s.leads {
		if l.ID == id {
			out := cloneLead(l)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("lead %s: %w", id.Hex(), models.ErrNotFound)
}

func (m memoryLeads) ListLeads(_ context.Context) ([]models.Lead, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]models.Lead, 0, len(m.s.leads))
	for _, l := range m.s.leads {
		out = append(out, cloneLead(l))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memoryLeads) UpdateLead(_ context.Context, lead *models.Lead) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, l := range m.s.leads {
		if l.ID == lead.ID {
			lead.UpdatedAt = m.s.now(m.s.latest())
			m.s.leads[i] = cloneLead(*lead)
			return nil
		}
	}
	return fmt.Errorf("lead %s: %w", lead.ID.Hex(), models.ErrNotFound)
}

func (m memoryLeads) DeleteLead(_ context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, l := range m.s.leads {
		if l.ID == id {
			m.s.leads = append(m.s.leads[:i], m.s.leads[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("lead %s: %w", id.Hex(), models.ErrNotFound)
}

type memoryCustomers struct{ s *MemoryStore }

func (m memoryCustomers) CreateCustomer(_ context.Context, customer *models.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := m.s.now(m.s.latest())
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	m.s.customers = append(m.s.customers, cloneCustomer(*customer))
	return nil
}

func (m memoryCustomers) GetCustomerByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, c := range m.s.customers {
		if c.ID == id {
			out := cloneCustomer(c)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("customer %s: %w", id.Hex(), models.ErrNotFound)
}

func (m memoryCustomers) ListCustomers(_ context.Context) ([]models.Customer, error) {
	out := m.filter(func(models.Customer) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m memoryCustomers) UpdateCustomer(_ context.Context, customer *models.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, c := range m.s.customers {
		if c.ID == customer.ID {
			customer.UpdatedAt = m.s.now(m.s.latest())
			m.s.customers[i] = cloneCustomer(*customer)
			return nil
		}
	}
	return fmt.Errorf("customer %s: %w", customer.ID.Hex(), models.ErrNotFound)
}

func (m memoryCustomers) DeleteCustomer(_ context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, c := range m.s.customers {
		if c.ID == id {
			m.s.customers = append(m.s.customers[:i], m.s.customers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("customer %s: %w", id.Hex(), models.ErrNotFound)
}

func (m memoryCustomers) FindByEmailPattern(_ context.Context, pattern string) ([]models.Customer, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile email pattern: %w", err)
	}
	return m.filter(func(c models.Customer) bool { return re.MatchString(c.Email) }), nil
}

func (m memoryCustomers) FindByPhonePattern(_ context.Context, pattern string) ([]models.Customer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile phone pattern: %w", err)
	}
	return m.filter(func(c models.Customer) bool { return re.MatchString(c.Phone) }), nil
}

// filter walks customers in insertion order, which stands in for store order.
func (m memoryCustomers) filter(keep func(models.Customer) bool) []models.Customer {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := []models.Customer{}
	for _, c := range m.s.customers {
		if keep(c) {
			out = append(out, cloneCustomer(c))
		}
	}
	return out
}

type memoryNotifications struct{ s *MemoryStore }

func (m memoryNotifications) CreateNotification(_ context.Context, n *models.Notification) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = m.s.now(m.s.latest())
	m.s.notifications = append(m.s.notifications, *n)
	return nil
}

func (m memoryNotifications) ListNotifications(_ context.Context) ([]models.Notification, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := append([]models.Notification{}, m.s.notifications...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memoryNotifications) GetUnreadCount(_ context.Context) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var n int64
	for _, x := range m.s.notifications {
		if !x.Read {
			n++
		}
	}
	return n, nil
}

func (m memoryNotifications) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.notifications {
		if m.s.notifications[i].ID == id {
			m.s.notifications[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id.Hex(), models.ErrNotFound)
}

func (m memoryNotifications) MarkAllAsRead(_ context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for i := range m.s.notifications {
		if !m.s.notifications[i].Read {
			m.s.notifications[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m memoryNotifications) DeleteByLeadID(_ context.Context, leadID primitive.ObjectID) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.notifications[:0]
	var removed int64
	for _, n := range m.s.notifications {
		if n.LeadID == leadID {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	m.s.notifications = kept
	return removed, nil
}

func cloneLead(l models.Lead) models.Lead {
	l.ImageURLs = slices.Clone(l.ImageURLs)
	return l
}

func cloneCustomer(c models.Customer) models.Customer {
	c.ImageURLs = slices.Clone(c.ImageURLs)
	c.ServiceHistory = slices.Clone(c.ServiceHistory)
	return c
}
