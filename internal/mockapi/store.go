package mockapi

import (
	"errors"
	"slices"
	"sync"
	"time"

	"go.safehomi.dev/homeadmin/internal/entity"
)

var (
	errNotFound = errors.New("not found")
	errInUse    = errors.New("in use")
)

// store holds the records in insertion order. Inquiries keep only the id of
// their property; the rest is joined in on read.
type store struct {
	mu        sync.RWMutex
	listings  []entity.Listing
	inquiries []entity.Inquiry
}

func (s *store) seed(listings []entity.Listing, inquiries []entity.Inquiry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = slices.Clone(listings)
	s.inquiries = make([]entity.Inquiry, 0, len(inquiries))
	for _, q := range inquiries {
		q.Property = entity.Listing{ID: q.Property.ID}
		s.inquiries = append(s.inquiries, q)
	}
}

func (s *store) listingIndex(id string) int {
	return slices.IndexFunc(s.listings, func(l entity.Listing) bool { return l.ID == id })
}

func (s *store) inquiryIndex(id string) int {
	return slices.IndexFunc(s.inquiries, func(q entity.Inquiry) bool { return q.ID == id })
}

func (s *store) allListings() []entity.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.listings)
}

func (s *store) listing(id string) (entity.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.listingIndex(id)
	if i < 0 {
		return entity.Listing{}, errNotFound
	}
	return s.listings[i], nil
}

func (s *store) setListingStatus(id string, status bool, now func() time.Time) (entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.listingIndex(id)
	if i < 0 {
		return entity.Listing{}, errNotFound
	}
	s.listings[i].Status = status
	s.listings[i].UpdatedAt = now().UTC()
	return s.listings[i], nil
}

// deleteListing refuses while inquiries still reference the property.
func (s *store) deleteListing(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.listingIndex(id)
	if i < 0 {
		return errNotFound
	}
	if slices.ContainsFunc(s.inquiries, func(q entity.Inquiry) bool { return q.Property.ID == id }) {
		return errInUse
	}
	s.listings = slices.Delete(s.listings, i, i+1)
	return nil
}

func (s *store) joined(q entity.Inquiry) entity.Inquiry {
	if i := s.listingIndex(q.Property.ID); i >= 0 {
		q.Property = s.listings[i]
	}
	return q
}

func (s *store) allInquiries() []entity.Inquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Inquiry, 0, len(s.inquiries))
	for _, q := range s.inquiries {
		out = append(out, s.joined(q))
	}
	return out
}

func (s *store) inquiry(id string) (entity.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.inquiryIndex(id)
	if i < 0 {
		return entity.Inquiry{}, errNotFound
	}
	return s.joined(s.inquiries[i]), nil
}

func (s *store) setInquiryStatus(id string, status bool) (entity.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.inquiryIndex(id)
	if i < 0 {
		return entity.Inquiry{}, errNotFound
	}
	s.inquiries[i].Status = status
	return s.joined(s.inquiries[i]), nil
}

func (s *store) deleteInquiry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.inquiryIndex(id)
	if i < 0 {
		return errNotFound
	}
	s.inquiries = slices.Delete(s.inquiries, i, i+1)
	return nil
}
