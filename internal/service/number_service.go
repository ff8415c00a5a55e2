package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// NumberService generates the formatted record ids.
//
// Quotations: COT-{UNIX_MILLIS}-{RANDOM} e.g. "COT-1756512000000-4821"
// Orders:     ORD-{YYYYMMDD}-{RANDOM}    e.g. "ORD-20260830-0417"
//
// Quotation ids are unique by construction (millisecond timestamp plus a
// random suffix); order ids reuse the same day prefix, so callers must check
// the generated id against the persisted list and retry on collision.
type NumberService struct {
	nowFunc func() time.Time
	mu      sync.Mutex
	rand    *rand.Rand
}

// NewNumberService creates a new NumberService
func NewNumberService() *NumberService {
	return &NumberService{
		nowFunc: time.Now,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// QuotationID generates a quotation id from the current timestamp.
func (s *NumberService) QuotationID() string {
	now := s.nowFunc()
	s.mu.Lock()
	suffix := s.rand.Intn(10000)
	s.mu.Unlock()
	return fmt.Sprintf("COT-%d-%04d", now.UnixMilli(), suffix)
}

// OrderID generates an order id candidate for the current day. Uniqueness is
// the caller's responsibility.
func (s *NumberService) OrderID() string {
	now := s.nowFunc()
	s.mu.Lock()
	suffix := s.rand.Intn(10000)
	s.mu.Unlock()
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), suffix)
}
