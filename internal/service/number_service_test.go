package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumberService_QuotationID(t *testing.T) {
	svc := NewNumberService()
	svc.nowFunc = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	id := svc.QuotationID()
	assert.Regexp(t, regexp.MustCompile(`^COT-1788091200000-\d{4}$`), id)
}

func TestNumberService_OrderID(t *testing.T) {
	svc := NewNumberService()
	svc.nowFunc = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	id := svc.OrderID()
	assert.Regexp(t, regexp.MustCompile(`^ORD-20260830-\d{4}$`), id)
}

func TestNumberService_SuffixVaries(t *testing.T) {
	svc := NewNumberService()
	svc.nowFunc = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[svc.OrderID()] = true
	}
	// Random suffixes make repeats within the same day prefix unlikely.
	assert.Greater(t, len(seen), 1)
}
