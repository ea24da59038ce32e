package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jibal-shipping/apperror"
	"jibal-shipping/logger"
)

const (
	receiptSerialWidth = 4
	maxReceiptProbes   = 1000
	calendarDateLayout = "2006-01-02"
)

// ReceiptStore is the read side the allocator needs.
type ReceiptStore interface {
	LastReceiptInScope(ctx context.Context, region string, from, to time.Time) (string, error)
	ReceiptExists(ctx context.Context, code string) (bool, error)
}

// ReceiptAllocator issues receipt numbers of the form <region><YY><MM><NNNN>, counting per
// region and calendar month. It never writes; the caller inserts the code and the store's
// unique index has the final word.
type ReceiptAllocator struct {
	store ReceiptStore
}

func NewReceiptAllocator(store ReceiptStore) *ReceiptAllocator {
	return &ReceiptAllocator{store: store}
}

// Allocate validates raw request values and returns the next free code.
func (a *ReceiptAllocator) Allocate(ctx context.Context, region, deliveryDate string) (string, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return "", apperror.NewInvalidInput("governorate is required").WithDetail("field", "governorate")
	}
	date, err := ParseCalendarDate(deliveryDate)
	if err != nil {
		return "", err
	}
	return a.AllocateFor(ctx, region, date)
}

// AllocateFor returns the first unused code after the last one issued in the scope of
// region and date's month. When maxReceiptProbes candidates are all taken it returns the
// last candidate along with an AllocationExhausted error.
func (a *ReceiptAllocator) AllocateFor(ctx context.Context, region string, date time.Time) (string, error) {
	scopeStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	scopeEnd := scopeStart.AddDate(0, 1, 0)
	prefix := region + date.Format("06") + date.Format("01")

	last, err := a.store.LastReceiptInScope(ctx, region, scopeStart, scopeEnd)
	if err != nil {
		return "", fmt.Errorf("read last receipt for %s: %w", prefix, err)
	}
	next := lastSerial(last) + 1

	var code string
	for attempt := 0; attempt < maxReceiptProbes; attempt++ {
		code = composeReceipt(prefix, next+attempt)
		exists, err := a.store.ReceiptExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("probe receipt %s: %w", code, err)
		}
		if !exists {
			return code, nil
		}
	}

	logger.Warnw("receipt allocation exhausted", "scope", prefix, "last_candidate", code)
	return code, apperror.NewAllocationExhausted(prefix, maxReceiptProbes)
}

// ParseCalendarDate parses a YYYY-MM-DD date in UTC.
func ParseCalendarDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperror.NewInvalidInput("delivery_date is required").WithDetail("field", "delivery_date")
	}
	date, err := time.ParseInLocation(calendarDateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, apperror.NewInvalidInput(fmt.Sprintf("delivery_date %q is not a calendar date", raw)).
			WithDetail("field", "delivery_date").
			WithCause(err)
	}
	return date, nil
}

// lastSerial reads the trailing serial digits of a receipt. Anything unparseable is 0.
func lastSerial(receipt string) int {
	if receipt == "" {
		return 0
	}
	tail := receipt
	if len(tail) > receiptSerialWidth {
		tail = tail[len(tail)-receiptSerialWidth:]
	}
	n, err := strconv.Atoi(tail)
	if err != nil {
		return 0
	}
	return n
}

func composeReceipt(prefix string, serial int) string {
	return fmt.Sprintf("%s%0*d", prefix, receiptSerialWidth, serial)
}
