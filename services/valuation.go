package services

import (
	"fmt"
	"strings"

	"jibal-shipping/apperror"

	"github.com/shopspring/decimal"
)

// LineItem holds the numeric fields of one shipment item.
type LineItem struct {
	Quantity   int64
	Cost       int64
	BoxesCount int64
	UseBoxes   bool
}

// Total is the item's monetary contribution: boxes*cost when costing by boxes,
// quantity*cost otherwise. It is the only valuation rule in the codebase.
func (li LineItem) Total() int64 {
	if li.UseBoxes {
		return li.BoxesCount * li.Cost
	}
	return li.Quantity * li.Cost
}

// ParseLineItem reads raw stored values. Fractional values are truncated toward zero.
func ParseLineItem(quantity, cost, boxesCount string, useBoxes bool) (LineItem, error) {
	q, err := parseInteger("quantity", quantity)
	if err != nil {
		return LineItem{}, err
	}
	c, err := parseInteger("cost", cost)
	if err != nil {
		return LineItem{}, err
	}
	b, err := parseInteger("boxes_count", boxesCount)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{Quantity: q, Cost: c, BoxesCount: b, UseBoxes: useBoxes}, nil
}

func parseInteger(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.NewInvalidInput(fmt.Sprintf("%s is empty", field)).WithDetail("field", field)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, apperror.NewInvalidInput(fmt.Sprintf("%s is not a number: %q", field, raw)).
			WithDetail("field", field).
			WithCause(err)
	}
	return d.IntPart(), nil
}
