package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"jibal-shipping/apperror"
	"jibal-shipping/logger"
	"jibal-shipping/models"
	"jibal-shipping/repositories"

	"github.com/go-playground/validator"
	"gorm.io/gorm"
)

// maxInsertAttempts bounds how often a receipt collision on insert triggers a fresh
// allocation.
const maxInsertAttempts = 5

var deliveryDateLayouts = []string{
	calendarDateLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

type ShipmentItemInput struct {
	ShipmentTypeID uint   `json:"shipment_type_id" validate:"required"`
	DepartmentID   uint   `json:"department_id" validate:"required"`
	Quantity       *int64 `json:"quantity" validate:"required,min=0"`
	Cost           *int64 `json:"cost" validate:"required"`
	BoxesCount     *int64 `json:"boxes_count" validate:"required,min=0"`
	UseBoxes       bool   `json:"use_boxes"`
	Notes          string `json:"notes"`
}

// ShipmentInput is a create or edit submission. A blank ReceiptNumber asks for one to be
// allocated (on edit, the stored one is kept if present).
type ShipmentInput struct {
	ShopinyNumber     string              `json:"shopiny_number" validate:"required"`
	ReceiptNumber     string              `json:"receipt_number"`
	OrderNumber       string              `json:"order_number"`
	DeliveryDate      string              `json:"delivery_date" validate:"required"`
	FromGovernorateID uint                `json:"from_governorate_id" validate:"required"`
	ToGovernorateID   uint                `json:"to_governorate_id" validate:"required"`
	CarrierCompanyID  uint                `json:"carrier_company_id"`
	Notes             string              `json:"notes"`
	Items             []ShipmentItemInput `json:"items" validate:"required,min=1,dive"`
}

// ShipmentDetail is a shipment with its items valued by the current costing rule.
type ShipmentDetail struct {
	models.Shipment
	TotalSum int64 `json:"total_sum"`
}

type ShipmentSummary struct {
	repositories.ShipmentListRow
	TotalAmount int64 `json:"total_amount"`
}

type ShipmentService struct {
	db        *gorm.DB
	repo      *repositories.ShipmentRepository
	refs      *repositories.ReferenceRepository
	allocator *ReceiptAllocator
	validate  *validator.Validate
}

func NewShipmentService(db *gorm.DB) *ShipmentService {
	repo := repositories.NewShipmentRepository(db)
	return &ShipmentService{
		db:        db,
		repo:      repo,
		refs:      repositories.NewReferenceRepository(db),
		allocator: NewReceiptAllocator(repo),
		validate:  newValidator(),
	}
}

// Allocator exposes the receipt allocator bound to the same store.
func (s *ShipmentService) Allocator() *ReceiptAllocator {
	return s.allocator
}

func (s *ShipmentService) Create(ctx context.Context, input ShipmentInput, actor int) (*models.Shipment, error) {
	shipment, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.checkDuplicates(ctx, shipment, 0); err != nil {
		return nil, err
	}

	err = s.persist(ctx, shipment, shipment.ReceiptNumber == nil, func(tx *gorm.DB) error {
		resetForInsert(shipment)
		if err := s.repo.WithTx(tx).Create(ctx, shipment); err != nil {
			return err
		}
		return repositories.InsertTransactionHistory(tx, *shipment.ReceiptNumber, repositories.HistoryCreated,
			fmt.Sprintf("shipment %s created with %d items", shipment.ShopinyNumber, len(shipment.Items)), actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("shipment created", "id", shipment.ID, "shopiny_number", shipment.ShopinyNumber, "receipt_number", *shipment.ReceiptNumber)
	return shipment, nil
}

// Update replaces every scalar field and all items of shipment id.
func (s *ShipmentService) Update(ctx context.Context, id uint, input ShipmentInput, actor int) (*models.Shipment, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "shipment", id)
	}

	shipment, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	shipment.ID = id
	shipment.CreatedAt = existing.CreatedAt
	shipment.UpdatedAt = time.Now()
	if shipment.ReceiptNumber == nil {
		shipment.ReceiptNumber = existing.ReceiptNumber
	}
	if err := s.checkDuplicates(ctx, shipment, id); err != nil {
		return nil, err
	}

	err = s.persist(ctx, shipment, shipment.ReceiptNumber == nil, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateScalars(ctx, shipment); err != nil {
			return err
		}
		if err := repo.ReplaceItems(ctx, id, shipment.Items); err != nil {
			return err
		}
		return repositories.InsertTransactionHistory(tx, *shipment.ReceiptNumber, repositories.HistoryUpdated,
			fmt.Sprintf("shipment %s updated with %d items", shipment.ShopinyNumber, len(shipment.Items)), actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("shipment updated", "id", id, "shopiny_number", shipment.ShopinyNumber)
	return shipment, nil
}

func (s *ShipmentService) Delete(ctx context.Context, id uint, actor int) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "shipment", id)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		ref := existing.ShopinyNumber
		if existing.ReceiptNumber != nil {
			ref = *existing.ReceiptNumber
		}
		return repositories.InsertTransactionHistory(tx, ref, repositories.HistoryDeleted,
			fmt.Sprintf("shipment %s deleted", existing.ShopinyNumber), actor)
	})
	if err != nil {
		return notFoundOr(err, "shipment", id)
	}

	logger.Infow("shipment deleted", "id", id, "shopiny_number", existing.ShopinyNumber)
	return nil
}

func (s *ShipmentService) Get(ctx context.Context, id uint) (*ShipmentDetail, error) {
	shipment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "shipment", id)
	}

	detail := &ShipmentDetail{Shipment: *shipment}
	for i := range detail.Items {
		item := &detail.Items[i]
		item.Total = lineItemOf(*item).Total()
		detail.TotalSum += item.Total
	}
	return detail, nil
}

// List returns shipments newest first, each with its recomputed total.
func (s *ShipmentService) List(ctx context.Context, filter repositories.ShipmentListFilter) ([]ShipmentSummary, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	items, err := s.repo.ItemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	totals := make(map[uint]int64, len(rows))
	for _, item := range items {
		totals[item.ShipmentID] += lineItemOf(item).Total()
	}

	out := make([]ShipmentSummary, len(rows))
	for i, row := range rows {
		out[i] = ShipmentSummary{ShipmentListRow: row, TotalAmount: totals[row.ID]}
	}
	return out, nil
}

// persist runs write in a transaction. With autoReceipt it allocates a receipt number
// first and, when the insert hits the unique index on it, allocates again.
func (s *ShipmentService) persist(ctx context.Context, shipment *models.Shipment, autoReceipt bool, write func(tx *gorm.DB) error) error {
	var region string
	if autoReceipt {
		gov, err := s.refs.Get(ctx, repositories.Governorates, shipment.FromGovernorateID)
		if err != nil {
			return notFoundOr(err, "governorate", shipment.FromGovernorateID)
		}
		region = gov.Name
	}

	for attempt := 1; ; attempt++ {
		if autoReceipt {
			code, err := s.allocator.AllocateFor(ctx, region, shipment.DeliveryDate)
			if err != nil {
				return err
			}
			shipment.ReceiptNumber = &code
		}

		err := s.db.WithContext(ctx).Transaction(write)
		if err == nil {
			return nil
		}
		if !isDuplicateKey(err) {
			return err
		}

		if taken, _ := s.repo.ShopinyTaken(ctx, shipment.ShopinyNumber, shipment.ID); taken {
			return apperror.NewDuplicateKey("shipment", "shopiny_number", shipment.ShopinyNumber)
		}
		if !autoReceipt || attempt >= maxInsertAttempts {
			return apperror.NewDuplicateKey("shipment", "receipt_number", *shipment.ReceiptNumber)
		}
		logger.Warnw("receipt number taken at insert, allocating again",
			"receipt_number", *shipment.ReceiptNumber, "attempt", attempt)
	}
}

// prepare validates input and builds the shipment it describes. Every problem is
// reported at once.
func (s *ShipmentService) prepare(ctx context.Context, input ShipmentInput) (*models.Shipment, error) {
	var fields []string
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, apperror.NewInvalidInput(err.Error())
		}
		for _, fe := range verrs {
			fields = append(fields, fieldPath(fe.Namespace()))
		}
	}

	deliveryDate, dateErr := ParseDeliveryDate(input.DeliveryDate)
	if dateErr != nil && strings.TrimSpace(input.DeliveryDate) != "" {
		fields = append(fields, "delivery_date")
	}
	if len(fields) > 0 {
		return nil, apperror.NewMissingFields(fields)
	}

	missing, err := s.missingReferences(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperror.NewInvalidInput("unknown references").WithDetail("fields", missing)
	}

	shipment := &models.Shipment{
		ShopinyNumber:     strings.TrimSpace(input.ShopinyNumber),
		OrderNumber:       strings.TrimSpace(input.OrderNumber),
		DeliveryDate:      deliveryDate,
		FromGovernorateID: input.FromGovernorateID,
		ToGovernorateID:   input.ToGovernorateID,
		Notes:             input.Notes,
	}
	if receipt := strings.TrimSpace(input.ReceiptNumber); receipt != "" {
		shipment.ReceiptNumber = &receipt
	}
	if input.CarrierCompanyID != 0 {
		carrierID := input.CarrierCompanyID
		shipment.CarrierCompanyID = &carrierID
	}

	shipment.Items = make([]models.ShipmentItem, len(input.Items))
	for i, in := range input.Items {
		item := models.ShipmentItem{
			ShipmentTypeID: in.ShipmentTypeID,
			DepartmentID:   in.DepartmentID,
			Quantity:       *in.Quantity,
			Cost:           *in.Cost,
			BoxesCount:     *in.BoxesCount,
			UseBoxes:       in.UseBoxes,
			Notes:          in.Notes,
		}
		item.Total = lineItemOf(item).Total()
		shipment.Items[i] = item
	}
	return shipment, nil
}

func (s *ShipmentService) missingReferences(ctx context.Context, input ShipmentInput) ([]string, error) {
	var fields []string
	check := func(kind repositories.ReferenceKind, ids []uint, field func(i int) string) error {
		missing, err := s.refs.MissingIDs(ctx, kind, ids)
		if err != nil {
			return err
		}
		gone := make(map[uint]bool, len(missing))
		for _, id := range missing {
			gone[id] = true
		}
		for i, id := range ids {
			if gone[id] {
				fields = append(fields, field(i))
			}
		}
		return nil
	}

	govs := []uint{input.FromGovernorateID, input.ToGovernorateID}
	if err := check(repositories.Governorates, govs, func(i int) string {
		return []string{"from_governorate_id", "to_governorate_id"}[i]
	}); err != nil {
		return nil, err
	}
	if input.CarrierCompanyID != 0 {
		if err := check(repositories.CarrierCompanies, []uint{input.CarrierCompanyID}, func(int) string {
			return "carrier_company_id"
		}); err != nil {
			return nil, err
		}
	}

	typeIDs := make([]uint, len(input.Items))
	deptIDs := make([]uint, len(input.Items))
	for i, item := range input.Items {
		typeIDs[i] = item.ShipmentTypeID
		deptIDs[i] = item.DepartmentID
	}
	if err := check(repositories.ShipmentTypes, typeIDs, func(i int) string {
		return fmt.Sprintf("items[%d].shipment_type_id", i)
	}); err != nil {
		return nil, err
	}
	if err := check(repositories.Departments, deptIDs, func(i int) string {
		return fmt.Sprintf("items[%d].department_id", i)
	}); err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *ShipmentService) checkDuplicates(ctx context.Context, shipment *models.Shipment, excludeID uint) error {
	taken, err := s.repo.ShopinyTaken(ctx, shipment.ShopinyNumber, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicateKey("shipment", "shopiny_number", shipment.ShopinyNumber)
	}
	if shipment.ReceiptNumber == nil {
		return nil
	}
	taken, err = s.repo.ReceiptTaken(ctx, *shipment.ReceiptNumber, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicateKey("shipment", "receipt_number", *shipment.ReceiptNumber)
	}
	return nil
}

// ParseDeliveryDate accepts a calendar date or a date-time. The wall clock as submitted is
// kept and stored as UTC, so an offset never moves the delivery to another day.
func ParseDeliveryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range deliveryDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			year, month, day := t.Date()
			hour, minute, sec := t.Clock()
			return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), time.UTC), nil
		}
	}
	return time.Time{}, apperror.NewInvalidInput(fmt.Sprintf("delivery_date %q is not a date", raw)).
		WithDetail("field", "delivery_date")
}

func lineItemOf(item models.ShipmentItem) LineItem {
	return LineItem{Quantity: item.Quantity, Cost: item.Cost, BoxesCount: item.BoxesCount, UseBoxes: item.UseBoxes}
}

// resetForInsert clears ids a rolled-back attempt may have assigned.
func resetForInsert(shipment *models.Shipment) {
	shipment.ID = 0
	for i := range shipment.Items {
		shipment.Items[i].ID = 0
		shipment.Items[i].ShipmentID = 0
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound(entity, id)
	}
	return err
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
