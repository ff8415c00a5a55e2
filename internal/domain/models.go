package domain

import (
	"fmt"
	"time"
)

// Product is a catalog reference. It is owned by the catalog source (remote
// sheet, admin override list or the bundled fallback); the core only reads it.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	PriceUnit string  `json:"priceUnit"`
	Stock     int     `json:"stock"`
}

// LineItem is one priced product entry within a quotation or order.
// Subtotal is stored redundantly for display but is always recomputed from
// Quantity * UnitPrice before persisting; it must never go out of sync.
type LineItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// Recalculate rederives the subtotal from quantity and unit price.
func (li *LineItem) Recalculate() {
	li.Subtotal = float64(li.Quantity) * li.UnitPrice
}

// InstallationService is the optional per-meter labor charge attached to a
// quotation or order. At most one per record.
type InstallationService struct {
	LinearMeters  float64 `json:"linearMeters"`
	PricePerMeter float64 `json:"pricePerMeter"`
	Subtotal      float64 `json:"subtotal"`
}

// Recalculate rederives the subtotal from meters and price per meter.
func (is *InstallationService) Recalculate() {
	is.Subtotal = is.LinearMeters * is.PricePerMeter
}

// QuotationStatus represents the stored status of a quotation.
// "expired" is deliberately absent: expiry is derived from ValidUntil at read
// time and is never written to storage.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
)

// IsValid checks if the QuotationStatus is a storable enum value
func (qs QuotationStatus) IsValid() bool {
	switch qs {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted:
		return true
	}
	return false
}

// ProjectInfo is optional free-form project metadata embedded in a quotation,
// rendered as its own block in the PDF when present.
type ProjectInfo struct {
	Name         string  `json:"name,omitempty"`
	Location     string  `json:"location,omitempty"`
	LinearMeters float64 `json:"linearMeters,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// Quotation is a non-binding priced proposal with an expiry window.
// Once persisted it is immutable except for status changes; it is removed only
// by explicit deletion or expiry cleanup.
type Quotation struct {
	ID           string               `json:"id"`
	Date         time.Time            `json:"date"`
	ValidUntil   time.Time            `json:"validUntil"`
	Items        []LineItem           `json:"items"`
	Installation *InstallationService `json:"installation"`
	Project      *ProjectInfo         `json:"project,omitempty"`
	Subtotal     float64              `json:"subtotal"`
	Total        float64              `json:"total"`
	Status       QuotationStatus      `json:"status"`
	LastUpdated  *time.Time           `json:"lastUpdated,omitempty"`
}

// NewQuotation creates an empty in-memory quotation in draft status.
// It carries no id or dates until it is persisted.
func NewQuotation() *Quotation {
	return &Quotation{
		Items:  []LineItem{},
		Status: QuotationStatusDraft,
	}
}

// AddItem appends a line item for the given product and recomputes totals.
// Every mutating call leaves the quotation with consistent totals.
func (q *Quotation) AddItem(product Product, quantity int, unitPrice float64) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: fmt.Sprintf("la cantidad debe ser mayor a cero, se recibió %d", quantity)}
	}
	if unitPrice < 0 {
		return &ValidationError{Field: "unitPrice", Message: fmt.Sprintf("el precio unitario no puede ser negativo, se recibió %.2f", unitPrice)}
	}

	item := LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	item.Recalculate()
	q.Items = append(q.Items, item)
	q.RecalculateTotals()
	return nil
}

// AddInstallation sets or replaces the single installation slot and
// recomputes totals.
func (q *Quotation) AddInstallation(linearMeters, pricePerMeter float64) error {
	if linearMeters < 0 {
		return &ValidationError{Field: "linearMeters", Message: fmt.Sprintf("los metros lineales no pueden ser negativos, se recibió %.2f", linearMeters)}
	}
	if pricePerMeter < 0 {
		return &ValidationError{Field: "pricePerMeter", Message: fmt.Sprintf("el precio por metro no puede ser negativo, se recibió %.2f", pricePerMeter)}
	}

	installation := &InstallationService{
		LinearMeters:  linearMeters,
		PricePerMeter: pricePerMeter,
	}
	installation.Recalculate()
	q.Installation = installation
	q.RecalculateTotals()
	return nil
}

// RecalculateTotals rederives every line subtotal, the installation subtotal,
// and the quotation subtotal/total. There is no tax or discount layer, so
// total always equals subtotal.
func (q *Quotation) RecalculateTotals() {
	subtotal := 0.0
	for i := range q.Items {
		q.Items[i].Recalculate()
		subtotal += q.Items[i].Subtotal
	}
	if q.Installation != nil {
		q.Installation.Recalculate()
		subtotal += q.Installation.Subtotal
	}
	q.Subtotal = subtotal
	q.Total = subtotal
}

// IsExpired reports whether the quotation's validity window has passed at the
// given instant. Every call site that distinguishes valid from expired
// quotations must go through this method so the partition is derived
// identically everywhere.
func (q *Quotation) IsExpired(now time.Time) bool {
	return !q.ValidUntil.After(now)
}

// CloneItems returns a deep copy of the line items with recomputed subtotals.
func (q *Quotation) CloneItems() []LineItem {
	items := make([]LineItem, len(q.Items))
	copy(items, q.Items)
	for i := range items {
		items[i].Recalculate()
	}
	return items
}

// CloneInstallation returns a deep copy of the installation slot, or nil.
func (q *Quotation) CloneInstallation() *InstallationService {
	if q.Installation == nil {
		return nil
	}
	clone := *q.Installation
	clone.Recalculate()
	return &clone
}

// Customer is the validated subset of submitted customer fields, embedded in
// an order. Which fields are required is configuration, not code.
type Customer struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address,omitempty"`
	InstallationDate string `json:"installationDate,omitempty"`
	PaymentMethod    string `json:"paymentMethod,omitempty"`
}

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses is the configured option list for order statuses, in display
// order. UpdateStatus accepts exactly this set.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid checks if the OrderStatus is a configured enum value
func (os OrderStatus) IsValid() bool {
	for _, s := range OrderStatuses {
		if s == os {
			return true
		}
	}
	return false
}

// StatusChange is one entry in an order's append-only audit trail.
type StatusChange struct {
	Status OrderStatus `json:"status"`
	Date   time.Time   `json:"date"`
	Note   string      `json:"note"`
}

// OrderCreatedNote is the note stamped on the initial history entry.
const OrderCreatedNote = "Pedido creado"

// Order is a binding, stateful request derived from an accepted quotation or
// created directly. Items and installation are deep-copied from the quotation
// at creation time; later changes to the source never reach the order.
type Order struct {
	ID            string               `json:"id"`
	QuotationID   *string              `json:"quotationId"`
	Date          time.Time            `json:"date"`
	Customer      Customer             `json:"customer"`
	Items         []LineItem           `json:"items"`
	Installation  *InstallationService `json:"installation"`
	Subtotal      float64              `json:"subtotal"`
	Total         float64              `json:"total"`
	Status        OrderStatus          `json:"status"`
	StatusHistory []StatusChange       `json:"statusHistory"`
	LastUpdated   *time.Time           `json:"lastUpdated,omitempty"`
}

// CustomerFieldRules controls which submitted customer fields an order
// requires and which it merely carries. Defaults live in the config package.
type CustomerFieldRules struct {
	Required []string
	Optional []string
}

// NewOrder builds an order from an accepted quotation (or nil for a direct
// order) and raw customer data. It fails with a ValidationError naming the
// first missing required field. The initial history entry is always
// {pending, "Pedido creado"}.
func NewOrder(quotation *Quotation, raw map[string]string, rules CustomerFieldRules, now time.Time) (*Order, error) {
	for _, field := range rules.Required {
		if raw[field] == "" {
			return nil, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("el campo %s es obligatorio", field),
			}
		}
	}

	customer := Customer{
		Name:             raw["name"],
		Phone:            raw["phone"],
		Email:            raw["email"],
		Address:          raw["address"],
		InstallationDate: raw["installationDate"],
		PaymentMethod:    raw["paymentMethod"],
	}

	order := &Order{
		Date:     now,
		Customer: customer,
		Items:    []LineItem{},
		Status:   OrderStatusPending,
		StatusHistory: []StatusChange{
			{Status: OrderStatusPending, Date: now, Note: OrderCreatedNote},
		},
	}

	if quotation != nil {
		if quotation.ID != "" {
			id := quotation.ID
			order.QuotationID = &id
		}
		order.Items = quotation.CloneItems()
		order.Installation = quotation.CloneInstallation()
	}
	order.RecalculateTotals()

	return order, nil
}

// RecalculateTotals rederives subtotal/total from the copied items and
// installation slot.
func (o *Order) RecalculateTotals() {
	subtotal := 0.0
	for i := range o.Items {
		o.Items[i].Recalculate()
		subtotal += o.Items[i].Subtotal
	}
	if o.Installation != nil {
		o.Installation.Recalculate()
		subtotal += o.Installation.Subtotal
	}
	o.Subtotal = subtotal
	o.Total = subtotal
}

// UpdateStatus moves the order to newStatus and appends exactly one history
// entry. Unknown statuses are rejected naming the invalid value; any
// configured status is accepted from any prior status (there is no transition
// table). When note is empty a default note is stamped.
func (o *Order) UpdateStatus(newStatus OrderStatus, note string, now time.Time) error {
	if !newStatus.IsValid() {
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("estado inválido: %s", newStatus),
		}
	}

	if note == "" {
		note = fmt.Sprintf("Estado actualizado a %s", newStatus)
	}

	o.Status = newStatus
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Status: newStatus,
		Date:   now,
		Note:   note,
	})
	o.LastUpdated = &now
	return nil
}

// IsOpen reports whether the order still represents pending work. Open orders
// are never purged by age-based cleanup.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusInProgress
}

// CartItem is a cart line. It mirrors LineItem but lives under the cart key.
type CartItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// Recalculate rederives the subtotal from quantity and unit price.
func (ci *CartItem) Recalculate() {
	ci.Subtotal = float64(ci.Quantity) * ci.UnitPrice
}

// Cart is the persisted shopping cart: a flat item list plus the time of the
// last mutation.
type Cart struct {
	Items       []CartItem `json:"items"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// Total returns the sum of all line subtotals.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Subtotal
	}
	return total
}

// OrderStatistics aggregates the current month's activity for the admin
// dashboard. Cancelled orders count toward nothing.
type OrderStatistics struct {
	MonthOrderCount int                 `json:"monthOrderCount"`
	MonthRevenue    float64             `json:"monthRevenue"`
	ByStatus        map[OrderStatus]int `json:"byStatus"`
}
