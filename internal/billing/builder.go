package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmacare/m/domain"
)

// TaxRate is the fixed sales tax applied to every bill.
var TaxRate = decimal.RequireFromString("0.18")

// StockReader is the inventory lookup the builder needs: a fresh first-match
// read, never a cached search result.
type StockReader interface {
	FirstByName(ctx context.Context, name string) (domain.Medicine, error)
}

// BillWriter persists a finalized bill atomically.
type BillWriter interface {
	Create(ctx context.Context, bill domain.Bill) error
}

// Builder accumulates line items for one bill before commit. It owns the
// working set exclusively; nothing touches durable storage until Commit.
type Builder struct {
	stock  StockReader
	ledger BillWriter

	items    []domain.BillLineItem
	subtotal decimal.Decimal
}

func NewBuilder(stock StockReader, ledger BillWriter) *Builder {
	return &Builder{stock: stock, ledger: ledger}
}

// AddLine validates and appends one line item. Price and on-hand quantity
// are read fresh from the inventory ledger at this moment. Stock is only
// checked here, not decremented; the decrement happens at commit.
func (b *Builder) AddLine(ctx context.Context, medicineName, quantity string) (domain.BillLineItem, error) {
	medicineName = strings.TrimSpace(medicineName)
	if medicineName == "" {
		return domain.BillLineItem{}, &domain.ValidationError{Details: "select a medicine"}
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(quantity), 10, 64)
	if err != nil || qty <= 0 {
		return domain.BillLineItem{}, &domain.ValidationError{Details: "quantity must be a positive integer"}
	}

	med, err := b.stock.FirstByName(ctx, medicineName)
	if err != nil {
		return domain.BillLineItem{}, fmt.Errorf("medicine %q: %w", medicineName, err)
	}
	if qty > med.Quantity {
		return domain.BillLineItem{}, fmt.Errorf("%w: only %d units of %s available", domain.ErrInsufficientStock, med.Quantity, med.Name)
	}

	item := domain.BillLineItem{
		MedicineID:   med.MedicineID,
		MedicineName: med.Name,
		Quantity:     qty,
		Price:        med.Price,
		Amount:       med.Price.Mul(decimal.NewFromInt(qty)),
	}
	b.items = append(b.items, item)
	b.recompute()
	return item, nil
}

// RemoveLine drops every line matching the medicine id. Removing a medicine
// that is not on the bill is a no-op, not an error.
func (b *Builder) RemoveLine(medicineID string) {
	kept := b.items[:0]
	for _, item := range b.items {
		if item.MedicineID != medicineID {
			kept = append(kept, item)
		}
	}
	b.items = kept
	b.recompute()
}

func (b *Builder) recompute() {
	sum := decimal.Zero
	for _, item := range b.items {
		sum = sum.Add(item.Amount)
	}
	b.subtotal = sum
}

// Items returns a copy of the working set.
func (b *Builder) Items() []domain.BillLineItem {
	out := make([]domain.BillLineItem, len(b.items))
	copy(out, b.items)
	return out
}

// Totals returns subtotal, tax and total. The subtotal is the exact sum of
// line amounts; tax and total are rounded to two decimals.
func (b *Builder) Totals() (subtotal, tax, total decimal.Decimal) {
	subtotal = b.subtotal
	tax = subtotal.Mul(TaxRate).Round(2)
	total = subtotal.Add(tax).Round(2)
	return subtotal, tax, total
}

// Clear discards the working set and resets the totals.
func (b *Builder) Clear() {
	b.items = nil
	b.subtotal = decimal.Zero
}

// Commit finalizes the working set into a durable bill and hands ownership
// to the billing ledger. On success the working set is cleared for the next
// bill; on failure it is left intact so the user can retry without
// re-entering line items.
func (b *Builder) Commit(ctx context.Context, customerID string) (domain.Bill, error) {
	if len(b.items) == 0 {
		return domain.Bill{}, &domain.ValidationError{Details: "add at least one medicine to the bill"}
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return domain.Bill{}, &domain.ValidationError{Details: "select or add a customer"}
	}

	subtotal, tax, total := b.Totals()
	bill := domain.Bill{
		BillID:     domain.NewBillID(),
		CustomerID: customerID,
		BillDate:   time.Now().Format("2006-01-02"),
		Subtotal:   subtotal.Round(2),
		Tax:        tax,
		Total:      total,
		Items:      b.Items(),
	}

	if err := b.ledger.Create(ctx, bill); err != nil {
		return domain.Bill{}, err
	}
	b.Clear()
	return bill, nil
}
