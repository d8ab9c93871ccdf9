package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmacare/m/domain"
)

// BillSearchField is the closed set of columns a bill search matches on.
type BillSearchField string

const (
	BillByID           BillSearchField = "Bill ID"
	BillByCustomerName BillSearchField = "Customer Name"
	BillByCustomerID   BillSearchField = "Customer ID"
	BillByDate         BillSearchField = "Date"
)

func (f BillSearchField) predicate() (string, error) {
	switch f {
	case BillByID:
		return "b.bill_id LIKE ?", nil
	case BillByCustomerName:
		return "c.name LIKE ?", nil
	case BillByCustomerID:
		return "b.customer_id LIKE ?", nil
	case BillByDate:
		return "b.bill_date LIKE ?", nil
	default:
		return "", &domain.ValidationError{Details: fmt.Sprintf("unknown bill search field %q", string(f))}
	}
}

// Ledger is the durable-storage side of billing. It is the sole writer of
// bill records; bills are immutable once created and never deleted.
type Ledger struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewLedger(db *sqlx.DB, log *zap.Logger) *Ledger {
	return &Ledger{db: db, log: log}
}

// Create persists a finalized bill: header, line items and the per-line
// inventory decrement run as one transaction. If any write fails the whole
// bill rolls back; no partial bill is ever observable. Business invariants
// were already checked by the builder, but the decrement is guarded against
// the stock having changed since the line was added.
func (l *Ledger) Create(ctx context.Context, bill domain.Bill) error {
	tx, err := l.db.Beginx()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO bills (bill_id, customer_id, bill_date, subtotal, tax, total)
        VALUES (?, ?, ?, ?, ?, ?)`,
		bill.BillID, bill.CustomerID, bill.BillDate,
		bill.Subtotal.StringFixed(2), bill.Tax.StringFixed(2), bill.Total.StringFixed(2))
	if err != nil {
		return fmt.Errorf("%w: bill header: %v", domain.ErrPersistence, err)
	}

	for _, item := range bill.Items {
		_, err = tx.ExecContext(ctx, `INSERT INTO bill_items (bill_id, medicine_id, medicine_name, quantity, price, amount)
            VALUES (?, ?, ?, ?, ?, ?)`,
			bill.BillID, item.MedicineID, item.MedicineName, item.Quantity,
			item.Price.StringFixed(2), item.Amount.StringFixed(2))
		if err != nil {
			return fmt.Errorf("%w: bill items: %v", domain.ErrPersistence, err)
		}

		res, err := tx.ExecContext(ctx, `UPDATE medicines SET quantity = quantity - ? WHERE medicine_id = ? AND quantity >= ?`,
			item.Quantity, item.MedicineID, item.Quantity)
		if err != nil {
			return fmt.Errorf("%w: stock decrement: %v", domain.ErrPersistence, err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return fmt.Errorf("%w: stock of %s changed below the billed quantity", domain.ErrInsufficientStock, item.MedicineName)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	l.log.Info("bill committed",
		zap.String("bill_id", bill.BillID),
		zap.String("customer_id", bill.CustomerID),
		zap.String("total", bill.Total.StringFixed(2)),
		zap.Int("items", len(bill.Items)))
	return nil
}

// Listing queries read the line-item name snapshot, not the medicines table,
// so renaming a medicine never rewrites billing history.
const billListSelect = `SELECT b.bill_id, b.customer_id, c.name AS customer_name, b.total, b.bill_date,
       GROUP_CONCAT(DISTINCT bi.medicine_name) AS medicines
    FROM bills b
    JOIN customers c ON b.customer_id = c.customer_id
    JOIN bill_items bi ON b.bill_id = bi.bill_id`

const billListGroup = ` GROUP BY b.bill_id, b.customer_id, c.name, b.total, b.bill_date
    ORDER BY b.bill_date DESC`

// All lists every bill, newest first.
func (l *Ledger) All(ctx context.Context) ([]domain.BillSummary, error) {
	var bills []domain.BillSummary
	err := l.db.SelectContext(ctx, &bills, billListSelect+billListGroup)
	return bills, err
}

// Search matches the term as a substring of the selected field.
func (l *Ledger) Search(ctx context.Context, field BillSearchField, term string) ([]domain.BillSummary, error) {
	where, err := field.predicate()
	if err != nil {
		return nil, err
	}
	var bills []domain.BillSummary
	err = l.db.SelectContext(ctx, &bills, billListSelect+" WHERE "+where+billListGroup, "%"+term+"%")
	return bills, err
}

// FilterByDate lists bills whose issue date falls in the inclusive range.
func (l *Ledger) FilterByDate(ctx context.Context, from, to string) ([]domain.BillSummary, error) {
	var bills []domain.BillSummary
	err := l.db.SelectContext(ctx, &bills, billListSelect+" WHERE b.bill_date BETWEEN ? AND ?"+billListGroup, from, to)
	return bills, err
}

// Details reconstructs one full bill for rendering or reprint. Line items
// carry the name persisted at commit time; the current medicine name is only
// a fallback for rows predating the snapshot column.
func (l *Ledger) Details(ctx context.Context, billID string) (domain.BillDetails, error) {
	var details domain.BillDetails
	err := l.db.GetContext(ctx, &details, `SELECT b.bill_id, b.customer_id, b.bill_date, b.subtotal, b.tax, b.total,
           c.name AS customer_name, c.contact AS customer_contact, c.address AS customer_address
        FROM bills b
        JOIN customers c ON b.customer_id = c.customer_id
        WHERE b.bill_id = ?`, billID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BillDetails{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.BillDetails{}, err
	}

	err = l.db.SelectContext(ctx, &details.Items, `SELECT bi.medicine_id,
           COALESCE(NULLIF(bi.medicine_name, ''), m.name) AS medicine_name,
           bi.quantity, bi.price, bi.amount
        FROM bill_items bi
        LEFT JOIN medicines m ON bi.medicine_id = m.medicine_id
        WHERE bi.bill_id = ?
        ORDER BY bi.id`, billID)
	if err != nil {
		return domain.BillDetails{}, err
	}
	return details, nil
}

// AllItems returns every persisted line item, used by reporting.
func (l *Ledger) AllItems(ctx context.Context) ([]domain.BillLineItem, error) {
	var items []domain.BillLineItem
	err := l.db.SelectContext(ctx, &items, `SELECT medicine_id, medicine_name, quantity, price, amount FROM bill_items`)
	return items, err
}
