package party

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmacare/m/domain"
)

// SupplierSearchField is the closed set of columns supplier search supports.
type SupplierSearchField string

const (
	SupplierByID      SupplierSearchField = "ID"
	SupplierByName    SupplierSearchField = "Name"
	SupplierByContact SupplierSearchField = "Contact"
)

func (f SupplierSearchField) predicate() (string, error) {
	switch f {
	case SupplierByID:
		return "supplier_id LIKE ?", nil
	case SupplierByName:
		return "name LIKE ?", nil
	case SupplierByContact:
		return "contact LIKE ?", nil
	default:
		return "", &domain.ValidationError{Details: fmt.Sprintf("unknown supplier search field %q", string(f))}
	}
}

// SupplierStore manages supplier records and supply intake. Mutations fire
// the registered hook so dependent caches can refresh.
type SupplierStore struct {
	db       *sqlx.DB
	log      *zap.Logger
	onChange func()
}

func NewSupplierStore(db *sqlx.DB, log *zap.Logger) *SupplierStore {
	return &SupplierStore{db: db, log: log}
}

// OnChange registers a hook invoked after every supplier add, update or
// delete. The inventory ledger hangs its supplier cache refresh here.
func (s *SupplierStore) OnChange(fn func()) {
	s.onChange = fn
}

func (s *SupplierStore) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *SupplierStore) All(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	err := s.db.SelectContext(ctx, &suppliers, `SELECT supplier_id, name, contact, email, address FROM suppliers ORDER BY name`)
	return suppliers, err
}

func (s *SupplierStore) Search(ctx context.Context, field SupplierSearchField, term string) ([]domain.Supplier, error) {
	where, err := field.predicate()
	if err != nil {
		return nil, err
	}
	var suppliers []domain.Supplier
	err = s.db.SelectContext(ctx, &suppliers, `SELECT supplier_id, name, contact, email, address FROM suppliers WHERE `+where+` ORDER BY name`, "%"+term+"%")
	return suppliers, err
}

func (s *SupplierStore) ByID(ctx context.Context, supplierID string) (domain.Supplier, error) {
	var sup domain.Supplier
	err := s.db.GetContext(ctx, &sup, `SELECT supplier_id, name, contact, email, address FROM suppliers WHERE supplier_id = ?`, supplierID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Supplier{}, domain.ErrNotFound
	}
	return sup, err
}

func (s *SupplierStore) Add(ctx context.Context, sup domain.Supplier) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO suppliers (supplier_id, name, contact, email, address) VALUES (?, ?, ?, ?, ?)`,
		sup.SupplierID, sup.Name, sup.Contact, sup.Email, sup.Address)
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *SupplierStore) Update(ctx context.Context, sup domain.Supplier) error {
	res, err := s.db.ExecContext(ctx, `UPDATE suppliers SET name = ?, contact = ?, email = ?, address = ? WHERE supplier_id = ?`,
		sup.Name, sup.Contact, sup.Email, sup.Address, sup.SupplierID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	s.notify()
	return nil
}

func (s *SupplierStore) Delete(ctx context.Context, supplierID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE supplier_id = ?`, supplierID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	s.notify()
	return nil
}

// AddSupplyRecord records a stock intake and increments the medicine's
// on-hand quantity in one transaction.
func (s *SupplierStore) AddSupplyRecord(ctx context.Context, rec domain.SupplyRecord) error {
	if rec.Quantity <= 0 {
		return &domain.ValidationError{Details: "supply quantity must be a positive integer"}
	}
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO supplies (supplier_id, medicine_id, quantity, amount, supply_date) VALUES (?, ?, ?, ?, ?)`,
		rec.SupplierID, rec.MedicineID, rec.Quantity, rec.Amount.StringFixed(2), rec.SupplyDate); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE medicines SET quantity = quantity + ? WHERE medicine_id = ?`, rec.Quantity, rec.MedicineID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// SupplyRecords lists supply intakes, optionally filtered by supplier and an
// inclusive date range.
func (s *SupplierStore) SupplyRecords(ctx context.Context, supplierID, from, to string) ([]domain.SupplyRecord, error) {
	query := `SELECT s.supply_id, sup.supplier_id, sup.name AS supplier_name,
               m.medicine_id, m.name AS medicine_name, s.quantity, s.amount, s.supply_date
        FROM supplies s
        JOIN suppliers sup ON s.supplier_id = sup.supplier_id
        JOIN medicines m ON s.medicine_id = m.medicine_id
        WHERE 1=1`
	var (
		args    []any
		clauses []string
	)
	if supplierID != "" {
		clauses = append(clauses, "sup.supplier_id = ?")
		args = append(args, supplierID)
	}
	if from != "" {
		clauses = append(clauses, "s.supply_date >= ?")
		args = append(args, from)
	}
	if to != "" {
		clauses = append(clauses, "s.supply_date <= ?")
		args = append(args, to)
	}
	if len(clauses) > 0 {
		query += " AND " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY s.supply_date DESC"

	var records []domain.SupplyRecord
	err := s.db.SelectContext(ctx, &records, query, args...)
	return records, err
}
