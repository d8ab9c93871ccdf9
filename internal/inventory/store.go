package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmacare/m/domain"
)

// SearchField selects the column a medicine search matches against. It is a
// closed enumeration; anything else is rejected before touching the database.
type SearchField string

const (
	SearchByID       SearchField = "ID"
	SearchByName     SearchField = "Name"
	SearchBySupplier SearchField = "Supplier"
	SearchByLocation SearchField = "Location"
)

func (f SearchField) predicate() (string, error) {
	switch f {
	case SearchByID:
		return "m.medicine_id LIKE ?", nil
	case SearchByName:
		return "m.name LIKE ?", nil
	case SearchBySupplier:
		return "s.name LIKE ?", nil
	case SearchByLocation:
		return "m.location LIKE ?", nil
	default:
		return "", &domain.ValidationError{Details: fmt.Sprintf("unknown medicine search field %q", string(f))}
	}
}

const medicineColumns = `m.medicine_id, m.name, m.description, m.supplier_id, s.name AS supplier_name,
       m.price, m.quantity, m.expiry_date, m.location`

// Store is the inventory ledger. Besides medicine rows it owns the supplier
// name cache the medicine entry form reads from; the cache is refreshed
// explicitly after any supplier mutation.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger

	mu            sync.RWMutex
	supplierNames []string
}

func New(db *sqlx.DB, log *zap.Logger) *Store {
	s := &Store{db: db, log: log}
	if err := s.RefreshSuppliers(); err != nil {
		s.log.Warn("initial supplier cache load failed", zap.Error(err))
	}
	return s
}

// RefreshSuppliers reloads the supplier name cache. The party registry calls
// this after every supplier add, update and delete.
func (s *Store) RefreshSuppliers() error {
	var names []string
	if err := s.db.Select(&names, `SELECT name FROM suppliers ORDER BY name`); err != nil {
		return err
	}
	s.mu.Lock()
	s.supplierNames = names
	s.mu.Unlock()
	return nil
}

// SupplierNames returns the cached supplier names.
func (s *Store) SupplierNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.supplierNames))
	copy(out, s.supplierNames)
	return out
}

// All lists every medicine joined with its supplier name.
func (s *Store) All(ctx context.Context) ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	err := s.db.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+`
        FROM medicines m
        LEFT JOIN suppliers s ON m.supplier_id = s.supplier_id
        ORDER BY m.name`)
	return medicines, err
}

// Search matches medicines by substring on the selected field.
func (s *Store) Search(ctx context.Context, field SearchField, term string) ([]domain.Medicine, error) {
	where, err := field.predicate()
	if err != nil {
		return nil, err
	}
	var medicines []domain.Medicine
	err = s.db.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+`
        FROM medicines m
        LEFT JOIN suppliers s ON m.supplier_id = s.supplier_id
        WHERE `+where+` ORDER BY m.name`, "%"+term+"%")
	return medicines, err
}

// ByID fetches one medicine.
func (s *Store) ByID(ctx context.Context, medicineID string) (domain.Medicine, error) {
	var m domain.Medicine
	err := s.db.GetContext(ctx, &m, `SELECT `+medicineColumns+`
        FROM medicines m
        LEFT JOIN suppliers s ON m.supplier_id = s.supplier_id
        WHERE m.medicine_id = ?`, medicineID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medicine{}, domain.ErrNotFound
	}
	return m, err
}

// FirstByName resolves a name to the first matching medicine. The bill
// builder uses this for its fresh stock and price reads.
func (s *Store) FirstByName(ctx context.Context, name string) (domain.Medicine, error) {
	var m domain.Medicine
	err := s.db.GetContext(ctx, &m, `SELECT `+medicineColumns+`
        FROM medicines m
        LEFT JOIN suppliers s ON m.supplier_id = s.supplier_id
        WHERE m.name LIKE ? ORDER BY m.name LIMIT 1`, "%"+name+"%")
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medicine{}, domain.ErrNotFound
	}
	return m, err
}

// SupplierIDByName resolves an exact supplier name to its identifier.
func (s *Store) SupplierIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT supplier_id FROM suppliers WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	return id, err
}

// Add inserts a medicine record.
func (s *Store) Add(ctx context.Context, m domain.Medicine) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO medicines (medicine_id, name, description, supplier_id, price, quantity, expiry_date, location)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MedicineID, m.Name, m.Description, m.SupplierID, m.Price.StringFixed(2), m.Quantity, m.ExpiryDate, m.Location)
	return err
}

// Update rewrites every editable field of a medicine.
func (s *Store) Update(ctx context.Context, m domain.Medicine) error {
	res, err := s.db.ExecContext(ctx, `UPDATE medicines
        SET name = ?, description = ?, supplier_id = ?, price = ?, quantity = ?, expiry_date = ?, location = ?
        WHERE medicine_id = ?`,
		m.Name, m.Description, m.SupplierID, m.Price.StringFixed(2), m.Quantity, m.ExpiryDate, m.Location, m.MedicineID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a medicine record.
func (s *Store) Delete(ctx context.Context, medicineID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM medicines WHERE medicine_id = ?`, medicineID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustQuantity shifts the on-hand quantity by delta. Supply intake uses a
// positive delta; bill commit decrements go through the billing ledger's
// transaction instead.
func (s *Store) AdjustQuantity(ctx context.Context, medicineID string, delta int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE medicines SET quantity = quantity + ? WHERE medicine_id = ?`, delta, medicineID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LowStock lists medicines whose on-hand quantity is below the threshold.
func (s *Store) LowStock(ctx context.Context, threshold int64) ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	err := s.db.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+`
        FROM medicines m
        LEFT JOIN suppliers s ON m.supplier_id = s.supplier_id
        WHERE m.quantity < ? ORDER BY m.quantity`, threshold)
	return medicines, err
}
