package party

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"pharmacare/m/domain"
	"pharmacare/m/internal/migrations"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	migrations.Run(db)
	return db
}

func TestSupplierCRUDFiresChangeHook(t *testing.T) {
	db := newTestDB(t)
	s := NewSupplierStore(db, zap.NewNop())
	ctx := context.Background()

	var fired int
	s.OnChange(func() { fired++ })

	sup := domain.Supplier{SupplierID: "SUP2001", Name: "MedSupply Co", Contact: "555-0200", Email: "sales@medsupply.test", Address: "7 Dock Rd"}
	if err := s.Add(ctx, sup); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if fired != 1 {
		t.Fatalf("hook fired %d times after add", fired)
	}

	got, err := s.ByID(ctx, "SUP2001")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got != sup {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	sup.Contact = "555-0299"
	if err := s.Update(ctx, sup); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if fired != 2 {
		t.Fatalf("hook fired %d times after update", fired)
	}

	if err := s.Delete(ctx, "SUP2001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if fired != 3 {
		t.Fatalf("hook fired %d times after delete", fired)
	}

	// Failed mutations must not fire the hook.
	if err := s.Update(ctx, sup); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update of missing supplier: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "SUP2001"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete of missing supplier: expected ErrNotFound, got %v", err)
	}
	if fired != 3 {
		t.Fatalf("hook fired on failed mutation, count %d", fired)
	}
}

func TestSupplierSearch(t *testing.T) {
	db := newTestDB(t)
	s := NewSupplierStore(db, zap.NewNop())
	ctx := context.Background()

	for _, sup := range []domain.Supplier{
		{SupplierID: "SUP2001", Name: "MedSupply Co", Contact: "555-0200"},
		{SupplierID: "SUP2002", Name: "PharmaDirect", Contact: "555-0201"},
	} {
		if err := s.Add(ctx, sup); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	cases := []struct {
		field SupplierSearchField
		term  string
		want  int
	}{
		{SupplierByID, "SUP200", 2},
		{SupplierByName, "pharma", 1},
		{SupplierByContact, "0200", 1},
		{SupplierByName, "acme", 0},
	}
	for _, tc := range cases {
		got, err := s.Search(ctx, tc.field, tc.term)
		if err != nil {
			t.Fatalf("Search(%s, %q): %v", tc.field, tc.term, err)
		}
		if len(got) != tc.want {
			t.Fatalf("Search(%s, %q) returned %d suppliers, want %d", tc.field, tc.term, len(got), tc.want)
		}
	}

	if _, err := s.Search(ctx, SupplierSearchField("Email"), "x"); !domain.IsValidation(err) {
		t.Fatalf("unknown search field: expected validation error, got %v", err)
	}
}

func TestAddSupplyRecordIncrementsStock(t *testing.T) {
	db := newTestDB(t)
	s := NewSupplierStore(db, zap.NewNop())
	ctx := context.Background()

	db.MustExec(`INSERT INTO suppliers (supplier_id, name, contact, email, address)
        VALUES ('SUP2001', 'MedSupply Co', '555-0200', '', '')`)
	db.MustExec(`INSERT INTO medicines (medicine_id, name, price, quantity)
        VALUES ('MED1001', 'Paracetamol', '10.00', 50)`)

	rec := domain.SupplyRecord{
		SupplierID: "SUP2001",
		MedicineID: "MED1001",
		Quantity:   30,
		Amount:     decimal.RequireFromString("200.00"),
		SupplyDate: "2026-08-20",
	}
	if err := s.AddSupplyRecord(ctx, rec); err != nil {
		t.Fatalf("AddSupplyRecord: %v", err)
	}

	var qty int64
	if err := db.Get(&qty, `SELECT quantity FROM medicines WHERE medicine_id = 'MED1001'`); err != nil {
		t.Fatal(err)
	}
	if qty != 80 {
		t.Fatalf("quantity = %d, want 80", qty)
	}

	records, err := s.SupplyRecords(ctx, "SUP2001", "", "")
	if err != nil {
		t.Fatalf("SupplyRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("%d supply records", len(records))
	}
	got := records[0]
	if got.SupplierName != "MedSupply Co" || got.MedicineName != "Paracetamol" || got.Quantity != 30 {
		t.Fatalf("unexpected record %+v", got)
	}
	if !got.Amount.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("amount %s", got.Amount)
	}
}

func TestAddSupplyRecordValidation(t *testing.T) {
	db := newTestDB(t)
	s := NewSupplierStore(db, zap.NewNop())
	ctx := context.Background()

	rec := domain.SupplyRecord{SupplierID: "SUP2001", MedicineID: "MED1001", Quantity: 0, SupplyDate: "2026-08-20"}
	if err := s.AddSupplyRecord(ctx, rec); !domain.IsValidation(err) {
		t.Fatalf("zero quantity: expected validation error, got %v", err)
	}

	// Unknown supplier fails the foreign key and rolls back.
	rec.Quantity = 5
	if err := s.AddSupplyRecord(ctx, rec); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("unknown supplier: expected ErrPersistence, got %v", err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM supplies`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("supply row survived rollback, count %d", n)
	}
}

func TestSupplyRecordsDateFilter(t *testing.T) {
	db := newTestDB(t)
	s := NewSupplierStore(db, zap.NewNop())
	ctx := context.Background()

	db.MustExec(`INSERT INTO suppliers (supplier_id, name, contact, email, address)
        VALUES ('SUP2001', 'MedSupply Co', '', '', ''), ('SUP2002', 'PharmaDirect', '', '', '')`)
	db.MustExec(`INSERT INTO medicines (medicine_id, name, price, quantity)
        VALUES ('MED1001', 'Paracetamol', '10.00', 0)`)

	for _, rec := range []domain.SupplyRecord{
		{SupplierID: "SUP2001", MedicineID: "MED1001", Quantity: 10, Amount: decimal.RequireFromString("80.00"), SupplyDate: "2026-08-01"},
		{SupplierID: "SUP2001", MedicineID: "MED1001", Quantity: 10, Amount: decimal.RequireFromString("80.00"), SupplyDate: "2026-08-15"},
		{SupplierID: "SUP2002", MedicineID: "MED1001", Quantity: 10, Amount: decimal.RequireFromString("80.00"), SupplyDate: "2026-08-27"},
	} {
		if err := s.AddSupplyRecord(ctx, rec); err != nil {
			t.Fatalf("AddSupplyRecord: %v", err)
		}
	}

	all, err := s.SupplyRecords(ctx, "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].SupplyDate != "2026-08-27" {
		t.Fatalf("unexpected listing %+v", all)
	}

	bySupplier, err := s.SupplyRecords(ctx, "SUP2001", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(bySupplier) != 2 {
		t.Fatalf("supplier filter returned %d records", len(bySupplier))
	}

	ranged, err := s.SupplyRecords(ctx, "", "2026-08-10", "2026-08-27")
	if err != nil {
		t.Fatal(err)
	}
	if len(ranged) != 2 || ranged[0].SupplyDate != "2026-08-27" || ranged[1].SupplyDate != "2026-08-15" {
		t.Fatalf("date filter %+v", ranged)
	}
}

func TestCustomerCRUDAndSearch(t *testing.T) {
	db := newTestDB(t)
	s := NewCustomerStore(db, zap.NewNop())
	ctx := context.Background()

	c := domain.Customer{CustomerID: "CUST1001", Name: "John Doe", Contact: "555-0100", Email: "john@example.com", Address: "12 Main St"}
	if err := s.Add(ctx, c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(ctx, domain.Customer{CustomerID: "CUST1002", Name: "Alice Roy", Contact: "555-0101"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.ByID(ctx, "CUST1001")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got != c {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Substring search across id, name and contact.
	for term, want := range map[string]int{
		"CUST100": 2,
		"alice":   1,
		"0100":    1,
		"nobody":  0,
	} {
		matches, err := s.Search(ctx, term)
		if err != nil {
			t.Fatalf("Search(%q): %v", term, err)
		}
		if len(matches) != want {
			t.Fatalf("Search(%q) returned %d customers, want %d", term, len(matches), want)
		}
	}

	c.Address = "14 Main St"
	if err := s.Update(ctx, c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Delete(ctx, "CUST1002"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.ByID(ctx, "CUST1002"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Update(ctx, domain.Customer{CustomerID: "CUST1002"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update of missing customer: expected ErrNotFound, got %v", err)
	}
}
