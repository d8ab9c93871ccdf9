package billing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"pharmacare/m/domain"
	"pharmacare/m/internal/inventory"
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

	db.MustExec(`INSERT INTO customers (customer_id, name, contact, email, address)
        VALUES ('CUST1001', 'John Doe', '555-0100', 'john@example.com', '12 Main St')`)
	db.MustExec(`INSERT INTO customers (customer_id, name) VALUES ('CUST1002', 'Alice Roy')`)
	db.MustExec(`INSERT INTO medicines (medicine_id, name, price, quantity)
        VALUES ('MED1001', 'Paracetamol', '10.00', 50),
               ('MED1002', 'Ibuprofen', '15.00', 2),
               ('MED1003', 'Amoxicillin', '45.50', 30)`)
	return db
}

func stockOf(t *testing.T, db *sqlx.DB, medicineID string) int64 {
	t.Helper()
	var qty int64
	if err := db.Get(&qty, `SELECT quantity FROM medicines WHERE medicine_id = ?`, medicineID); err != nil {
		t.Fatalf("read stock of %s: %v", medicineID, err)
	}
	return qty
}

func billCount(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM bills`); err != nil {
		t.Fatalf("count bills: %v", err)
	}
	return n
}

func TestCreateAndDetailsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, zap.NewNop())
	inv := inventory.New(db, zap.NewNop())
	builder := NewBuilder(inv, ledger)
	ctx := context.Background()

	if _, err := builder.AddLine(ctx, "Paracetamol", "3"); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	bill, err := builder.Commit(ctx, "CUST1001")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if got := stockOf(t, db, "MED1001"); got != 47 {
		t.Fatalf("stock after commit = %d, want 47", got)
	}

	details, err := ledger.Details(ctx, bill.BillID)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details.CustomerName != "John Doe" {
		t.Fatalf("customer name %q", details.CustomerName)
	}
	assertDecimal(t, details.Subtotal, "30.00")
	assertDecimal(t, details.Tax, "5.40")
	assertDecimal(t, details.Total, "35.40")
	if len(details.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(details.Items))
	}
	item := details.Items[0]
	if item.MedicineID != "MED1001" || item.MedicineName != "Paracetamol" || item.Quantity != 3 {
		t.Fatalf("unexpected item %+v", item)
	}
	assertDecimal(t, item.Amount, "30.00")
}

func TestCreateRollsBackOnItemFailure(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()

	// The second line references a medicine that does not exist, so its
	// foreign key fails after the first line already wrote and decremented.
	bill := domain.Bill{
		BillID:     "BILL-0001",
		CustomerID: "CUST1001",
		BillDate:   "2026-08-28",
		Subtotal:   price("40.00"),
		Tax:        price("7.20"),
		Total:      price("47.20"),
		Items: []domain.BillLineItem{
			{MedicineID: "MED1001", MedicineName: "Paracetamol", Quantity: 1, Price: price("10.00"), Amount: price("10.00")},
			{MedicineID: "MED9999", MedicineName: "Ghost", Quantity: 2, Price: price("15.00"), Amount: price("30.00")},
		},
	}

	if err := ledger.Create(ctx, bill); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if n := billCount(t, db); n != 0 {
		t.Fatalf("header survived rollback, %d bills in table", n)
	}
	if got := stockOf(t, db, "MED1001"); got != 50 {
		t.Fatalf("stock after rollback = %d, want 50", got)
	}
}

func TestCreateGuardsAgainstStaleStock(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()

	// Stock dropped between building the line and committing it.
	bill := domain.Bill{
		BillID:     "BILL-0002",
		CustomerID: "CUST1001",
		BillDate:   "2026-08-28",
		Subtotal:   price("150.00"),
		Tax:        price("27.00"),
		Total:      price("177.00"),
		Items: []domain.BillLineItem{
			{MedicineID: "MED1002", MedicineName: "Ibuprofen", Quantity: 10, Price: price("15.00"), Amount: price("150.00")},
		},
	}

	if err := ledger.Create(ctx, bill); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if n := billCount(t, db); n != 0 {
		t.Fatalf("header survived rollback, %d bills in table", n)
	}
	if got := stockOf(t, db, "MED1002"); got != 2 {
		t.Fatalf("stock after rollback = %d, want 2", got)
	}
}

func TestCreateRejectsDuplicateBillID(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()

	bill := domain.Bill{
		BillID:     "BILL-0003",
		CustomerID: "CUST1001",
		BillDate:   "2026-08-28",
		Subtotal:   price("10.00"),
		Tax:        price("1.80"),
		Total:      price("11.80"),
		Items: []domain.BillLineItem{
			{MedicineID: "MED1001", MedicineName: "Paracetamol", Quantity: 1, Price: price("10.00"), Amount: price("10.00")},
		},
	}
	if err := ledger.Create(ctx, bill); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := ledger.Create(ctx, bill); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence on duplicate id, got %v", err)
	}
	if got := stockOf(t, db, "MED1001"); got != 49 {
		t.Fatalf("stock = %d, want 49 (one sale only)", got)
	}
}

func seedBill(t *testing.T, ledger *Ledger, billID, customerID, date string, items ...domain.BillLineItem) {
	t.Helper()
	subtotal := price("0")
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	bill := domain.Bill{
		BillID:     billID,
		CustomerID: customerID,
		BillDate:   date,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax).Round(2),
		Items:      items,
	}
	if err := ledger.Create(context.Background(), bill); err != nil {
		t.Fatalf("seed bill %s: %v", billID, err)
	}
}

func TestListingsSearchAndDateFilter(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()

	para := domain.BillLineItem{MedicineID: "MED1001", MedicineName: "Paracetamol", Quantity: 1, Price: price("10.00"), Amount: price("10.00")}
	amox := domain.BillLineItem{MedicineID: "MED1003", MedicineName: "Amoxicillin", Quantity: 1, Price: price("45.50"), Amount: price("45.50")}

	seedBill(t, ledger, "BILL-1001", "CUST1001", "2026-08-01", para)
	seedBill(t, ledger, "BILL-1002", "CUST1002", "2026-08-15", para, amox)
	seedBill(t, ledger, "BILL-1003", "CUST1001", "2026-08-27", amox)

	all, err := ledger.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("All returned %d bills", len(all))
	}
	// Newest first.
	if all[0].BillID != "BILL-1003" || all[2].BillID != "BILL-1001" {
		t.Fatalf("unexpected order: %s ... %s", all[0].BillID, all[2].BillID)
	}
	if all[0].CustomerName != "John Doe" {
		t.Fatalf("customer name %q", all[0].CustomerName)
	}

	// Multi-line bill aggregates its medicine names.
	for _, b := range all {
		if b.BillID != "BILL-1002" {
			continue
		}
		if !strings.Contains(b.Medicines, "Paracetamol") || !strings.Contains(b.Medicines, "Amoxicillin") {
			t.Fatalf("medicines list %q", b.Medicines)
		}
	}

	searches := []struct {
		field BillSearchField
		term  string
		want  int
	}{
		{BillByID, "1002", 1},
		{BillByCustomerName, "Alice", 1},
		{BillByCustomerID, "CUST1001", 2},
		{BillByDate, "2026-08", 3},
		{BillByCustomerName, "nobody", 0},
	}
	for _, tc := range searches {
		got, err := ledger.Search(ctx, tc.field, tc.term)
		if err != nil {
			t.Fatalf("Search(%s, %q): %v", tc.field, tc.term, err)
		}
		if len(got) != tc.want {
			t.Fatalf("Search(%s, %q) returned %d bills, want %d", tc.field, tc.term, len(got), tc.want)
		}
	}

	if _, err := ledger.Search(ctx, BillSearchField("Total"), "x"); !domain.IsValidation(err) {
		t.Fatalf("unknown search field: expected validation error, got %v", err)
	}

	// Inclusive on both ends.
	ranged, err := ledger.FilterByDate(ctx, "2026-08-01", "2026-08-15")
	if err != nil {
		t.Fatalf("FilterByDate: %v", err)
	}
	if len(ranged) != 2 {
		t.Fatalf("FilterByDate returned %d bills, want 2", len(ranged))
	}
	if ranged[0].BillID != "BILL-1002" || ranged[1].BillID != "BILL-1001" {
		t.Fatalf("unexpected range order: %s, %s", ranged[0].BillID, ranged[1].BillID)
	}
}

func TestDetailsNotFound(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, zap.NewNop())
	if _, err := ledger.Details(context.Background(), "BILL-0000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBilledNameSurvivesRename(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()

	para := domain.BillLineItem{MedicineID: "MED1001", MedicineName: "Paracetamol", Quantity: 2, Price: price("10.00"), Amount: price("20.00")}
	seedBill(t, ledger, "BILL-2001", "CUST1001", "2026-08-20", para)

	db.MustExec(`UPDATE medicines SET name = 'Paracetamol Forte' WHERE medicine_id = 'MED1001'`)

	details, err := ledger.Details(ctx, "BILL-2001")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details.Items[0].MedicineName != "Paracetamol" {
		t.Fatalf("line item shows %q, want the name billed at commit time", details.Items[0].MedicineName)
	}

	all, err := ledger.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if all[0].Medicines != "Paracetamol" {
		t.Fatalf("listing shows %q, want the name billed at commit time", all[0].Medicines)
	}
}

func TestDetailsFallsBackToCurrentName(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, zap.NewNop())

	// Rows written before the name snapshot existed have an empty name.
	db.MustExec(`INSERT INTO bills (bill_id, customer_id, bill_date, subtotal, tax, total)
        VALUES ('BILL-3001', 'CUST1001', '2026-08-10', '10.00', '1.80', '11.80')`)
	db.MustExec(`INSERT INTO bill_items (bill_id, medicine_id, medicine_name, quantity, price, amount)
        VALUES ('BILL-3001', 'MED1001', '', 1, '10.00', '10.00')`)

	details, err := ledger.Details(context.Background(), "BILL-3001")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details.Items[0].MedicineName != "Paracetamol" {
		t.Fatalf("fallback name %q, want current medicine name", details.Items[0].MedicineName)
	}
}
