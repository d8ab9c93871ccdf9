package domain

import "github.com/shopspring/decimal"

// BillLineItem is one medicine/quantity/price entry within a bill. Name and
// price are snapshots taken when the line was added, independent of later
// medicine edits.
type BillLineItem struct {
	MedicineID   string          `db:"medicine_id" json:"medicine_id"`
	MedicineName string          `db:"medicine_name" json:"medicine_name"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
}

// Bill is a finalized, immutable sales transaction. It is created atomically
// at commit time and never updated or deleted afterwards.
type Bill struct {
	BillID     string          `db:"bill_id" json:"bill_id"`
	CustomerID string          `db:"customer_id" json:"customer_id"`
	BillDate   string          `db:"bill_date" json:"bill_date"`
	Subtotal   decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax        decimal.Decimal `db:"tax" json:"tax"`
	Total      decimal.Decimal `db:"total" json:"total"`
	Items      []BillLineItem  `json:"items"`
}

// BillSummary is one row of a bill listing: the header joined with the
// customer name and a comma-joined list of the medicines on the bill.
type BillSummary struct {
	BillID       string          `db:"bill_id" json:"bill_id"`
	CustomerID   string          `db:"customer_id" json:"customer_id"`
	CustomerName string          `db:"customer_name" json:"customer_name"`
	Total        decimal.Decimal `db:"total" json:"total"`
	BillDate     string          `db:"bill_date" json:"bill_date"`
	Medicines    string          `db:"medicines" json:"medicines"`
}

// BillDetails is a fully reconstructed bill for rendering and reprint.
type BillDetails struct {
	Bill
	CustomerName    string `db:"customer_name" json:"customer_name"`
	CustomerContact string `db:"customer_contact" json:"customer_contact"`
	CustomerAddress string `db:"customer_address" json:"customer_address"`
}
