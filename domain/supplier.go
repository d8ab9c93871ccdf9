package domain

import "github.com/shopspring/decimal"

type Supplier struct {
	SupplierID string `db:"supplier_id" json:"supplier_id"`
	Name       string `db:"name" json:"name"`
	Contact    string `db:"contact" json:"contact"`
	Email      string `db:"email" json:"email"`
	Address    string `db:"address" json:"address"`
}

// SupplyRecord is one stock intake from a supplier. Recording it also
// increments the medicine's on-hand quantity.
type SupplyRecord struct {
	SupplyID     int64           `db:"supply_id" json:"supply_id"`
	SupplierID   string          `db:"supplier_id" json:"supplier_id"`
	SupplierName string          `db:"supplier_name" json:"supplier_name"`
	MedicineID   string          `db:"medicine_id" json:"medicine_id"`
	MedicineName string          `db:"medicine_name" json:"medicine_name"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	SupplyDate   string          `db:"supply_date" json:"supply_date"`
}
