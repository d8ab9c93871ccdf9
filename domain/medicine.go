package domain

import "github.com/shopspring/decimal"

type Medicine struct {
	MedicineID   string          `db:"medicine_id" json:"medicine_id"`
	Name         string          `db:"name" json:"name"`
	Description  *string         `db:"description" json:"description,omitempty"`
	SupplierID   *string         `db:"supplier_id" json:"supplier_id,omitempty"`
	SupplierName *string         `db:"supplier_name" json:"supplier_name,omitempty"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	ExpiryDate   *string         `db:"expiry_date" json:"expiry_date,omitempty"`
	Location     *string         `db:"location" json:"location,omitempty"`
}
