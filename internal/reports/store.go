package reports

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// MonthlySales is one month of billing revenue.
type MonthlySales struct {
	Month   string  `db:"month" json:"month"`
	Revenue float64 `db:"revenue" json:"revenue"`
	Bills   int64   `db:"bills" json:"bills"`
}

// BestSeller ranks a medicine by total quantity sold.
type BestSeller struct {
	MedicineID   string `db:"medicine_id" json:"medicine_id"`
	MedicineName string `db:"medicine_name" json:"medicine_name"`
	TotalSold    int64  `db:"total_sold" json:"total_sold"`
}

// Store serves the read-only sales analysis queries.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

func New(db *sqlx.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// Monthly aggregates bill totals per calendar month, oldest first.
func (s *Store) Monthly(ctx context.Context) ([]MonthlySales, error) {
	var rows []MonthlySales
	err := s.db.SelectContext(ctx, &rows, `SELECT strftime('%Y-%m', bill_date) AS month,
           ROUND(SUM(CAST(total AS REAL)), 2) AS revenue,
           COUNT(*) AS bills
        FROM bills
        GROUP BY month
        ORDER BY month`)
	return rows, err
}

// BestSellers ranks medicines by total quantity sold across all bills.
func (s *Store) BestSellers(ctx context.Context, limit int) ([]BestSeller, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []BestSeller
	err := s.db.SelectContext(ctx, &rows, `SELECT bi.medicine_id,
           COALESCE(NULLIF(bi.medicine_name, ''), m.name, 'Unknown') AS medicine_name,
           SUM(bi.quantity) AS total_sold
        FROM bill_items bi
        LEFT JOIN medicines m ON bi.medicine_id = m.medicine_id
        GROUP BY bi.medicine_id
        ORDER BY total_sold DESC
        LIMIT ?`, limit)
	return rows, err
}
