package party

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmacare/m/domain"
)

// CustomerStore manages customer records.
type CustomerStore struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewCustomerStore(db *sqlx.DB, log *zap.Logger) *CustomerStore {
	return &CustomerStore{db: db, log: log}
}

func (s *CustomerStore) All(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := s.db.SelectContext(ctx, &customers, `SELECT customer_id, name, contact, email, address FROM customers ORDER BY name`)
	return customers, err
}

// Search matches the term as a substring of the customer id, name or contact.
func (s *CustomerStore) Search(ctx context.Context, term string) ([]domain.Customer, error) {
	like := "%" + term + "%"
	var customers []domain.Customer
	err := s.db.SelectContext(ctx, &customers, `SELECT customer_id, name, contact, email, address FROM customers
        WHERE customer_id LIKE ? OR name LIKE ? OR contact LIKE ? ORDER BY name`, like, like, like)
	return customers, err
}

func (s *CustomerStore) ByID(ctx context.Context, customerID string) (domain.Customer, error) {
	var c domain.Customer
	err := s.db.GetContext(ctx, &c, `SELECT customer_id, name, contact, email, address FROM customers WHERE customer_id = ?`, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, err
}

func (s *CustomerStore) Add(ctx context.Context, c domain.Customer) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO customers (customer_id, name, contact, email, address) VALUES (?, ?, ?, ?, ?)`,
		c.CustomerID, c.Name, c.Contact, c.Email, c.Address)
	return err
}

func (s *CustomerStore) Update(ctx context.Context, c domain.Customer) error {
	res, err := s.db.ExecContext(ctx, `UPDATE customers SET name = ?, contact = ?, email = ?, address = ? WHERE customer_id = ?`,
		c.Name, c.Contact, c.Email, c.Address, c.CustomerID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *CustomerStore) Delete(ctx context.Context, customerID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE customer_id = ?`, customerID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
