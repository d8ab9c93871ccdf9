package domain

type Customer struct {
	CustomerID string `db:"customer_id" json:"customer_id"`
	Name       string `db:"name" json:"name"`
	Contact    string `db:"contact" json:"contact"`
	Email      string `db:"email" json:"email"`
	Address    string `db:"address" json:"address"`
}
