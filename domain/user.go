package domain

type User struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Password  string `db:"password" json:"-"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`
}
