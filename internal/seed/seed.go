package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the default login when the users table is empty so a
// fresh install can be signed into. The password should be changed after
// first login.
func EnsureAdmin(db *sqlx.DB, username, password string) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM users`); err != nil {
		log.Printf("unable to inspect users table: %v", err)
		return
	}
	if count > 0 {
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("unable to hash default password: %v", err)
		return
	}
	if _, err := db.Exec(`INSERT INTO users (username, password) VALUES (?, ?)`, username, hashed); err != nil {
		log.Printf("unable to create default user: %v", err)
		return
	}
	log.Printf("created default user %q", username)
}

// LoadMedicines ingests the CSV catalog into the medicines table, ignoring
// rows whose identifier already exists. Columns:
// medicine_id,name,description,supplier_id,price,quantity,expiry_date,location
func LoadMedicines(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load medicine catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read medicine header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start medicine transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO medicines (medicine_id, name, description, supplier_id, price, quantity, expiry_date, location) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare medicine insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read medicine row: %v", err)
			continue
		}
		if len(record) < 8 {
			continue
		}
		id := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		if id == "" || name == "" {
			continue
		}

		if _, err := stmt.Exec(id, name,
			nullIfEmpty(record[2]), nullIfEmpty(record[3]),
			strings.TrimSpace(record[4]), strings.TrimSpace(record[5]),
			nullIfEmpty(record[6]), nullIfEmpty(record[7])); err != nil {
			log.Printf("unable to insert medicine %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit medicine seed: %v", err)
	} else {
		log.Printf("seeded medicine catalog with %d rows", rows)
	}
}

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
