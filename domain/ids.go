package domain

import (
	"fmt"
	"math/rand"
)

// Identifier generators for new records. Collisions are possible and are
// caught by primary-key constraints at insert time.

func NewMedicineID() string { return fmt.Sprintf("MED%04d", rand.Intn(9000)+1000) }

func NewSupplierID() string { return fmt.Sprintf("SUP%04d", rand.Intn(9000)+1000) }

func NewCustomerID() string { return fmt.Sprintf("CUST%04d", rand.Intn(9000)+1000) }

func NewBillID() string { return fmt.Sprintf("BILL-%04d", rand.Intn(9000)+1000) }
