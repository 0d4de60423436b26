package generator

import (
	"strconv"
	"time"
)

// Column names in output order.
var Columns = []string{
	"transaction_id_anonymized",
	"client_id_anonymized",
	"transaction_amount_anonymized",
	"transaction_type_anonymized",
	"transaction_date_anonymized",
	"compliance_flag_anonymized",
	"account_balance_anonymized",
	"location_anonymized",
}

var (
	TransactionTypes = []string{"deposit", "withdrawal", "transfer", "payment"}
	Locations        = []string{"NY", "CA", "TX", "FL", "IL"}
)

const (
	ClientIDMin = 1000
	ClientIDMax = 1100 // exclusive

	AmountMin = 10.0
	AmountMax = 15_000.0

	BalanceMin = 100.0
	BalanceMax = 100_000.0

	// ComplianceRate is the probability that a row is flagged compliant.
	ComplianceRate = 0.9

	// DateLayout is how transaction dates are written to delimited output.
	DateLayout = "2006-01-02 15:04:05"
)

// StartDate is the timestamp of the first row; each following row is one hour later.
var StartDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

type Transaction struct {
	ID         int       `json:"transaction_id_anonymized"`
	ClientID   int       `json:"client_id_anonymized"`
	Amount     float64   `json:"transaction_amount_anonymized"`
	Type       string    `json:"transaction_type_anonymized"`
	Date       time.Time `json:"transaction_date_anonymized"`
	Compliance bool      `json:"compliance_flag_anonymized"`
	Balance    float64   `json:"account_balance_anonymized"`
	Location   string    `json:"location_anonymized"`
}

// Record formats the row in Columns order.
func (t Transaction) Record() []string {
	return []string{
		strconv.Itoa(t.ID),
		strconv.Itoa(t.ClientID),
		strconv.FormatFloat(t.Amount, 'f', -1, 64),
		t.Type,
		t.Date.Format(DateLayout),
		formatFlag(t.Compliance),
		strconv.FormatFloat(t.Balance, 'f', -1, 64),
		t.Location,
	}
}

// Flags are written capitalised so files stay readable by tools built
// against the older generator output.
func formatFlag(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

type Table struct {
	Rows []Transaction
}

func (t *Table) Len() int {
	return len(t.Rows)
}
