package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOf(v int64) *int64 {
	return &v
}

func TestGenerateRowCount(t *testing.T) {
	for _, n := range []int{1, 2, 10, 1000} {
		table := Generate(n, seedOf(7))
		assert.Equal(t, n, table.Len(), "rows for n=%d", n)
	}
}

func TestGenerateNonPositiveIsEmpty(t *testing.T) {
	assert.Equal(t, 0, Generate(0, seedOf(1)).Len())
	assert.Equal(t, 0, Generate(-5, seedOf(1)).Len())
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(500, seedOf(42))
	b := Generate(500, seedOf(42))
	require.Equal(t, a, b)

	c := Generate(500, seedOf(43))
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestGenerateSequentialIDs(t *testing.T) {
	table := Generate(250, seedOf(3))
	for i, row := range table.Rows {
		require.Equal(t, i+1, row.ID)
	}
}

func TestGenerateDistributions(t *testing.T) {
	table := Generate(5000, seedOf(11))

	types := map[string]bool{}
	for _, v := range TransactionTypes {
		types[v] = true
	}
	locations := map[string]bool{}
	for _, v := range Locations {
		locations[v] = true
	}

	compliant := 0
	for i, row := range table.Rows {
		assert.GreaterOrEqual(t, row.ClientID, ClientIDMin)
		assert.Less(t, row.ClientID, ClientIDMax)
		assert.GreaterOrEqual(t, row.Amount, AmountMin)
		assert.Less(t, row.Amount, AmountMax)
		assert.GreaterOrEqual(t, row.Balance, BalanceMin)
		assert.Less(t, row.Balance, BalanceMax)
		assert.True(t, types[row.Type], "unexpected type %q", row.Type)
		assert.True(t, locations[row.Location], "unexpected location %q", row.Location)
		assert.Equal(t, StartDate.Add(time.Duration(i)*time.Hour), row.Date)
		if row.Compliance {
			compliant++
		}
	}

	rate := float64(compliant) / float64(table.Len())
	assert.InDelta(t, ComplianceRate, rate, 0.03)
}

func TestGenerateDatesIncrease(t *testing.T) {
	table := Generate(48, seedOf(5))
	for i := 1; i < table.Len(); i++ {
		assert.True(t, table.Rows[i].Date.After(table.Rows[i-1].Date))
	}
	assert.Equal(t, "2023-01-02 23:00:00", table.Rows[47].Date.Format(DateLayout))
}

func TestRecord(t *testing.T) {
	row := Transaction{
		ID:         3,
		ClientID:   1042,
		Amount:     123.5,
		Type:       "payment",
		Date:       StartDate.Add(2 * time.Hour),
		Compliance: false,
		Balance:    99999.25,
		Location:   "TX",
	}

	assert.Equal(t, []string{
		"3", "1042", "123.5", "payment", "2023-01-01 02:00:00", "False", "99999.25", "TX",
	}, row.Record())
	assert.Len(t, row.Record(), len(Columns))
}

func TestNewSourceSeeded(t *testing.T) {
	a := NewSource(seedOf(99))
	b := NewSource(seedOf(99))
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Uint32(), b.Uint32())
	}
}
