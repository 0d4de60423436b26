package generator

import (
	"math/rand"
	"time"
)

// NewSource returns a random source seeded with seed, or with the current
// time when seed is nil.
func NewSource(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(*seed))
}

// Generate builds a table of nRows transactions. The source is private to the
// call, so the same seed always yields the same table. Values are drawn row by
// row in column order.
func Generate(nRows int, seed *int64) *Table {
	g := newRowGenerator(NewSource(seed))

	table := &Table{Rows: make([]Transaction, 0, max(nRows, 0))}
	for i := 1; i <= nRows; i++ {
		table.Rows = append(table.Rows, g.next(i))
	}
	return table
}

type rowGenerator struct {
	rand *rand.Rand
}

func newRowGenerator(r *rand.Rand) *rowGenerator {
	return &rowGenerator{rand: r}
}

func (g *rowGenerator) next(id int) Transaction {
	return Transaction{
		ID:         id,
		ClientID:   ClientIDMin + g.rand.Intn(ClientIDMax-ClientIDMin),
		Amount:     g.uniform(AmountMin, AmountMax),
		Type:       g.pick(TransactionTypes),
		Date:       StartDate.Add(time.Duration(id-1) * time.Hour),
		Compliance: g.rand.Float64() < ComplianceRate,
		Balance:    g.uniform(BalanceMin, BalanceMax),
		Location:   g.pick(Locations),
	}
}

func (g *rowGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rand.Float64()*(hi-lo)
}

func (g *rowGenerator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}
