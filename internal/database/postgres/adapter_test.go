package postgres

import (
	"testing"

	"github.com/Rana718/txgen/internal/database/common"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistsQuery(t *testing.T) {
	query, args, err := New().existsQuery("transactions_anonymized_1_10rows")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) > 0 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1", query)
	assert.Equal(t, []interface{}{"transactions_anonymized_1_10rows"}, args)
}

func TestCreateTableDDL(t *testing.T) {
	ddl, err := common.CreateTableSQL(pq.QuoteIdentifier, "tx", columnTypes)
	require.NoError(t, err)
	assert.Contains(t, ddl, `CREATE TABLE "tx"`)
	assert.Contains(t, ddl, `"transaction_date_anonymized" TIMESTAMP NOT NULL`)
	assert.Contains(t, ddl, `"compliance_flag_anonymized" BOOLEAN NOT NULL`)
}
