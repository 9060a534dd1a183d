package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryOperation(t *testing.T) {
	assert.Equal(t, "select", queryOperation("\n\t\tSELECT id FROM fills"))
	assert.Equal(t, "insert", queryOperation("INSERT INTO fills VALUES ($1)"))
	assert.Equal(t, "delete", queryOperation("DELETE FROM fills WHERE account_id = $1"))
	assert.Equal(t, "unknown", queryOperation("   "))
}
