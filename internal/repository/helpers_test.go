package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildUpdateSet_DeterministicOrder(t *testing.T) {
	fields := map[string]string{
		"notes":     "checked",
		"bank_name": "HDFC",
		"city":      "Pune",
	}

	clause, args := buildUpdateSet(fields, 3)

	assert.Equal(t, "bank_name = $3, city = $4, notes = $5", clause)
	assert.Equal(t, []any{"HDFC", "Pune", "checked"}, args)
}

func TestBuildUpdateSet_Empty(t *testing.T) {
	clause, args := buildUpdateSet(nil, 1)

	assert.Empty(t, clause)
	assert.Empty(t, args)
}
