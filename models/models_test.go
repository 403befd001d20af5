package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	for _, in := range []string{"urgent", " High ", "NORMAL", "low"} {
		p, err := ParsePriority(in)
		require.NoError(t, err, in)
		assert.GreaterOrEqual(t, p.Rank(), 0)
	}

	_, err := ParsePriority("someday")
	assert.Error(t, err)
	_, err = ParsePriority("")
	assert.Error(t, err)
}

func TestPriorityRank(t *testing.T) {
	for i, p := range Priorities {
		assert.Equal(t, i, p.Rank(), p.String())
	}
	assert.Equal(t, -1, Priority("later").Rank())
}

func TestParseTransactionKind(t *testing.T) {
	k, err := ParseTransactionKind("income")
	require.NoError(t, err)
	assert.Equal(t, KindIncome, k)

	_, err = ParseTransactionKind("LOAN")
	assert.Error(t, err)
}

func TestCategorySuggestionsFor(t *testing.T) {
	assert.Contains(t, DefaultCategories.For(KindIncome), "Salary")
	assert.Contains(t, DefaultCategories.For(KindExpense), "Food")
	assert.Nil(t, DefaultCategories.For("LOAN"))
}
