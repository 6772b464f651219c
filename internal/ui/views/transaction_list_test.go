package views

import (
	"testing"

	"github.com/hance08/banktech/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransactionItems(t *testing.T) {
	txs := []model.Transaction{
		{ID: "1", SourceAccount: "10000001", ReceiverAccount: "20000001", UserID: "u1", ReceiverUserID: "u2", Amount: decimal.NewFromInt(40)},
		{ID: "2", SourceAccount: "20000001", ReceiverAccount: "10000001", UserID: "u2", ReceiverUserID: "u1", Amount: decimal.NewFromInt(15)},
	}

	items := BuildTransactionItems(txs, "u1", "10000001", "")
	require.Len(t, items, 2)

	assert.Equal(t, "Expense", items[0].Direction)
	assert.Equal(t, "20000001", items[0].Counterpart)
	assert.Equal(t, "-40.00", items[0].Amount)

	assert.Equal(t, "Income", items[1].Direction)
	assert.Equal(t, "20000001", items[1].Counterpart)
	assert.Equal(t, "+15.00", items[1].Amount)
}
