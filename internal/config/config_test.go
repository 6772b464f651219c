package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxTransferAmount(t *testing.T) {
	cfg := NewDefault()

	max, err := cfg.MaxTransferAmount()
	require.NoError(t, err)
	assert.True(t, max.Equal(decimal.NewFromInt(50000)))

	cfg.Transfer.MaxAmount = "abc"
	_, err = cfg.MaxTransferAmount()
	assert.Error(t, err)

	cfg.Transfer.MaxAmount = "-1"
	_, err = cfg.MaxTransferAmount()
	assert.Error(t, err)
}
