package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/hance08/banktech/internal/gateway"
	"github.com/hance08/banktech/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_FilterByQuery(t *testing.T) {
	g := NewDemo()

	accounts, err := g.ListAccounts(context.Background(), gateway.Query{"userId": "1"})
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	accounts, err = g.ListAccounts(context.Background(), gateway.Query{"accountNumber": "20000001"})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "2", accounts[0].UserID)

	users, err := g.ListUsers(context.Background(), gateway.Query{"email": "demo@banktech.com", "password": "wrong"})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGateway_Script(t *testing.T) {
	g := New()
	boom := errors.New("boom")
	g.Script("CreateAccount", nil, boom)

	_, err := g.CreateAccount(context.Background(), model.Account{UserID: "1"})
	require.NoError(t, err)

	_, err = g.CreateAccount(context.Background(), model.Account{UserID: "1"})
	assert.ErrorIs(t, err, boom)

	_, err = g.CreateAccount(context.Background(), model.Account{UserID: "1"})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Calls("CreateAccount"))
}

func TestGateway_DeleteMissing(t *testing.T) {
	g := New()
	assert.ErrorIs(t, g.DeleteAccount(context.Background(), "nope"), gateway.ErrNotFound)
	assert.ErrorIs(t, g.DeleteTransaction(context.Background(), "nope"), gateway.ErrNotFound)
}

func TestGateway_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	g := NewDemo()
	first, err := g.CreateTransaction(ctx, model.Transaction{SourceAccount: "10000001", ReceiverAccount: "20000001"})
	require.NoError(t, err)
	g.Script("ListAccounts", errors.New("scripted"))

	raw, err := g.Snapshot()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.Restore(raw))

	txIDs := func(gw *Gateway) []string {
		var out []string
		for _, tx := range gw.Transactions() {
			out = append(out, tx.ID)
		}
		return out
	}
	assert.Equal(t, txIDs(g), txIDs(restored))
	accounts, err := restored.ListAccounts(ctx, gateway.Query{"userId": "1"})
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	// ids keep counting from where the previous process stopped
	second, err := restored.CreateTransaction(ctx, model.Transaction{SourceAccount: "10000001"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Error(t, restored.Restore([]byte("{")))
	assert.Len(t, restored.Transactions(), len(g.Transactions())+1)
}
