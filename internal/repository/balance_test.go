package repository_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/testutil"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

func Test_balanceRepository_GuardedMutations(t *testing.T) {
	ctx := testutil.MockContext()
	balanceRepo := repository.NewBalanceRepository()

	// The fixture funds user1 with wallet 100_000 and bank 50_000.
	require.NoError(t, balanceRepo.SubtractWallet(ctx, testutil.User1.ID, testutil.Community1.ID, 100_000))

	// The wallet is empty now; the guard rejects any further debit and
	// leaves the row untouched.
	err := balanceRepo.SubtractWallet(ctx, testutil.User1.ID, testutil.Community1.ID, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	account, err := balanceRepo.Get(ctx, testutil.User1.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), account.Wallet)
	require.Equal(t, int64(50_000), account.Bank)

	// A missing account is indistinguishable from an empty one to the
	// guard.
	err = balanceRepo.SubtractWallet(ctx, "nobody", testutil.Community1.ID, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_balanceRepository_GetOrCreate(t *testing.T) {
	ctx := testutil.MockContext()
	balanceRepo := repository.NewBalanceRepository()

	account, err := balanceRepo.GetOrCreate(ctx, testutil.User1.ID, testutil.Community2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), account.Wallet)
	require.Equal(t, int64(0), account.Bank)

	// A second call returns the same row instead of resetting it.
	require.NoError(t, balanceRepo.AddWallet(ctx, testutil.User1.ID, testutil.Community2.ID, 500))
	account, err = balanceRepo.GetOrCreate(ctx, testutil.User1.ID, testutil.Community2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(500), account.Wallet)
}

func Test_balanceRepository_TransferBank(t *testing.T) {
	ctx := testutil.MockContext()
	balanceRepo := repository.NewBalanceRepository()

	txCtx := xcontext.WithDBTransaction(ctx)
	err := balanceRepo.TransferBank(
		txCtx, testutil.User1.ID, testutil.User2.ID, testutil.Community1.ID, 10_000)
	require.NoError(t, err)
	xcontext.WithCommitDBTransaction(txCtx)

	from, err := balanceRepo.Get(ctx, testutil.User1.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(40_000), from.Bank)

	to, err := balanceRepo.Get(ctx, testutil.User2.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(60_000), to.Bank)

	// An uncovered transfer fails on the debit and credits nobody.
	txCtx = xcontext.WithDBTransaction(ctx)
	err = balanceRepo.TransferBank(
		txCtx, testutil.User1.ID, testutil.User2.ID, testutil.Community1.ID, 1_000_000)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	xcontext.WithRollbackDBTransaction(txCtx)

	to, err = balanceRepo.Get(ctx, testutil.User2.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(60_000), to.Bank)
}

func Test_balanceRepository_WalletToBank(t *testing.T) {
	ctx := testutil.MockContext()
	balanceRepo := repository.NewBalanceRepository()

	require.NoError(t, balanceRepo.WalletToBank(
		ctx, testutil.User1.ID, testutil.Community1.ID, 30_000))

	account, err := balanceRepo.Get(ctx, testutil.User1.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(70_000), account.Wallet)
	require.Equal(t, int64(80_000), account.Bank)

	// The move is one guarded statement. When the wallet is short, neither
	// column changes, with no transaction needed around the call.
	err = balanceRepo.WalletToBank(ctx, testutil.User1.ID, testutil.Community1.ID, 70_001)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	account, err = balanceRepo.Get(ctx, testutil.User1.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(70_000), account.Wallet)
	require.Equal(t, int64(80_000), account.Bank)

	err = balanceRepo.WalletToBank(ctx, "nobody", testutil.Community1.ID, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
