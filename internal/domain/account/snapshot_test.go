package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	acc, _ := NewBankAccount("John Doe", d("500.00"))
	require.NoError(t, acc.Deposit(d("25.00")))

	restored, err := Restore(acc.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, acc.Number(), restored.Number())
	assert.Equal(t, acc.HolderName(), restored.HolderName())
	assert.Equal(t, acc.Type(), restored.Type())
	assert.Equal(t, acc.IsActive(), restored.IsActive())
	assert.Equal(t, "525.00", restored.Balance().StringFixed(2))
	assert.True(t, acc.OpeningDate().Equal(restored.OpeningDate()))
}

func TestRestoreClosedAccountKeepsClosingDate(t *testing.T) {
	acc, _ := NewCheckingAccount("Jane Doe", d("100.00"))
	require.NoError(t, acc.Close())

	restored, err := Restore(acc.Snapshot())
	require.NoError(t, err)

	assert.False(t, restored.IsActive())
	closing, ok := restored.ClosingDate()
	assert.True(t, ok)
	origClosing, _ := acc.ClosingDate()
	assert.True(t, origClosing.Equal(closing))
}

func TestRestoreVariantDefaults(t *testing.T) {
	t.Run("Investment", func(t *testing.T) {
		restored, err := Restore(Snapshot{
			Number:      "200000001",
			HolderName:  "Jane Doe",
			Balance:     d("2000.00"),
			Type:        TypeInvestment,
			Active:      true,
			OpeningDate: time.Now(),
		})
		require.NoError(t, err)

		inv, ok := restored.(*InvestmentAccount)
		require.True(t, ok)
		assert.Equal(t, "2.50", inv.InterestRate().StringFixed(2))
	})

	t.Run("CreditCard", func(t *testing.T) {
		restored, err := Restore(Snapshot{
			Number:      "400000001",
			HolderName:  "Jane Doe",
			Balance:     d("-250.00"),
			Type:        TypeCreditCard,
			Active:      true,
			OpeningDate: time.Now(),
		})
		require.NoError(t, err)

		card, ok := restored.(*CreditCardAccount)
		require.True(t, ok)
		assert.Equal(t, "1000.00", card.CreditLimit().StringFixed(2))
		assert.Equal(t, "18.99", card.InterestRate().StringFixed(2))
		assert.Equal(t, "250.00", card.CurrentDebt().StringFixed(2))
	})
}

func TestRestoreUnknownType(t *testing.T) {
	_, err := Restore(Snapshot{Number: "900000001", Type: Type("Savings Account")})
	assert.ErrorIs(t, err, ErrInvalidAccount)
}
