package account

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreditCardAccount(t *testing.T) {
	t.Run("StartsWithZeroBalance", func(t *testing.T) {
		card, err := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, err)
		assert.True(t, card.Balance().IsZero())
		assert.Equal(t, "500.00", card.CreditLimit().StringFixed(2))
		assert.Equal(t, "18.99", card.InterestRate().StringFixed(2))
		assert.True(t, card.Verify())
	})

	t.Run("NonPositiveCreditLimit", func(t *testing.T) {
		_, err := NewCreditCardAccount("Jane Doe", decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = NewCreditCardAccount("Jane Doe", d("-100.00"))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestCreditCardAccount_Purchase(t *testing.T) {
	t.Run("DrivesBalanceNegative", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, card.MakePurchase(d("200.00"), "groceries"))

		assert.Equal(t, "-200.00", card.Balance().StringFixed(2))
		assert.Equal(t, "200.00", card.CurrentDebt().StringFixed(2))
		assert.Equal(t, "300.00", card.AvailableCredit().StringFixed(2))

		entries := card.TransactionsByType(TxPurchase)
		require.Len(t, entries, 1)
		assert.Equal(t, "groceries", entries[0].Description)
	})

	t.Run("ExactLimitSucceeds", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, card.MakePurchase(d("500.00"), "rent"))
		assert.True(t, card.AvailableCredit().IsZero())
	})

	t.Run("BeyondAvailableCreditFails", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, card.MakePurchase(d("400.00"), "rent"))

		err := card.MakePurchase(d("150.00"), "shoes")
		assert.ErrorIs(t, err, ErrTransactionLimit)
		assert.Equal(t, "-400.00", card.Balance().StringFixed(2))
	})

	t.Run("WithdrawIsAPurchase", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, card.Withdraw(d("50.00")))
		assert.Len(t, card.TransactionsByType(TxPurchase), 1)
	})
}

func TestCreditCardAccount_Payment(t *testing.T) {
	t.Run("ReducesDebt", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, card.MakePurchase(d("300.00"), "groceries"))
		require.NoError(t, card.MakePayment(d("100.00")))

		assert.Equal(t, "200.00", card.CurrentDebt().StringFixed(2))
		assert.Equal(t, "300.00", card.AvailableCredit().StringFixed(2))
	})

	t.Run("ExceedingDebtFails", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, card.MakePurchase(d("100.00"), "groceries"))

		err := card.MakePayment(d("150.00"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, "100.00", card.CurrentDebt().StringFixed(2))
	})

	t.Run("DepositIsAPayment", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, card.MakePurchase(d("100.00"), "groceries"))
		require.NoError(t, card.Deposit(d("100.00")))
		assert.True(t, card.CurrentDebt().IsZero())
	})
}

func TestCreditCardAccount_MinimumPaymentDue(t *testing.T) {
	card, _ := NewCreditCardAccount("Jane Doe", d("5000.00"))

	// No debt still quotes the floor
	assert.Equal(t, "20.00", card.MinimumPaymentDue().StringFixed(2))

	// 2% of 500 is 10, below the 20 floor
	require.NoError(t, card.MakePurchase(d("500.00"), "groceries"))
	assert.Equal(t, "20.00", card.MinimumPaymentDue().StringFixed(2))

	// 2% of 2000 is 40, above the floor
	require.NoError(t, card.MakePurchase(d("1500.00"), "travel"))
	assert.Equal(t, "40.00", card.MinimumPaymentDue().StringFixed(2))
}

func TestCreditCardAccount_ApplyMonthlyInterest(t *testing.T) {
	t.Run("ChargesInterestOnDebt", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("5000.00"))
		require.NoError(t, card.SetInterestRate(d("12.00")))
		require.NoError(t, card.MakePurchase(d("1200.00"), "travel"))

		// 1200 * 12% / 12 months = 12.00
		charged, err := card.ApplyMonthlyInterest()
		require.NoError(t, err)
		assert.Equal(t, "12.00", charged.StringFixed(2))
		assert.Equal(t, "1212.00", card.CurrentDebt().StringFixed(2))

		entries := card.TransactionsByType(TxInterestCharge)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Description, "12.00%")
	})

	t.Run("NoDebtNoCharge", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		charged, err := card.ApplyMonthlyInterest()
		require.NoError(t, err)
		assert.True(t, charged.IsZero())
		assert.Empty(t, card.TransactionsByType(TxInterestCharge))
	})

	t.Run("ClosedAccount", func(t *testing.T) {
		card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))
		require.NoError(t, card.Close())
		_, err := card.ApplyMonthlyInterest()
		assert.ErrorIs(t, err, ErrAccountClosed)
	})
}

func TestCreditCardAccount_SetInterestRate(t *testing.T) {
	card, _ := NewCreditCardAccount("Jane Doe", d("500.00"))

	require.NoError(t, card.SetInterestRate(d("21.50")))
	assert.Equal(t, "21.50", card.InterestRate().StringFixed(2))
	require.Len(t, card.TransactionsByType(TxInterestRateChange), 1)

	assert.ErrorIs(t, card.SetInterestRate(d("-1.00")), ErrInvalidAmount)
	assert.Equal(t, "21.50", card.InterestRate().StringFixed(2))
}
