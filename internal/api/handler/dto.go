package handler

import (
	"time"

	"github.com/banking-account-core/internal/domain/account"
)

// CreateAccountRequest represents a request to open a new account. Amounts
// travel as decimal strings to avoid binary float rounding on the wire.
type CreateAccountRequest struct {
	HolderName     string `json:"holder_name" binding:"required"`
	AccountType    string `json:"account_type" binding:"required,oneof=bank checking investment credit_card"`
	InitialDeposit string `json:"initial_deposit,omitempty"`
	CreditLimit    string `json:"credit_limit,omitempty"`
}

// AmountRequest carries the amount of a deposit, withdrawal, or payment
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// PurchaseRequest carries a credit card purchase
type PurchaseRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description,omitempty"`
}

// TransferRequest carries an account-to-account transfer
type TransferRequest struct {
	FromAccount string `json:"from_account" binding:"required"`
	ToAccount   string `json:"to_account" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

// InterestRateRequest carries a new annual interest rate in percent
type InterestRateRequest struct {
	Rate string `json:"rate" binding:"required"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	AccountNumber string `json:"account_number"`
	HolderName    string `json:"holder_name"`
	Balance       string `json:"balance"`
	AccountType   string `json:"account_type"`
	IsActive      bool   `json:"is_active"`
	OpeningDate   string `json:"opening_date"`
	ClosingDate   string `json:"closing_date,omitempty"`

	// Credit card extras, omitted for other types
	CreditLimit     string `json:"credit_limit,omitempty"`
	AvailableCredit string `json:"available_credit,omitempty"`
	MinimumPayment  string `json:"minimum_payment,omitempty"`
}

// TransactionResponse represents one ledger entry in API responses
type TransactionResponse struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	BalanceAfter string `json:"balance_after"`
}

// TransactionListResponse represents a list of ledger entries
type TransactionListResponse struct {
	AccountNumber string                `json:"account_number"`
	Transactions  []TransactionResponse `json:"transactions"`
}

// AccountListResponse represents a list of accounts
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// requestTypeNames maps API type names to the domain type strings
var requestTypeNames = map[string]account.Type{
	"bank":        account.TypeBank,
	"checking":    account.TypeChecking,
	"investment":  account.TypeInvestment,
	"credit_card": account.TypeCreditCard,
}

func mapAccountToResponse(acc account.Account) AccountResponse {
	resp := AccountResponse{
		AccountNumber: acc.Number(),
		HolderName:    acc.HolderName(),
		Balance:       acc.Balance().StringFixed(2),
		AccountType:   string(acc.Type()),
		IsActive:      acc.IsActive(),
		OpeningDate:   acc.OpeningDate().Format(time.RFC3339),
	}
	if closing, ok := acc.ClosingDate(); ok {
		resp.ClosingDate = closing.Format(time.RFC3339)
	}
	if card, ok := acc.(*account.CreditCardAccount); ok {
		resp.CreditLimit = card.CreditLimit().StringFixed(2)
		resp.AvailableCredit = card.AvailableCredit().StringFixed(2)
		resp.MinimumPayment = card.MinimumPaymentDue().StringFixed(2)
	}
	return resp
}

func mapTransactionToResponse(tx account.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID.String(),
		Timestamp:    tx.Timestamp.Format(time.RFC3339),
		Type:         tx.Type,
		Amount:       tx.Amount.StringFixed(2),
		Description:  tx.Description,
		BalanceAfter: tx.BalanceAfter.StringFixed(2),
	}
}
