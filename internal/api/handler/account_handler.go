package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/banking-account-core/internal/api/service"
	"github.com/banking-account-core/internal/domain/account"
)

// AccountHandler handles HTTP requests for account lifecycle operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles opening a new account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	typ := requestTypeNames[req.AccountType]

	initialDeposit := decimal.Zero
	if req.InitialDeposit != "" {
		var err error
		initialDeposit, err = decimal.NewFromString(req.InitialDeposit)
		if err != nil {
			RespondBadRequest(c, "Invalid initial deposit amount")
			return
		}
	}

	creditLimit := decimal.Zero
	if typ == account.TypeCreditCard {
		if req.CreditLimit == "" {
			RespondBadRequest(c, "credit_limit is required for credit card accounts")
			return
		}
		var err error
		creditLimit, err = decimal.NewFromString(req.CreditLimit)
		if err != nil {
			RespondBadRequest(c, "Invalid credit limit")
			return
		}
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), typ, req.HolderName, initialDeposit, creditLimit)
	if err != nil {
		h.logger.Error("Failed to create account", "type", req.AccountType, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByNumber retrieves an account by its number, returning 404 if not found
func (h *AccountHandler) GetByNumber(c *gin.Context) {
	acc, err := h.accountService.GetAccount(c.Param("number"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// List returns accounts filtered by the status, type, and holder query
// parameters. A holder filter takes precedence over the others.
func (h *AccountHandler) List(c *gin.Context) {
	if holder := c.Query("holder"); holder != "" {
		accounts := h.accountService.SearchAccounts(holder)
		RespondOK(c, mapAccountList(accounts))
		return
	}

	var typ account.Type
	if typName := c.Query("type"); typName != "" {
		mapped, ok := requestTypeNames[typName]
		if !ok {
			RespondBadRequest(c, "Unknown account type filter")
			return
		}
		typ = mapped
	}

	accounts, err := h.accountService.ListAccounts(c.Query("status"), typ)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	RespondOK(c, mapAccountList(accounts))
}

// Close deactivates an account
func (h *AccountHandler) Close(c *gin.Context) {
	acc, err := h.accountService.CloseAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.logger.Warn("Failed to close account", "account_number", c.Param("number"), "error", err)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Reopen reactivates a closed account
func (h *AccountHandler) Reopen(c *gin.Context) {
	acc, err := h.accountService.ReopenAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.logger.Warn("Failed to reopen account", "account_number", c.Param("number"), "error", err)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// SetInterestRate changes the annual rate on investment and credit card accounts
func (h *AccountHandler) SetInterestRate(c *gin.Context) {
	var req InterestRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		RespondBadRequest(c, "Invalid interest rate")
		return
	}

	acc, err := h.accountService.SetInterestRate(c.Request.Context(), c.Param("number"), rate)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

func mapAccountList(accounts []account.Account) AccountListResponse {
	out := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, acc := range accounts {
		out.Accounts = append(out.Accounts, mapAccountToResponse(acc))
	}
	return out
}
