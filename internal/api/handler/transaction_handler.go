package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/banking-account-core/internal/api/service"
)

const dateQueryLayout = "2006-01-02"

// TransactionHandler handles HTTP requests for money movement and ledger queries
type TransactionHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, accountService service.AccountService) *TransactionHandler {
	return &TransactionHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Deposit credits an account
func (h *TransactionHandler) Deposit(c *gin.Context) {
	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}
	acc, err := h.accountService.Deposit(c.Request.Context(), c.Param("number"), amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Withdraw debits an account subject to its per-type rules
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}
	acc, err := h.accountService.Withdraw(c.Request.Context(), c.Param("number"), amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Transfer atomically moves funds between two accounts
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid transfer amount")
		return
	}

	if err := h.accountService.Transfer(c.Request.Context(), req.FromAccount, req.ToAccount, amount); err != nil {
		h.logger.Warn("Transfer failed", "from", req.FromAccount, "to", req.ToAccount, "error", err)
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"from_account": req.FromAccount,
		"to_account":   req.ToAccount,
		"amount":       amount.StringFixed(2),
	})
}

// Purchase charges a purchase against a credit card account
func (h *TransactionHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid purchase amount")
		return
	}

	acc, err := h.accountService.MakePurchase(c.Request.Context(), c.Param("number"), amount, req.Description)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Payment pays down the debt on a credit card account
func (h *TransactionHandler) Payment(c *gin.Context) {
	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}
	acc, err := h.accountService.MakePayment(c.Request.Context(), c.Param("number"), amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// ListTransactions returns an account's ledger, filtered by the type, from,
// to, and recent query parameters.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	number := c.Param("number")

	recent := 0
	if recentParam := c.Query("recent"); recentParam != "" {
		n, err := strconv.Atoi(recentParam)
		if err != nil || n <= 0 {
			RespondBadRequest(c, "recent must be a positive integer")
			return
		}
		recent = n
	}

	var from, to *time.Time
	if fromParam := c.Query("from"); fromParam != "" {
		t, err := time.Parse(dateQueryLayout, fromParam)
		if err != nil {
			RespondBadRequest(c, "from must be a yyyy-mm-dd date")
			return
		}
		from = &t
	}
	if toParam := c.Query("to"); toParam != "" {
		t, err := time.Parse(dateQueryLayout, toParam)
		if err != nil {
			RespondBadRequest(c, "to must be a yyyy-mm-dd date")
			return
		}
		to = &t
	}
	if (from == nil) != (to == nil) {
		RespondBadRequest(c, "from and to must be provided together")
		return
	}

	transactions, err := h.accountService.Transactions(number, c.Query("type"), from, to, recent)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	resp := TransactionListResponse{
		AccountNumber: number,
		Transactions:  make([]TransactionResponse, 0, len(transactions)),
	}
	for _, tx := range transactions {
		resp.Transactions = append(resp.Transactions, mapTransactionToResponse(tx))
	}
	RespondOK(c, resp)
}

func (h *TransactionHandler) bindAmount(c *gin.Context) (decimal.Decimal, bool) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return decimal.Decimal{}, false
	}
	return amount, true
}
