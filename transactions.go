package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"keepara/model"
	"keepara/store"
)

// Transaction handler functions

// TransactionRequest is the create/update payload for a transaction.
type TransactionRequest struct {
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Reconciled    bool            `json:"reconciled"`
	Client        string          `json:"client"`
	ClientID      *int            `json:"client_id"`
	InvoiceID     string          `json:"invoice_id"`
	Reference     string          `json:"reference"`
	PaymentMethod string          `json:"payment_method"`
	AIConfidence  *float64        `json:"ai_confidence"`
}

// BulkReconcileRequest selects the transactions to mark reconciled.
type BulkReconcileRequest struct {
	IDs []int `json:"ids"`
}

func (r TransactionRequest) toModel() (model.Transaction, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{
		Date:          date,
		Description:   r.Description,
		Category:      r.Category,
		Amount:        r.Amount,
		Type:          r.Type,
		Status:        r.Status,
		Reconciled:    r.Reconciled,
		Client:        r.Client,
		ClientID:      r.ClientID,
		InvoiceID:     r.InvoiceID,
		Reference:     r.Reference,
		PaymentMethod: r.PaymentMethod,
		AIConfidence:  r.AIConfidence,
	}, nil
}

// parseDate accepts RFC3339 timestamps and plain dates; empty means "now".
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", s)
}

// matchesTransactionStatus applies the status filter used by the
// transactions list: all, reconciled, pending, income or expense.
func matchesTransactionStatus(txn model.Transaction, status string) bool {
	switch status {
	case "", "all":
		return true
	case "reconciled":
		return txn.Reconciled
	case "pending":
		return !txn.Reconciled
	case "income", "expense":
		return txn.Type == status
	default:
		return false
	}
}

// @Summary Get all transactions
// @Description Retrieve all transactions, most recent first, with optional search and status filters
// @Tags transactions
// @Produce json
// @Param search query string false "Search over description, client, category and reference"
// @Param status query string false "all|reconciled|pending|income|expense"
// @Success 200 {array} model.Transaction "List of transactions"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions [get]
func getTransactions(c *gin.Context) {
	records, err := recordStore.GetAll(context.Background(), store.EntityTransaction)
	if err != nil {
		handleStoreError(c, err, "fetching transactions")
		return
	}

	search := c.Query("search")
	status := c.Query("status")
	transactions := []model.Transaction{}
	for _, r := range records {
		txn := model.TransactionFromRecord(r)
		if !matchesAny(search, txn.Description, txn.Client, txn.Category, txn.Reference) {
			continue
		}
		if !matchesTransactionStatus(txn, status) {
			continue
		}
		transactions = append(transactions, txn)
	}

	c.JSON(http.StatusOK, transactions)
}

// @Summary Get transaction by ID
// @Description Retrieve a single transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} model.Transaction "Transaction"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id} [get]
func getTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityTransaction, id)
	if err != nil {
		handleStoreError(c, err, "fetching transaction")
		return
	}

	c.JSON(http.StatusOK, model.TransactionFromRecord(record))
}

// @Summary Create transaction
// @Description Create a new transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body TransactionRequest true "Transaction data"
// @Success 201 {object} model.Transaction "Created transaction"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions [post]
func createTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateName(req.Description); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description cannot be empty"})
		return
	}

	txn, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := recordStore.Create(context.Background(), store.EntityTransaction, txn.Fields())
	if err != nil {
		handleStoreError(c, err, "creating transaction")
		return
	}

	c.JSON(http.StatusCreated, model.TransactionFromRecord(record))
}

// @Summary Update transaction
// @Description Update an existing transaction; the record ID is preserved
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param transaction body TransactionRequest true "Updated transaction data"
// @Success 200 {object} model.Transaction "Updated transaction"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id} [put]
func updateTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateName(req.Description); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description cannot be empty"})
		return
	}

	txn, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := recordStore.Update(context.Background(), store.EntityTransaction, id, txn.Fields())
	if err != nil {
		handleStoreError(c, err, "updating transaction")
		return
	}

	c.JSON(http.StatusOK, model.TransactionFromRecord(record))
}

// @Summary Delete transaction
// @Description Delete a specific transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} map[string]interface{} "Transaction deleted successfully"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id} [delete]
func deleteTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := recordStore.Delete(context.Background(), store.EntityTransaction, id); err != nil {
		handleStoreError(c, err, "deleting transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// @Summary Toggle reconciled flag
// @Description Flip the reconciled flag on a transaction and return the updated record
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} model.Transaction "Updated transaction"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id}/reconcile [put]
func reconcileTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityTransaction, id)
	if err != nil {
		handleStoreError(c, err, "fetching transaction")
		return
	}

	txn := model.TransactionFromRecord(record)
	updated, err := recordStore.Update(context.Background(), store.EntityTransaction, id,
		map[string]any{"reconciled": !txn.Reconciled})
	if err != nil {
		handleStoreError(c, err, "reconciling transaction")
		return
	}

	c.JSON(http.StatusOK, model.TransactionFromRecord(updated))
}

// @Summary Bulk reconcile
// @Description Mark the selected transactions as reconciled; already-reconciled ones are left alone
// @Tags transactions
// @Accept json
// @Produce json
// @Param selection body BulkReconcileRequest true "Transaction IDs"
// @Success 200 {object} map[string]interface{} "Count of newly reconciled transactions"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/transactions/bulk-reconcile [post]
func bulkReconcileTransactions(c *gin.Context) {
	var req BulkReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No transactions selected"})
		return
	}

	reconciled := 0
	for _, id := range req.IDs {
		record, err := recordStore.GetByID(context.Background(), store.EntityTransaction, id)
		if err != nil {
			// Skip missing or invalid IDs; the rest of the batch
			// still applies.
			continue
		}
		txn := model.TransactionFromRecord(record)
		if txn.Reconciled {
			continue
		}
		if _, err := recordStore.Update(context.Background(), store.EntityTransaction, id,
			map[string]any{"reconciled": true}); err != nil {
			continue
		}
		reconciled++
	}

	c.JSON(http.StatusOK, gin.H{"reconciled": reconciled})
}

// @Summary Duplicate transaction
// @Description Create a copy of an existing transaction with a fresh ID, dated now and unreconciled
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 201 {object} model.Transaction "Duplicated transaction"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id}/duplicate [post]
func duplicateTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityTransaction, id)
	if err != nil {
		handleStoreError(c, err, "fetching transaction")
		return
	}

	txn := model.TransactionFromRecord(record)
	txn.Date = time.Now().UTC()
	txn.Reconciled = false

	created, err := recordStore.Create(context.Background(), store.EntityTransaction, txn.Fields())
	if err != nil {
		handleStoreError(c, err, "duplicating transaction")
		return
	}

	c.JSON(http.StatusCreated, model.TransactionFromRecord(created))
}
