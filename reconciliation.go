package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"keepara/model"
	"keepara/recon"
)

// Reconciliation handler functions

// ReconciliationState is the full matcher view the workspace renders from.
type ReconciliationState struct {
	BankEntries         []model.BankEntry   `json:"bank_entries"`
	Transactions        []model.Transaction `json:"transactions"`
	Matches             []model.Match       `json:"matches"`
	SelectedBankEntry   *model.BankEntry    `json:"selected_bank_entry,omitempty"`
	SelectedTransaction *model.Transaction  `json:"selected_transaction,omitempty"`
}

func reconciliationState(bankFilter, txnFilter string) ReconciliationState {
	selBank, selTxn := matcher.Selection()
	return ReconciliationState{
		BankEntries:         matcher.BankEntries(bankFilter),
		Transactions:        matcher.Transactions(txnFilter),
		Matches:             matcher.Matches(),
		SelectedBankEntry:   selBank,
		SelectedTransaction: selTxn,
	}
}

// @Summary Get reconciliation state
// @Description Retrieve unmatched pools, committed matches, and the current selection; filters narrow the view only
// @Tags reconciliation
// @Produce json
// @Param bank_filter query string false "Substring filter over bank description and reference"
// @Param transaction_filter query string false "Substring filter over transaction description and category"
// @Success 200 {object} ReconciliationState "Reconciliation state"
// @Router /api/reconciliation [get]
func getReconciliation(c *gin.Context) {
	c.JSON(http.StatusOK, reconciliationState(c.Query("bank_filter"), c.Query("transaction_filter")))
}

// @Summary Select bank entry
// @Description Mark a bank entry as the bank-side match candidate
// @Tags reconciliation
// @Produce json
// @Param id path int true "Bank entry ID"
// @Success 200 {object} ReconciliationState "Updated state"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Entry not in the unmatched pool"
// @Router /api/reconciliation/select-bank/{id} [post]
func selectBankEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := matcher.SelectBankEntry(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bank entry is not in the unmatched pool"})
		return
	}

	c.JSON(http.StatusOK, reconciliationState("", ""))
}

// @Summary Select transaction
// @Description Mark a transaction as the book-side match candidate
// @Tags reconciliation
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} ReconciliationState "Updated state"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Transaction not in the unmatched pool"
// @Router /api/reconciliation/select-transaction/{id} [post]
func selectReconTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := matcher.SelectTransaction(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction is not in the unmatched pool"})
		return
	}

	c.JSON(http.StatusOK, reconciliationState("", ""))
}

// @Summary Clear selection
// @Description Drop both match candidates without committing anything
// @Tags reconciliation
// @Produce json
// @Success 200 {object} ReconciliationState "Updated state"
// @Router /api/reconciliation/selection [delete]
func clearReconSelection(c *gin.Context) {
	matcher.ClearSelection()
	c.JSON(http.StatusOK, reconciliationState("", ""))
}

// @Summary Commit match
// @Description Pair the selected bank entry and transaction; both leave their pools and the transaction is marked reconciled
// @Tags reconciliation
// @Produce json
// @Success 201 {object} model.Match "Committed match"
// @Failure 400 {object} map[string]interface{} "Selection incomplete"
// @Failure 500 {object} map[string]interface{} "Backing write failed"
// @Router /api/reconciliation/match [post]
func commitMatch(c *gin.Context) {
	match, err := matcher.Match()
	if err != nil {
		if errors.Is(err, recon.ErrSelectionIncomplete) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Select one bank entry and one transaction first"})
			return
		}
		handleStoreError(c, err, "committing match")
		return
	}

	c.JSON(http.StatusCreated, match)
}

// @Summary Unmatch
// @Description Dissolve a match and return both sides to their unmatched pools; unknown IDs are ignored
// @Tags reconciliation
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} ReconciliationState "Updated state"
// @Failure 500 {object} map[string]interface{} "Backing write failed"
// @Router /api/reconciliation/matches/{id} [delete]
func unmatch(c *gin.Context) {
	if err := matcher.Unmatch(c.Param("id")); err != nil {
		handleStoreError(c, err, "unmatching")
		return
	}

	c.JSON(http.StatusOK, reconciliationState("", ""))
}

// @Summary Refresh reconciliation pools
// @Description Rebuild the unmatched pools from the record store; committed matches from the previous session are dropped
// @Tags reconciliation
// @Produce json
// @Success 200 {object} ReconciliationState "Rebuilt state"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/reconciliation/refresh [post]
func refreshReconciliation(c *gin.Context) {
	bank, txns, err := loadReconPools()
	if err != nil {
		handleStoreError(c, err, "refreshing reconciliation")
		return
	}
	// Swap the pools under the matcher's own lock; reassigning the
	// package-level matcher would race with concurrent readers.
	matcher.Reset(bank, txns)

	c.JSON(http.StatusOK, reconciliationState("", ""))
}
