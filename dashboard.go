package main

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"keepara/model"
	"keepara/store"
)

// Dashboard handler functions

// DashboardSummary rolls the books up into the numbers the landing page
// shows.
type DashboardSummary struct {
	TotalIncome        decimal.Decimal     `json:"total_income"`
	TotalExpenses      decimal.Decimal     `json:"total_expenses"`
	NetCashflow        decimal.Decimal     `json:"net_cashflow"`
	TransactionCount   int                 `json:"transaction_count"`
	UnreconciledCount  int                 `json:"unreconciled_count"`
	ClientCount        int                 `json:"client_count"`
	OutstandingCount   int                 `json:"outstanding_invoices"`
	OutstandingAmount  decimal.Decimal     `json:"outstanding_amount"`
	UnreadMessages     int                 `json:"unread_messages"`
	RecentTransactions []model.Transaction `json:"recent_transactions"`
}

// CategoryTotal is one row of the per-category spending report.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// @Summary Get dashboard summary
// @Description Roll up transactions, clients, invoices, and conversations into the dashboard metrics
// @Tags dashboard
// @Produce json
// @Success 200 {object} DashboardSummary "Dashboard summary"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/dashboard [get]
func getDashboard(c *gin.Context) {
	ctx := context.Background()

	txnRecords, err := recordStore.GetAll(ctx, store.EntityTransaction)
	if err != nil {
		handleStoreError(c, err, "fetching transactions")
		return
	}

	summary := DashboardSummary{
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		OutstandingAmount:  decimal.Zero,
		RecentTransactions: []model.Transaction{},
	}
	for _, r := range txnRecords {
		txn := model.TransactionFromRecord(r)
		summary.TransactionCount++
		if !txn.Reconciled {
			summary.UnreconciledCount++
		}
		if txn.Type == "income" {
			summary.TotalIncome = summary.TotalIncome.Add(txn.Amount)
		} else {
			summary.TotalExpenses = summary.TotalExpenses.Add(txn.Amount.Abs())
		}
		if len(summary.RecentTransactions) < 5 {
			summary.RecentTransactions = append(summary.RecentTransactions, txn)
		}
	}
	summary.NetCashflow = summary.TotalIncome.Sub(summary.TotalExpenses)

	clientRecords, err := recordStore.GetAll(ctx, store.EntityClient)
	if err != nil {
		handleStoreError(c, err, "fetching clients")
		return
	}
	summary.ClientCount = len(clientRecords)

	invoiceRecords, err := recordStore.GetAll(ctx, store.EntityInvoice)
	if err != nil {
		handleStoreError(c, err, "fetching invoices")
		return
	}
	for _, r := range invoiceRecords {
		inv := model.InvoiceFromRecord(r)
		if inv.Status == model.InvoiceSent || inv.Status == model.InvoicePending || inv.Status == model.InvoiceOverdue {
			summary.OutstandingCount++
			summary.OutstandingAmount = summary.OutstandingAmount.Add(inv.Amount)
		}
	}

	convRecords, err := recordStore.GetAll(ctx, store.EntityConversation)
	if err != nil {
		handleStoreError(c, err, "fetching conversations")
		return
	}
	for _, r := range convRecords {
		summary.UnreadMessages += model.ConversationFromRecord(r).UnreadCount
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary Get category report
// @Description Get expense totals grouped by category, largest first
// @Tags dashboard
// @Produce json
// @Success 200 {array} CategoryTotal "Totals by category"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/reports/categories [get]
func getCategoryReport(c *gin.Context) {
	records, err := recordStore.GetAll(context.Background(), store.EntityTransaction)
	if err != nil {
		handleStoreError(c, err, "fetching transactions")
		return
	}

	byCategory := map[string]*CategoryTotal{}
	for _, r := range records {
		txn := model.TransactionFromRecord(r)
		if txn.Type != "expense" {
			continue
		}
		category := txn.Category
		if category == "" {
			category = "Uncategorized"
		}
		row, ok := byCategory[category]
		if !ok {
			row = &CategoryTotal{Category: category, Total: decimal.Zero}
			byCategory[category] = row
		}
		row.Total = row.Total.Add(txn.Amount.Abs())
		row.Count++
	}

	totals := []CategoryTotal{}
	for _, row := range byCategory {
		totals = append(totals, *row)
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].Category < totals[j].Category
	})

	c.JSON(http.StatusOK, totals)
}
