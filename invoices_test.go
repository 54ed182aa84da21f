package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepara/model"
)

// TestGetInvoices tests the GET /api/invoices endpoint
func TestGetInvoices(t *testing.T) {
	t.Run("should return all invoices", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/invoices", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var invoices []model.Invoice
		require.NoError(t, parseJSONResponse(resp, &invoices))
		assert.Len(t, invoices, 5)
	})

	t.Run("should filter by status", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/invoices?status=paid", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var invoices []model.Invoice
		require.NoError(t, parseJSONResponse(resp, &invoices))
		require.Len(t, invoices, 2)
		for _, inv := range invoices {
			assert.Equal(t, model.InvoicePaid, inv.Status)
		}
	})

	t.Run("should search number and client", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/invoices?search=INV-2024-048", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var invoices []model.Invoice
		require.NoError(t, parseJSONResponse(resp, &invoices))
		require.Len(t, invoices, 1)
		assert.Equal(t, "XYZ Company", invoices[0].Client)
	})
}

// TestCreateInvoice tests the POST /api/invoices endpoint
func TestCreateInvoice(t *testing.T) {
	t.Run("should total line items and generate a number", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/invoices", map[string]interface{}{
			"client":     "ABC Corp",
			"client_id":  1,
			"issue_date": "2024-01-16",
			"due_date":   "2024-02-15",
			"items": []map[string]interface{}{
				{"description": "Monthly bookkeeping", "quantity": 1, "rate": "900.00"},
				{"description": "Payroll runs", "quantity": 2, "rate": "150.00"},
			},
		})
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var inv model.Invoice
		require.NoError(t, parseJSONResponse(resp, &inv))
		assert.Equal(t, 6, inv.ID)
		assert.Equal(t, model.InvoiceDraft, inv.Status)
		assert.True(t, inv.Amount.Equal(decimal.RequireFromString("1200")))
		assert.Equal(t, fmt.Sprintf("INV-%d-006", time.Now().Year()), inv.InvoiceNumber)
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/invoices", map[string]interface{}{
			"client": "ABC Corp",
			"status": "archived",
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should reject a missing client", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/invoices", map[string]interface{}{
			"status": "draft",
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestUpdateInvoice tests the PUT /api/invoices/:id endpoint
func TestUpdateInvoice(t *testing.T) {
	t.Run("should keep items and amount when items are omitted", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/invoices", map[string]interface{}{
			"client": "ABC Corp",
			"items": []map[string]interface{}{
				{"description": "Quarterly review", "quantity": 2, "rate": "500.00"},
			},
		})
		assertStatusCode(t, http.StatusCreated, resp.Code)

		resp = makeJSONRequest("PUT", "/api/invoices/6", map[string]interface{}{
			"client": "ABC Corp",
			"status": "pending",
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		resp = makeRequest("GET", "/api/invoices/6", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var inv model.Invoice
		require.NoError(t, parseJSONResponse(resp, &inv))
		assert.Equal(t, "pending", inv.Status)
		require.Len(t, inv.Items, 1)
		assert.True(t, inv.Amount.Equal(decimal.RequireFromString("1000")))
	})

	t.Run("should clear items and amount together", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/invoices", map[string]interface{}{
			"client": "ABC Corp",
			"items": []map[string]interface{}{
				{"description": "Quarterly review", "quantity": 2, "rate": "500.00"},
			},
		})
		assertStatusCode(t, http.StatusCreated, resp.Code)

		resp = makeJSONRequest("PUT", "/api/invoices/6", map[string]interface{}{
			"client": "ABC Corp",
			"items":  []map[string]interface{}{},
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		resp = makeRequest("GET", "/api/invoices/6", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var inv model.Invoice
		require.NoError(t, parseJSONResponse(resp, &inv))
		assert.Empty(t, inv.Items)
		assert.True(t, inv.Amount.IsZero())
	})
}

// TestSendInvoice tests the POST /api/invoices/:id/send endpoint
func TestSendInvoice(t *testing.T) {
	t.Run("should move a draft to sent", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("POST", "/api/invoices/5/send", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var inv model.Invoice
		require.NoError(t, parseJSONResponse(resp, &inv))
		assert.Equal(t, model.InvoiceSent, inv.Status)
	})

	t.Run("should refuse to send a paid invoice", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("POST", "/api/invoices/1/send", nil)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestDuplicateInvoice tests the POST /api/invoices/:id/duplicate endpoint
func TestDuplicateInvoice(t *testing.T) {
	resetTestStore(t)

	t.Run("should create a fresh draft copy", func(t *testing.T) {
		resp := makeRequest("POST", "/api/invoices/4/duplicate", nil)
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var dup model.Invoice
		require.NoError(t, parseJSONResponse(resp, &dup))
		assert.Equal(t, 6, dup.ID)
		assert.Equal(t, model.InvoiceDraft, dup.Status)
		assert.Equal(t, "XYZ Company", dup.Client)
		assert.NotEqual(t, "INV-2024-048", dup.InvoiceNumber)
		assert.True(t, dup.Amount.Equal(decimal.RequireFromString("1500")))
	})
}

// TestInvoiceDueDays tests the derived days_until_due field
func TestInvoiceDueDays(t *testing.T) {
	t.Run("should count down to the due date", func(t *testing.T) {
		resetTestStore(t)

		due := time.Now().UTC().Add(10*24*time.Hour + time.Hour)
		payload := map[string]any{
			"client":   "ABC Corp",
			"status":   "sent",
			"due_date": due.Format(time.RFC3339),
			"items": []map[string]any{
				{"description": "Monthly bookkeeping", "quantity": 1, "rate": "900.00"},
			},
		}
		resp := makeJSONRequest("POST", "/api/invoices", payload)
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var inv model.Invoice
		require.NoError(t, parseJSONResponse(resp, &inv))
		assert.Equal(t, 10, inv.DaysUntilDue)
	})

	t.Run("should go negative once overdue", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/invoices/4", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var inv model.Invoice
		require.NoError(t, parseJSONResponse(resp, &inv))
		assert.Equal(t, model.InvoiceOverdue, inv.Status)
		assert.Negative(t, inv.DaysUntilDue)
	})

	t.Run("should be zero for paid invoices", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/invoices/1", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var inv model.Invoice
		require.NoError(t, parseJSONResponse(resp, &inv))
		assert.Equal(t, model.InvoicePaid, inv.Status)
		assert.Zero(t, inv.DaysUntilDue)
	})
}
