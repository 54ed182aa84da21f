package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"keepara/store"
)

func TestTransactionFromRecord(t *testing.T) {
	t.Run("accepts JSON-typed field values", func(t *testing.T) {
		// The Postgres store round-trips fields through JSON, so numbers
		// come back as float64 and dates as strings.
		txn := TransactionFromRecord(store.Record{
			ID: 3,
			Fields: map[string]any{
				"date":        "2024-01-13T09:15:00Z",
				"description": "Web Development Services",
				"amount":      875.5,
				"reconciled":  true,
				"client_id":   float64(3),
			},
		})

		assert.Equal(t, 3, txn.ID)
		assert.Equal(t, "875.5", txn.Amount.String())
		assert.True(t, txn.Reconciled)
		assert.Equal(t, 2024, txn.Date.Year())
		if assert.NotNil(t, txn.ClientID) {
			assert.Equal(t, 3, *txn.ClientID)
		}
	})

	t.Run("missing fields fall back to zero values", func(t *testing.T) {
		txn := TransactionFromRecord(store.Record{ID: 1, Fields: map[string]any{}})

		assert.True(t, txn.Amount.IsZero())
		assert.False(t, txn.Reconciled)
		assert.Nil(t, txn.ClientID)
		assert.True(t, txn.Date.IsZero())
	})

	t.Run("attachment lists are normalized to a count", func(t *testing.T) {
		txn := TransactionFromRecord(store.Record{
			ID:     1,
			Fields: map[string]any{"attachments": []any{"a.pdf", "b.pdf"}},
		})
		assert.Equal(t, 2, txn.AttachmentCount)

		legacy := TransactionFromRecord(store.Record{
			ID:     2,
			Fields: map[string]any{"attachments": "receipt.pdf"},
		})
		assert.Equal(t, 1, legacy.AttachmentCount)
	})
}

func TestInvoiceRoundTrip(t *testing.T) {
	clientID := 2
	paid := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	inv := Invoice{
		InvoiceNumber: "INV-2024-050",
		Client:        "XYZ Company",
		ClientID:      &clientID,
		Amount:        decimal.RequireFromString("1500.00"),
		Status:        InvoicePaid,
		IssueDate:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		PaidDate:      &paid,
		Items: []InvoiceItem{
			{Description: "Retainer", Quantity: 1, Rate: decimal.RequireFromString("1500.00"), Amount: decimal.RequireFromString("1500.00")},
		},
	}

	decoded := InvoiceFromRecord(store.Record{ID: 9, Fields: inv.Fields()})

	assert.Equal(t, 9, decoded.ID)
	assert.Equal(t, "INV-2024-050", decoded.InvoiceNumber)
	assert.True(t, decoded.Amount.Equal(inv.Amount))
	if assert.NotNil(t, decoded.PaidDate) {
		assert.Equal(t, paid, decoded.PaidDate.UTC())
	}
	if assert.Len(t, decoded.Items, 1) {
		assert.Equal(t, "Retainer", decoded.Items[0].Description)
		assert.Equal(t, 1, decoded.Items[0].Quantity)
	}
}
