package main

import (
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepara/model"
)

// TestGetReconciliation tests the GET /api/reconciliation endpoint
func TestGetReconciliation(t *testing.T) {
	t.Run("should expose both unmatched pools", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/reconciliation", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var state ReconciliationState
		require.NoError(t, parseJSONResponse(resp, &state))
		assert.Len(t, state.BankEntries, 10)
		assert.Len(t, state.Transactions, 12)
		assert.Len(t, state.Matches, 0)
		assert.Nil(t, state.SelectedBankEntry)
	})

	t.Run("filters narrow the view without touching the pools", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/reconciliation?bank_filter=wire&transaction_filter=revenue", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var state ReconciliationState
		require.NoError(t, parseJSONResponse(resp, &state))
		assert.Len(t, state.BankEntries, 2)
		assert.Len(t, state.Transactions, 4)

		resp = makeRequest("GET", "/api/reconciliation", nil)
		require.NoError(t, parseJSONResponse(resp, &state))
		assert.Len(t, state.BankEntries, 10)
		assert.Len(t, state.Transactions, 12)
	})
}

// TestReconciliationMatch tests the selection and match endpoints
func TestReconciliationMatch(t *testing.T) {
	t.Run("should commit a selected pair and write back the flag", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("POST", "/api/reconciliation/select-bank/1", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)
		resp = makeRequest("POST", "/api/reconciliation/select-transaction/1", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		resp = makeRequest("POST", "/api/reconciliation/match", nil)
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var match model.Match
		require.NoError(t, parseJSONResponse(resp, &match))
		assert.Equal(t, 1, match.BankEntryID)
		assert.Equal(t, 1, match.TransactionID)
		assert.True(t, match.Difference.IsZero())
		assert.NotEmpty(t, match.ID)

		var state ReconciliationState
		stateResp := makeRequest("GET", "/api/reconciliation", nil)
		require.NoError(t, parseJSONResponse(stateResp, &state))
		assert.Len(t, state.BankEntries, 9)
		assert.Len(t, state.Transactions, 11)
		assert.Len(t, state.Matches, 1)
		assert.Nil(t, state.SelectedBankEntry)
		assert.Nil(t, state.SelectedTransaction)

		var txn model.Transaction
		txnResp := makeRequest("GET", "/api/transactions/1", nil)
		require.NoError(t, parseJSONResponse(txnResp, &txn))
		assert.True(t, txn.Reconciled)
	})

	t.Run("amounts may differ and the difference is recorded", func(t *testing.T) {
		resetTestStore(t)

		makeRequest("POST", "/api/reconciliation/select-bank/3", nil)
		makeRequest("POST", "/api/reconciliation/select-transaction/10", nil)

		resp := makeRequest("POST", "/api/reconciliation/match", nil)
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var match model.Match
		require.NoError(t, parseJSONResponse(resp, &match))
		assert.True(t, match.Difference.Equal(decimal.RequireFromString("624.50")))
	})

	t.Run("match without a full selection is rejected", func(t *testing.T) {
		resetTestStore(t)

		makeRequest("POST", "/api/reconciliation/select-bank/1", nil)
		resp := makeRequest("POST", "/api/reconciliation/match", nil)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("selecting outside the pool is a 404", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("POST", "/api/reconciliation/select-bank/999", nil)
		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})

	t.Run("clear selection drops both candidates", func(t *testing.T) {
		resetTestStore(t)

		makeRequest("POST", "/api/reconciliation/select-bank/1", nil)
		makeRequest("POST", "/api/reconciliation/select-transaction/1", nil)

		resp := makeRequest("DELETE", "/api/reconciliation/selection", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var state ReconciliationState
		require.NoError(t, parseJSONResponse(resp, &state))
		assert.Nil(t, state.SelectedBankEntry)
		assert.Nil(t, state.SelectedTransaction)
	})
}

// TestReconciliationUnmatch tests the DELETE /api/reconciliation/matches/:id endpoint
func TestReconciliationUnmatch(t *testing.T) {
	t.Run("should restore both sides and clear the flag", func(t *testing.T) {
		resetTestStore(t)

		makeRequest("POST", "/api/reconciliation/select-bank/2", nil)
		makeRequest("POST", "/api/reconciliation/select-transaction/2", nil)
		resp := makeRequest("POST", "/api/reconciliation/match", nil)
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var match model.Match
		require.NoError(t, parseJSONResponse(resp, &match))

		resp = makeRequest("DELETE", "/api/reconciliation/matches/"+match.ID, nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var state ReconciliationState
		require.NoError(t, parseJSONResponse(resp, &state))
		assert.Len(t, state.BankEntries, 10)
		assert.Len(t, state.Transactions, 12)
		assert.Len(t, state.Matches, 0)

		var txn model.Transaction
		txnResp := makeRequest("GET", "/api/transactions/2", nil)
		require.NoError(t, parseJSONResponse(txnResp, &txn))
		assert.False(t, txn.Reconciled)
	})

	t.Run("unknown match ID is a no-op", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("DELETE", "/api/reconciliation/matches/not-a-match", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)
	})
}

// TestReconciliationRefresh tests the POST /api/reconciliation/refresh endpoint
func TestReconciliationRefresh(t *testing.T) {
	resetTestStore(t)

	// Reconcile a transaction outside the matcher, then refresh.
	resp := makeRequest("PUT", "/api/transactions/5/reconcile", nil)
	assertStatusCode(t, http.StatusOK, resp.Code)

	resp = makeRequest("POST", "/api/reconciliation/refresh", nil)
	assertStatusCode(t, http.StatusOK, resp.Code)

	var state ReconciliationState
	require.NoError(t, parseJSONResponse(resp, &state))
	assert.Len(t, state.Transactions, 11)
	for _, txn := range state.Transactions {
		assert.NotEqual(t, 5, txn.ID)
	}
}

// TestReconciliationRefreshConcurrent exercises refresh against concurrent
// reads; the pools are swapped in place, so readers never see a torn matcher.
func TestReconciliationRefreshConcurrent(t *testing.T) {
	resetTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			makeRequest("POST", "/api/reconciliation/refresh", nil)
		}()
		go func() {
			defer wg.Done()
			makeRequest("GET", "/api/reconciliation", nil)
		}()
	}
	wg.Wait()

	resp := makeRequest("GET", "/api/reconciliation", nil)
	assertStatusCode(t, http.StatusOK, resp.Code)

	var state ReconciliationState
	require.NoError(t, parseJSONResponse(resp, &state))
	assert.Len(t, state.BankEntries, 10)
	assert.Len(t, state.Transactions, 12)
}
