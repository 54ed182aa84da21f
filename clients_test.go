package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepara/model"
)

// TestGetClients tests the GET /api/clients endpoint
func TestGetClients(t *testing.T) {
	t.Run("should return clients most recent first", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/clients", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var clients []model.Client
		require.NoError(t, parseJSONResponse(resp, &clients))
		require.Len(t, clients, 5)
		assert.Equal(t, "ABC Corp", clients[0].Name)
	})

	t.Run("should find a client by partial name regardless of case", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/clients?search=acme", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var clients []model.Client
		require.NoError(t, parseJSONResponse(resp, &clients))
		require.Len(t, clients, 1)
		assert.Equal(t, "Acme Industries", clients[0].Name)
	})

	t.Run("should search tags too", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/clients?search=retainer", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var clients []model.Client
		require.NoError(t, parseJSONResponse(resp, &clients))
		assert.Len(t, clients, 2)
	})

	t.Run("should return empty list when nothing matches", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/clients?search=nonexistent", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var clients []model.Client
		require.NoError(t, parseJSONResponse(resp, &clients))
		assert.Len(t, clients, 0)
	})
}

// TestCreateClient tests the POST /api/clients endpoint
func TestCreateClient(t *testing.T) {
	t.Run("should create client with next ID", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/clients", map[string]interface{}{
			"name":  "Northwind Traders",
			"tags":  "prospect",
			"owner": "Dana",
		})
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var client model.Client
		require.NoError(t, parseJSONResponse(resp, &client))
		assert.Equal(t, 6, client.ID)
		assert.Equal(t, "Northwind Traders", client.Name)
	})

	t.Run("should reject empty name", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/clients", map[string]interface{}{
			"name": "  ",
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestUpdateClient tests the PUT /api/clients/:id endpoint
func TestUpdateClient(t *testing.T) {
	resetTestStore(t)

	t.Run("should update and keep the ID", func(t *testing.T) {
		resp := makeJSONRequest("PUT", "/api/clients/4", map[string]interface{}{
			"name":  "Acme Industries",
			"tags":  "retainer",
			"owner": "Miguel",
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		var client model.Client
		require.NoError(t, parseJSONResponse(resp, &client))
		assert.Equal(t, 4, client.ID)
		assert.Equal(t, "Miguel", client.Owner)
	})

	t.Run("should return 404 for missing client", func(t *testing.T) {
		resp := makeJSONRequest("PUT", "/api/clients/999", map[string]interface{}{
			"name": "Ghost",
		})
		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})
}

// TestDeleteClient tests the DELETE /api/clients/:id endpoint
func TestDeleteClient(t *testing.T) {
	resetTestStore(t)

	t.Run("should delete a client", func(t *testing.T) {
		resp := makeRequest("DELETE", "/api/clients/5", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		resp = makeRequest("GET", "/api/clients/5", nil)
		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})

	t.Run("should return 400 for invalid ID", func(t *testing.T) {
		resp := makeRequest("DELETE", "/api/clients/-1", nil)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}
