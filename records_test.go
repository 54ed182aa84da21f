package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestListRecords tests the GET /api/records/:entity endpoint
func TestListRecords(t *testing.T) {
	t.Run("should wrap records in a success envelope", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/records/client", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var envelope struct {
			Success bool             `json:"success"`
			Data    []map[string]any `json:"data"`
		}
		require.NoError(t, parseJSONResponse(resp, &envelope))
		assert.True(t, envelope.Success)
		require.Len(t, envelope.Data, 5)

		first := envelope.Data[0]
		assert.Equal(t, float64(1), first["Id"])
		assert.Equal(t, "ABC Corp", first["Name"])
		assert.NotEmpty(t, first["CreatedOn"])
		assert.NotEmpty(t, first["ModifiedOn"])
	})

	t.Run("unknown entity is a failure envelope", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/records/widget", nil)
		assertStatusCode(t, http.StatusNotFound, resp.Code)

		var envelope RecordEnvelope
		require.NoError(t, parseJSONResponse(resp, &envelope))
		assert.False(t, envelope.Success)
		assert.Contains(t, envelope.Message, "widget")
	})
}

// TestGetRecord tests the GET /api/records/:entity/:id endpoint
func TestGetRecord(t *testing.T) {
	resetTestStore(t)

	t.Run("should return a single flattened record", func(t *testing.T) {
		resp := makeRequest("GET", "/api/records/transaction/5", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var envelope struct {
			Success bool           `json:"success"`
			Data    map[string]any `json:"data"`
		}
		require.NoError(t, parseJSONResponse(resp, &envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, float64(5), envelope.Data["Id"])
		assert.Equal(t, "Employee Salaries - January", envelope.Data["description"])
	})

	t.Run("missing record is a failure envelope", func(t *testing.T) {
		resp := makeRequest("GET", "/api/records/transaction/999", nil)
		assertStatusCode(t, http.StatusNotFound, resp.Code)

		var envelope RecordEnvelope
		require.NoError(t, parseJSONResponse(resp, &envelope))
		assert.False(t, envelope.Success)
	})

	t.Run("non-positive ID is rejected", func(t *testing.T) {
		resp := makeRequest("GET", "/api/records/transaction/0", nil)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestCreateRecords tests the POST /api/records/:entity endpoint
func TestCreateRecords(t *testing.T) {
	t.Run("should create each record with its own result", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/records/client", map[string]interface{}{
			"records": []map[string]interface{}{
				{"Name": "Globex", "Tags": "prospect"},
				{"Name": "Initech"},
			},
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		var envelope struct {
			Success bool `json:"success"`
			Results []struct {
				Success bool           `json:"success"`
				Data    map[string]any `json:"data"`
			} `json:"results"`
		}
		require.NoError(t, parseJSONResponse(resp, &envelope))
		assert.True(t, envelope.Success)
		require.Len(t, envelope.Results, 2)
		assert.Equal(t, float64(6), envelope.Results[0].Data["Id"])
		assert.Equal(t, float64(7), envelope.Results[1].Data["Id"])
	})

	t.Run("client-supplied system fields are ignored", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/records/client", map[string]interface{}{
			"records": []map[string]interface{}{
				{"Id": 999, "Name": "Hollow Inc"},
			},
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		var envelope struct {
			Results []struct {
				Data map[string]any `json:"data"`
			} `json:"results"`
		}
		require.NoError(t, parseJSONResponse(resp, &envelope))
		require.Len(t, envelope.Results, 1)
		assert.Equal(t, float64(6), envelope.Results[0].Data["Id"])
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("POST", "/api/records/client", map[string]interface{}{
			"records": []map[string]interface{}{},
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestUpdateRecords tests the PUT /api/records/:entity endpoint
func TestUpdateRecords(t *testing.T) {
	t.Run("partial failures leave the rest of the batch applied", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("PUT", "/api/records/client", map[string]interface{}{
			"records": []map[string]interface{}{
				{"Id": 1, "Tags": "retainer,priority,audited"},
				{"Id": 999, "Tags": "ghost"},
			},
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		var envelope struct {
			Success bool           `json:"success"`
			Results []RecordResult `json:"results"`
		}
		require.NoError(t, parseJSONResponse(resp, &envelope))
		require.Len(t, envelope.Results, 2)
		assert.True(t, envelope.Results[0].Success)
		assert.False(t, envelope.Results[1].Success)

		check := makeRequest("GET", "/api/records/client/1", nil)
		var one struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, parseJSONResponse(check, &one))
		assert.Equal(t, "retainer,priority,audited", one.Data["Tags"])
		assert.Equal(t, "ABC Corp", one.Data["Name"])
	})

	t.Run("record without an Id fails individually", func(t *testing.T) {
		resetTestStore(t)

		resp := makeJSONRequest("PUT", "/api/records/client", map[string]interface{}{
			"records": []map[string]interface{}{
				{"Name": "No Identity"},
			},
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		var envelope struct {
			Results []RecordResult `json:"results"`
		}
		require.NoError(t, parseJSONResponse(resp, &envelope))
		require.Len(t, envelope.Results, 1)
		assert.False(t, envelope.Results[0].Success)
	})
}

// TestDeleteRecords tests the DELETE /api/records/:entity endpoint
func TestDeleteRecords(t *testing.T) {
	resetTestStore(t)

	resp := makeJSONRequest("DELETE", "/api/records/client", map[string]interface{}{
		"RecordIds": []int{5, 999},
	})
	assertStatusCode(t, http.StatusOK, resp.Code)

	var envelope struct {
		Results []RecordResult `json:"results"`
	}
	require.NoError(t, parseJSONResponse(resp, &envelope))
	require.Len(t, envelope.Results, 2)
	assert.True(t, envelope.Results[0].Success)
	assert.False(t, envelope.Results[1].Success)

	check := makeRequest("GET", "/api/records/client/5", nil)
	assertStatusCode(t, http.StatusNotFound, check.Code)
}
