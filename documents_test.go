package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepara/model"
)

// TestGetDocuments tests the GET /api/documents endpoint
func TestGetDocuments(t *testing.T) {
	t.Run("should return all documents", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/documents", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var docs []model.Document
		require.NoError(t, parseJSONResponse(resp, &docs))
		assert.Len(t, docs, 3)
	})

	t.Run("should filter by type", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/documents?type=receipt", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var docs []model.Document
		require.NoError(t, parseJSONResponse(resp, &docs))
		require.Len(t, docs, 1)
		assert.Equal(t, "abc-corp-receipt-jan.pdf", docs[0].Name)
	})

	t.Run("should keep OCR metadata on the record", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("GET", "/api/documents/1", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var doc model.Document
		require.NoError(t, parseJSONResponse(resp, &doc))
		require.NotNil(t, doc.OCR)
		assert.Equal(t, "Staples", doc.OCR.Vendor)
		assert.InDelta(t, 0.94, doc.OCR.Confidence, 0.001)
	})
}

// TestUploadDocument tests the POST /api/documents/upload endpoint
func TestUploadDocument(t *testing.T) {
	t.Run("should store the file and create a record", func(t *testing.T) {
		resetTestStore(t)

		resp := makeMultipartRequest("/api/documents/upload", "file", "acme-receipt.pdf", []byte("%PDF-1.4 test"))
		assertStatusCode(t, http.StatusCreated, resp.Code)

		var doc model.Document
		require.NoError(t, parseJSONResponse(resp, &doc))
		assert.Equal(t, 4, doc.ID)
		assert.Equal(t, "acme-receipt.pdf", doc.Name)
		assert.Equal(t, "receipt", doc.Type)
		assert.Equal(t, "uploaded", doc.Status)
		assert.Equal(t, int64(13), doc.Size)
		require.True(t, strings.HasPrefix(doc.URL, "/uploads/"))

		stored := filepath.Join(appConfig.UploadsDir, strings.TrimPrefix(doc.URL, "/uploads/"))
		_, err := os.Stat(stored)
		assert.NoError(t, err)
	})

	t.Run("should reject a request without a file", func(t *testing.T) {
		resetTestStore(t)

		resp := makeRequest("POST", "/api/documents/upload", nil)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestUpdateDocument tests the PUT /api/documents/:id endpoint
func TestUpdateDocument(t *testing.T) {
	resetTestStore(t)

	t.Run("should attach OCR results", func(t *testing.T) {
		resp := makeJSONRequest("PUT", "/api/documents/3", map[string]interface{}{
			"status": "processed",
			"ocr": map[string]interface{}{
				"vendor":     "XYZ Company",
				"amount":     "1500.00",
				"date":       "2024-01-14",
				"confidence": 0.88,
			},
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		var doc model.Document
		require.NoError(t, parseJSONResponse(resp, &doc))
		assert.Equal(t, "processed", doc.Status)
		require.NotNil(t, doc.OCR)
		assert.Equal(t, "XYZ Company", doc.OCR.Vendor)
	})

	t.Run("should reject an unknown document type", func(t *testing.T) {
		resp := makeJSONRequest("PUT", "/api/documents/3", map[string]interface{}{
			"type": "spreadsheet",
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestDeleteDocument tests the DELETE /api/documents/:id endpoint
func TestDeleteDocument(t *testing.T) {
	resetTestStore(t)

	resp := makeRequest("DELETE", "/api/documents/2", nil)
	assertStatusCode(t, http.StatusOK, resp.Code)

	resp = makeRequest("GET", "/api/documents/2", nil)
	assertStatusCode(t, http.StatusNotFound, resp.Code)
}
