package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"keepara/model"
	"keepara/store"
)

// Document handler functions

// DocumentRequest is the update payload for document metadata. File content
// itself only arrives through the upload endpoint.
type DocumentRequest struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Client     string         `json:"client"`
	ClientID   *int           `json:"client_id"`
	UploadedBy string         `json:"uploaded_by"`
	Category   string         `json:"category"`
	Status     string         `json:"status"`
	OCR        *model.OCRData `json:"ocr"`
}

func validDocumentType(t string) bool {
	switch t {
	case "receipt", "invoice", "statement", "tax", "contract", "report":
		return true
	}
	return false
}

// documentTypeForFile guesses a document type from the uploaded filename.
func documentTypeForFile(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "receipt"):
		return "receipt"
	case strings.Contains(lower, "invoice"):
		return "invoice"
	case strings.Contains(lower, "statement"):
		return "statement"
	case strings.Contains(lower, "tax"):
		return "tax"
	case strings.Contains(lower, "contract"):
		return "contract"
	default:
		return "report"
	}
}

// @Summary Get all documents
// @Description Retrieve all documents with optional search (name, client, category) and type filters
// @Tags documents
// @Produce json
// @Param search query string false "Search term"
// @Param type query string false "Document type filter"
// @Success 200 {array} model.Document "List of documents"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/documents [get]
func getDocuments(c *gin.Context) {
	records, err := recordStore.GetAll(context.Background(), store.EntityDocument)
	if err != nil {
		handleStoreError(c, err, "fetching documents")
		return
	}

	search := c.Query("search")
	docType := c.Query("type")
	documents := []model.Document{}
	for _, r := range records {
		doc := model.DocumentFromRecord(r)
		if !matchesAny(search, doc.Name, doc.Client, doc.Category) {
			continue
		}
		if docType != "" && docType != "all" && doc.Type != docType {
			continue
		}
		documents = append(documents, doc)
	}

	c.JSON(http.StatusOK, documents)
}

// @Summary Get document by ID
// @Description Retrieve a single document's metadata
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} model.Document "Document"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Document not found"
// @Router /api/documents/{id} [get]
func getDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityDocument, id)
	if err != nil {
		handleStoreError(c, err, "fetching document")
		return
	}

	c.JSON(http.StatusOK, model.DocumentFromRecord(record))
}

// @Summary Upload document
// @Description Upload a file and create its document record; optional client and category fields ride along as form values
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param client formData string false "Client name"
// @Param category formData string false "Category"
// @Success 201 {object} model.Document "Created document"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/documents/upload [post]
func uploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	// Stored under a generated name so uploads never collide; the original
	// name stays on the record.
	stored := uuid.NewString() + filepath.Ext(file.Filename)
	dest := filepath.Join(appConfig.UploadsDir, stored)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	doc := model.Document{
		Name:       file.Filename,
		Type:       documentTypeForFile(file.Filename),
		Client:     c.PostForm("client"),
		Size:       file.Size,
		UploadedBy: c.PostForm("uploaded_by"),
		Category:   c.PostForm("category"),
		Status:     "uploaded",
		URL:        fmt.Sprintf("/uploads/%s", stored),
	}

	record, err := recordStore.Create(context.Background(), store.EntityDocument, doc.Fields())
	if err != nil {
		handleStoreError(c, err, "creating document")
		return
	}

	c.JSON(http.StatusCreated, model.DocumentFromRecord(record))
}

// @Summary Update document
// @Description Update document metadata, including attaching extracted receipt data
// @Tags documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param document body DocumentRequest true "Updated document metadata"
// @Success 200 {object} model.Document "Updated document"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Document not found"
// @Router /api/documents/{id} [put]
func updateDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Type != "" && !validDocumentType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document type"})
		return
	}

	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Type != "" {
		fields["type"] = req.Type
	}
	if req.Client != "" {
		fields["client"] = req.Client
	}
	if req.ClientID != nil {
		fields["client_id"] = *req.ClientID
	}
	if req.UploadedBy != "" {
		fields["uploaded_by"] = req.UploadedBy
	}
	if req.Category != "" {
		fields["category"] = req.Category
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if req.OCR != nil {
		fields["ocr"] = map[string]any{
			"vendor":     req.OCR.Vendor,
			"amount":     req.OCR.Amount.String(),
			"date":       req.OCR.Date,
			"confidence": req.OCR.Confidence,
		}
	}

	record, err := recordStore.Update(context.Background(), store.EntityDocument, id, fields)
	if err != nil {
		handleStoreError(c, err, "updating document")
		return
	}

	c.JSON(http.StatusOK, model.DocumentFromRecord(record))
}

// @Summary Delete document
// @Description Delete a document record; the stored file is left for a cleanup job
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} map[string]interface{} "Document deleted successfully"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Document not found"
// @Router /api/documents/{id} [delete]
func deleteDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := recordStore.Delete(context.Background(), store.EntityDocument, id); err != nil {
		handleStoreError(c, err, "deleting document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
