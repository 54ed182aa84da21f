package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"keepara/store"
)

// Generic record API handler functions. Every entity surface in the app is
// also reachable through this envelope-based endpoint family, which speaks
// in raw records rather than typed models.

// RecordEnvelope is the uniform response shape of the generic record API.
type RecordEnvelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Results []RecordResult `json:"results,omitempty"`
	Message string         `json:"message,omitempty"`
}

// RecordResult is the per-record outcome of a batch create, update, or
// delete.
type RecordResult struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// BatchRecordsRequest carries the records of a batch create or update.
type BatchRecordsRequest struct {
	Records []map[string]any `json:"records"`
}

// DeleteRecordsRequest names the records of a batch delete.
type DeleteRecordsRequest struct {
	RecordIDs []int `json:"RecordIds"`
}

var knownEntities = map[string]bool{
	store.EntityClient:       true,
	store.EntityTransaction:  true,
	store.EntityBankEntry:    true,
	store.EntityInvoice:      true,
	store.EntityDocument:     true,
	store.EntityConversation: true,
	store.EntityMessage:      true,
}

func entityParam(c *gin.Context) (string, bool) {
	entity := c.Param("entity")
	if !knownEntities[entity] {
		c.JSON(http.StatusNotFound, RecordEnvelope{Success: false, Message: "Unknown entity: " + entity})
		return "", false
	}
	return entity, true
}

func parseRecordID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, RecordEnvelope{Success: false, Message: store.ErrInvalidID.Error()})
		return 0, false
	}
	if err := store.ValidateID(id); err != nil {
		c.JSON(http.StatusBadRequest, RecordEnvelope{Success: false, Message: err.Error()})
		return 0, false
	}
	return id, true
}

// recordID reads the Id field of a batch-update record. JSON numbers decode
// as float64.
func recordID(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		id := int(n)
		return id, store.ValidateID(id)
	case int:
		return n, store.ValidateID(n)
	case string:
		id, err := strconv.Atoi(n)
		if err != nil {
			return 0, store.ErrInvalidID
		}
		return id, store.ValidateID(id)
	}
	return 0, store.ErrInvalidID
}

func recordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		c.JSON(http.StatusBadRequest, RecordEnvelope{Success: false, Message: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, RecordEnvelope{Success: false, Message: "Record not found"})
	default:
		log.Printf("Record API error: %v", err)
		c.JSON(http.StatusInternalServerError, RecordEnvelope{Success: false, Message: "Internal server error"})
	}
}

// flattenRecord renders a record the way the generic API speaks: system
// fields beside the stored ones, not nested under them.
func flattenRecord(r store.Record) map[string]any {
	out := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["Id"] = r.ID
	out["CreatedOn"] = r.CreatedAt.Format(time.RFC3339)
	out["ModifiedOn"] = r.UpdatedAt.Format(time.RFC3339)
	return out
}

// stripSystemFields drops the system keys a client may echo back so they
// never land in the stored field set.
func stripSystemFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case "Id", "CreatedOn", "ModifiedOn":
			continue
		}
		out[k] = v
	}
	return out
}

// @Summary List records
// @Description Fetch every record of an entity, most recently created first
// @Tags records
// @Produce json
// @Param entity path string true "Entity name"
// @Success 200 {object} RecordEnvelope "Records"
// @Failure 404 {object} RecordEnvelope "Unknown entity"
// @Failure 500 {object} RecordEnvelope "Internal server error"
// @Router /api/records/{entity} [get]
func listRecords(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}

	records, err := recordStore.GetAll(context.Background(), entity)
	if err != nil {
		recordError(c, err)
		return
	}

	data := []map[string]any{}
	for _, r := range records {
		data = append(data, flattenRecord(r))
	}
	c.JSON(http.StatusOK, RecordEnvelope{Success: true, Data: data})
}

// @Summary Get record
// @Description Fetch a single record of an entity by ID
// @Tags records
// @Produce json
// @Param entity path string true "Entity name"
// @Param id path int true "Record ID"
// @Success 200 {object} RecordEnvelope "Record"
// @Failure 400 {object} RecordEnvelope "Invalid ID"
// @Failure 404 {object} RecordEnvelope "Not found"
// @Router /api/records/{entity}/{id} [get]
func getRecord(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), entity, id)
	if err != nil {
		recordError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecordEnvelope{Success: true, Data: flattenRecord(record)})
}

// @Summary Create records
// @Description Create a batch of records; each record succeeds or fails on its own
// @Tags records
// @Accept json
// @Produce json
// @Param entity path string true "Entity name"
// @Param batch body BatchRecordsRequest true "Records to create"
// @Success 200 {object} RecordEnvelope "Per-record results"
// @Failure 400 {object} RecordEnvelope "Bad request"
// @Router /api/records/{entity} [post]
func createRecords(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}

	var req BatchRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Records) == 0 {
		c.JSON(http.StatusBadRequest, RecordEnvelope{Success: false, Message: "records must be a non-empty array"})
		return
	}

	results := make([]RecordResult, 0, len(req.Records))
	for _, fields := range req.Records {
		record, err := recordStore.Create(context.Background(), entity, stripSystemFields(fields))
		if err != nil {
			results = append(results, RecordResult{Success: false, Message: err.Error()})
			continue
		}
		results = append(results, RecordResult{Success: true, Data: flattenRecord(record)})
	}

	c.JSON(http.StatusOK, RecordEnvelope{Success: true, Results: results})
}

// @Summary Update records
// @Description Update a batch of records named by their Id field; each record succeeds or fails on its own
// @Tags records
// @Accept json
// @Produce json
// @Param entity path string true "Entity name"
// @Param batch body BatchRecordsRequest true "Records to update"
// @Success 200 {object} RecordEnvelope "Per-record results"
// @Failure 400 {object} RecordEnvelope "Bad request"
// @Router /api/records/{entity} [put]
func updateRecords(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}

	var req BatchRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Records) == 0 {
		c.JSON(http.StatusBadRequest, RecordEnvelope{Success: false, Message: "records must be a non-empty array"})
		return
	}

	results := make([]RecordResult, 0, len(req.Records))
	for _, fields := range req.Records {
		id, idErr := recordID(fields["Id"])
		if idErr != nil {
			results = append(results, RecordResult{Success: false, Message: idErr.Error()})
			continue
		}
		record, err := recordStore.Update(context.Background(), entity, id, stripSystemFields(fields))
		if err != nil {
			results = append(results, RecordResult{Success: false, Message: err.Error()})
			continue
		}
		results = append(results, RecordResult{Success: true, Data: flattenRecord(record)})
	}

	c.JSON(http.StatusOK, RecordEnvelope{Success: true, Results: results})
}

// @Summary Delete records
// @Description Delete a batch of records by ID; each record succeeds or fails on its own
// @Tags records
// @Accept json
// @Produce json
// @Param entity path string true "Entity name"
// @Param body body DeleteRecordsRequest true "RecordIds to delete"
// @Success 200 {object} RecordEnvelope "Per-record results"
// @Failure 400 {object} RecordEnvelope "Bad request"
// @Router /api/records/{entity} [delete]
func deleteRecords(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}

	var req DeleteRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.RecordIDs) == 0 {
		c.JSON(http.StatusBadRequest, RecordEnvelope{Success: false, Message: "RecordIds must be a non-empty array"})
		return
	}

	results := make([]RecordResult, 0, len(req.RecordIDs))
	for _, id := range req.RecordIDs {
		record, err := recordStore.Delete(context.Background(), entity, id)
		if err != nil {
			results = append(results, RecordResult{Success: false, Message: err.Error()})
			continue
		}
		results = append(results, RecordResult{Success: true, Data: flattenRecord(record)})
	}

	c.JSON(http.StatusOK, RecordEnvelope{Success: true, Results: results})
}
