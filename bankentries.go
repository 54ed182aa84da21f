package main

import (
	"context"
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"keepara/model"
	"keepara/store"
)

// Bank entry handler functions

// BankEntryRequest is the create/update payload for a bank entry.
type BankEntryRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
}

func (r BankEntryRequest) toModel() (model.BankEntry, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return model.BankEntry{}, err
	}
	entry := model.BankEntry{
		Date:        date,
		Description: r.Description,
		Reference:   r.Reference,
		Amount:      r.Amount,
		Balance:     r.Balance,
		Type:        r.Type,
		Status:      r.Status,
	}
	if entry.Type == "" {
		entry.Type = entryTypeForAmount(entry.Amount)
	}
	if entry.Status == "" {
		entry.Status = "pending"
	}
	return entry, nil
}

func entryTypeForAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "debit"
	}
	return "credit"
}

// @Summary Get all bank entries
// @Description Retrieve all bank entries, optionally filtered by a search over description and reference
// @Tags bank-entries
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {array} model.BankEntry "List of bank entries"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/bank-entries [get]
func getBankEntries(c *gin.Context) {
	records, err := recordStore.GetAll(context.Background(), store.EntityBankEntry)
	if err != nil {
		handleStoreError(c, err, "fetching bank entries")
		return
	}

	search := c.Query("search")
	entries := []model.BankEntry{}
	for _, r := range records {
		entry := model.BankEntryFromRecord(r)
		if matchesAny(search, entry.Description, entry.Reference) {
			entries = append(entries, entry)
		}
	}

	c.JSON(http.StatusOK, entries)
}

// @Summary Get bank entry by ID
// @Description Retrieve a single bank entry
// @Tags bank-entries
// @Produce json
// @Param id path int true "Bank entry ID"
// @Success 200 {object} model.BankEntry "Bank entry"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Bank entry not found"
// @Router /api/bank-entries/{id} [get]
func getBankEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityBankEntry, id)
	if err != nil {
		handleStoreError(c, err, "fetching bank entry")
		return
	}

	c.JSON(http.StatusOK, model.BankEntryFromRecord(record))
}

// @Summary Create bank entry
// @Description Create a new bank entry; type defaults from the amount sign and status to pending
// @Tags bank-entries
// @Accept json
// @Produce json
// @Param entry body BankEntryRequest true "Bank entry data"
// @Success 201 {object} model.BankEntry "Created bank entry"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/bank-entries [post]
func createBankEntry(c *gin.Context) {
	var req BankEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entry, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := recordStore.Create(context.Background(), store.EntityBankEntry, entry.Fields())
	if err != nil {
		handleStoreError(c, err, "creating bank entry")
		return
	}

	c.JSON(http.StatusCreated, model.BankEntryFromRecord(record))
}

// @Summary Update bank entry
// @Description Update an existing bank entry; the record ID is preserved
// @Tags bank-entries
// @Accept json
// @Produce json
// @Param id path int true "Bank entry ID"
// @Param entry body BankEntryRequest true "Updated bank entry data"
// @Success 200 {object} model.BankEntry "Updated bank entry"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Bank entry not found"
// @Router /api/bank-entries/{id} [put]
func updateBankEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req BankEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entry, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := recordStore.Update(context.Background(), store.EntityBankEntry, id, entry.Fields())
	if err != nil {
		handleStoreError(c, err, "updating bank entry")
		return
	}

	c.JSON(http.StatusOK, model.BankEntryFromRecord(record))
}

// @Summary Delete bank entry
// @Description Delete a specific bank entry by ID
// @Tags bank-entries
// @Produce json
// @Param id path int true "Bank entry ID"
// @Success 200 {object} map[string]interface{} "Bank entry deleted successfully"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Bank entry not found"
// @Router /api/bank-entries/{id} [delete]
func deleteBankEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := recordStore.Delete(context.Background(), store.EntityBankEntry, id); err != nil {
		handleStoreError(c, err, "deleting bank entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bank entry deleted successfully"})
}

// @Summary Import bank statement CSV
// @Description Upload a CSV statement (date, description, reference, amount, optional balance). Rows that fail to parse are skipped and counted.
// @Tags bank-entries
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file to import"
// @Success 200 {object} map[string]interface{} "Import result - imported entries and skipped_rows count"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/bank-entries/import [post]
func importBankEntries(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading CSV file"})
		return
	}

	// Skip header row if present
	start := 0
	if len(rows) > 0 {
		first := strings.ToLower(strings.TrimSpace(rows[0][0]))
		if first == "date" || first == "transaction date" {
			start = 1
		}
	}

	imported := []model.BankEntry{}
	skipped := 0
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 4 {
			skipped++
			continue
		}

		date, err := parseDate(strings.TrimSpace(row[0]))
		if err != nil {
			skipped++
			continue
		}
		amount, err := parseCSVAmount(row[3])
		if err != nil {
			skipped++
			continue
		}

		entry := model.BankEntry{
			Date:        date,
			Description: strings.TrimSpace(row[1]),
			Reference:   strings.TrimSpace(row[2]),
			Amount:      amount,
			Type:        entryTypeForAmount(amount),
			Status:      "pending",
		}
		if len(row) >= 5 {
			if balance, err := parseCSVAmount(row[4]); err == nil {
				entry.Balance = balance
			}
		}

		record, err := recordStore.Create(context.Background(), store.EntityBankEntry, entry.Fields())
		if err != nil {
			skipped++
			continue
		}
		imported = append(imported, model.BankEntryFromRecord(record))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Statement imported successfully",
		"entries":      imported,
		"skipped_rows": skipped,
	})
}

// parseCSVAmount parses a statement amount, tolerating currency symbols and
// thousands separators.
func parseCSVAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	return decimal.NewFromString(cleaned)
}
