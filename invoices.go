package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"keepara/model"
	"keepara/store"
)

// Invoice handler functions

// InvoiceItemRequest is one line item in an invoice payload.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// InvoiceRequest is the create/update payload for an invoice.
type InvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number"`
	Client        string               `json:"client"`
	ClientID      *int                 `json:"client_id"`
	Status        string               `json:"status"`
	IssueDate     string               `json:"issue_date"`
	DueDate       string               `json:"due_date"`
	Description   string               `json:"description"`
	Items         []InvoiceItemRequest `json:"items"`
	PaymentMethod string               `json:"payment_method"`
}

func (r InvoiceRequest) toModel() (model.Invoice, error) {
	issue, err := parseDate(r.IssueDate)
	if err != nil {
		return model.Invoice{}, err
	}
	due, err := parseDate(r.DueDate)
	if err != nil {
		return model.Invoice{}, err
	}

	inv := model.Invoice{
		InvoiceNumber: r.InvoiceNumber,
		Client:        r.Client,
		ClientID:      r.ClientID,
		Status:        r.Status,
		IssueDate:     issue,
		DueDate:       due,
		Description:   r.Description,
		PaymentMethod: r.PaymentMethod,
	}
	if inv.Status == "" {
		inv.Status = model.InvoiceDraft
	}

	// Invoice total is the sum of its line items; each line amount is
	// quantity times rate.
	total := decimal.Zero
	for _, item := range r.Items {
		amount := item.Rate.Mul(decimal.NewFromInt(int64(item.Quantity)))
		inv.Items = append(inv.Items, model.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      amount,
		})
		total = total.Add(amount)
	}
	inv.Amount = total
	return inv, nil
}

// withDueDays stamps the derived days-until-due field for a response.
func withDueDays(inv model.Invoice) model.Invoice {
	inv.DaysUntilDue = inv.DueInDays(time.Now().UTC())
	return inv
}

func validInvoiceStatus(status string) bool {
	switch status {
	case model.InvoiceDraft, model.InvoicePending, model.InvoiceSent, model.InvoicePaid, model.InvoiceOverdue:
		return true
	}
	return false
}

// nextInvoiceNumber produces the next INV-YYYY-NNN number for the current
// collection.
func nextInvoiceNumber(ctx context.Context) (string, error) {
	records, err := recordStore.GetAll(ctx, store.EntityInvoice)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%03d", time.Now().Year(), len(records)+1), nil
}

// @Summary Get all invoices
// @Description Retrieve all invoices with optional search (number, client, description) and status filters
// @Tags invoices
// @Produce json
// @Param search query string false "Search term"
// @Param status query string false "all|draft|pending|sent|paid|overdue"
// @Success 200 {array} model.Invoice "List of invoices"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/invoices [get]
func getInvoices(c *gin.Context) {
	records, err := recordStore.GetAll(context.Background(), store.EntityInvoice)
	if err != nil {
		handleStoreError(c, err, "fetching invoices")
		return
	}

	search := c.Query("search")
	status := c.Query("status")
	invoices := []model.Invoice{}
	for _, r := range records {
		inv := model.InvoiceFromRecord(r)
		if !matchesAny(search, inv.InvoiceNumber, inv.Client, inv.Description) {
			continue
		}
		if status != "" && status != "all" && inv.Status != status {
			continue
		}
		invoices = append(invoices, withDueDays(inv))
	}

	c.JSON(http.StatusOK, invoices)
}

// @Summary Get invoice by ID
// @Description Retrieve a single invoice
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} model.Invoice "Invoice"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Invoice not found"
// @Router /api/invoices/{id} [get]
func getInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityInvoice, id)
	if err != nil {
		handleStoreError(c, err, "fetching invoice")
		return
	}

	c.JSON(http.StatusOK, withDueDays(model.InvoiceFromRecord(record)))
}

// @Summary Create invoice
// @Description Create a new invoice; the total comes from its line items, and the invoice number is generated when omitted
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body InvoiceRequest true "Invoice data"
// @Success 201 {object} model.Invoice "Created invoice"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/invoices [post]
func createInvoice(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateName(req.Client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client cannot be empty"})
		return
	}

	inv, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validInvoiceStatus(inv.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice status"})
		return
	}

	if inv.InvoiceNumber == "" {
		number, err := nextInvoiceNumber(context.Background())
		if err != nil {
			handleStoreError(c, err, "numbering invoice")
			return
		}
		inv.InvoiceNumber = number
	}

	record, err := recordStore.Create(context.Background(), store.EntityInvoice, inv.Fields())
	if err != nil {
		handleStoreError(c, err, "creating invoice")
		return
	}

	c.JSON(http.StatusCreated, withDueDays(model.InvoiceFromRecord(record)))
}

// @Summary Update invoice
// @Description Update an existing invoice; the record ID is preserved
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param invoice body InvoiceRequest true "Updated invoice data"
// @Success 200 {object} model.Invoice "Updated invoice"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Invoice not found"
// @Router /api/invoices/{id} [put]
func updateInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	inv, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validInvoiceStatus(inv.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice status"})
		return
	}

	fields := inv.Fields()
	if req.Items == nil {
		// The merge keeps the stored line items when the payload omits
		// them, so keep the stored amount too; otherwise the total and
		// the items it sums would drift apart.
		delete(fields, "amount")
	} else if len(req.Items) == 0 {
		fields["items"] = []any{}
	}

	record, err := recordStore.Update(context.Background(), store.EntityInvoice, id, fields)
	if err != nil {
		handleStoreError(c, err, "updating invoice")
		return
	}

	c.JSON(http.StatusOK, withDueDays(model.InvoiceFromRecord(record)))
}

// @Summary Delete invoice
// @Description Delete a specific invoice by ID
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} map[string]interface{} "Invoice deleted successfully"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Invoice not found"
// @Router /api/invoices/{id} [delete]
func deleteInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := recordStore.Delete(context.Background(), store.EntityInvoice, id); err != nil {
		handleStoreError(c, err, "deleting invoice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// @Summary Send invoice
// @Description Mark an invoice as sent
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} model.Invoice "Sent invoice"
// @Failure 400 {object} map[string]interface{} "Invalid ID or already paid"
// @Failure 404 {object} map[string]interface{} "Invoice not found"
// @Router /api/invoices/{id}/send [post]
func sendInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityInvoice, id)
	if err != nil {
		handleStoreError(c, err, "fetching invoice")
		return
	}

	inv := model.InvoiceFromRecord(record)
	if inv.Status == model.InvoicePaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invoice is already paid"})
		return
	}

	updated, err := recordStore.Update(context.Background(), store.EntityInvoice, id,
		map[string]any{"status": model.InvoiceSent})
	if err != nil {
		handleStoreError(c, err, "sending invoice")
		return
	}

	c.JSON(http.StatusOK, withDueDays(model.InvoiceFromRecord(updated)))
}

// @Summary Duplicate invoice
// @Description Create a draft copy of an invoice with a fresh number, issued today
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 201 {object} model.Invoice "Duplicated invoice"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Invoice not found"
// @Router /api/invoices/{id}/duplicate [post]
func duplicateInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityInvoice, id)
	if err != nil {
		handleStoreError(c, err, "fetching invoice")
		return
	}

	inv := model.InvoiceFromRecord(record)
	number, err := nextInvoiceNumber(context.Background())
	if err != nil {
		handleStoreError(c, err, "numbering invoice")
		return
	}

	now := time.Now().UTC()
	inv.InvoiceNumber = number
	inv.Status = model.InvoiceDraft
	inv.IssueDate = now
	inv.DueDate = now.AddDate(0, 0, 30)
	inv.PaidDate = nil
	inv.PaymentMethod = ""

	created, err := recordStore.Create(context.Background(), store.EntityInvoice, inv.Fields())
	if err != nil {
		handleStoreError(c, err, "duplicating invoice")
		return
	}

	c.JSON(http.StatusCreated, withDueDays(model.InvoiceFromRecord(created)))
}
