package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"keepara/store"
)

// Store-record conversion. Field values round-trip through JSON in the
// Postgres store, so readers accept both native Go values (in-memory seeds)
// and their JSON forms (float64 numbers, RFC3339 strings).

// BankEntryFromRecord decodes a stored bank_entry record.
func BankEntryFromRecord(r store.Record) BankEntry {
	return BankEntry{
		ID:          r.ID,
		Date:        fieldTime(r.Fields, "date"),
		Description: fieldString(r.Fields, "description"),
		Reference:   fieldString(r.Fields, "reference"),
		Amount:      fieldDecimal(r.Fields, "amount"),
		Balance:     fieldDecimal(r.Fields, "balance"),
		Type:        fieldString(r.Fields, "type"),
		Status:      fieldString(r.Fields, "status"),
		CreatedOn:   r.CreatedAt,
		ModifiedOn:  r.UpdatedAt,
	}
}

// Fields encodes the entry for storage.
func (b BankEntry) Fields() map[string]any {
	return map[string]any{
		"date":        b.Date.UTC().Format(time.RFC3339),
		"description": b.Description,
		"reference":   b.Reference,
		"amount":      b.Amount.String(),
		"balance":     b.Balance.String(),
		"type":        b.Type,
		"status":      b.Status,
	}
}

// TransactionFromRecord decodes a stored transaction record. Attachments
// are normalized to a count: a list counts its entries, a legacy string
// path counts as one.
func TransactionFromRecord(r store.Record) Transaction {
	return Transaction{
		ID:              r.ID,
		Date:            fieldTime(r.Fields, "date"),
		Description:     fieldString(r.Fields, "description"),
		Category:        fieldString(r.Fields, "category"),
		Amount:          fieldDecimal(r.Fields, "amount"),
		Type:            fieldString(r.Fields, "type"),
		Status:          fieldString(r.Fields, "status"),
		Reconciled:      fieldBool(r.Fields, "reconciled"),
		Client:          fieldString(r.Fields, "client"),
		ClientID:        fieldIntPtr(r.Fields, "client_id"),
		InvoiceID:       fieldString(r.Fields, "invoice_id"),
		Reference:       fieldString(r.Fields, "reference"),
		PaymentMethod:   fieldString(r.Fields, "payment_method"),
		AIConfidence:    fieldFloatPtr(r.Fields, "ai_confidence"),
		AttachmentCount: attachmentCount(r.Fields),
		CreatedOn:       r.CreatedAt,
		ModifiedOn:      r.UpdatedAt,
	}
}

// Fields encodes the transaction for storage.
func (t Transaction) Fields() map[string]any {
	fields := map[string]any{
		"date":             t.Date.UTC().Format(time.RFC3339),
		"description":      t.Description,
		"category":         t.Category,
		"amount":           t.Amount.String(),
		"type":             t.Type,
		"status":           t.Status,
		"reconciled":       t.Reconciled,
		"client":           t.Client,
		"invoice_id":       t.InvoiceID,
		"reference":        t.Reference,
		"payment_method":   t.PaymentMethod,
		"attachment_count": t.AttachmentCount,
	}
	if t.ClientID != nil {
		fields["client_id"] = *t.ClientID
	}
	if t.AIConfidence != nil {
		fields["ai_confidence"] = *t.AIConfidence
	}
	return fields
}

// ClientFromRecord decodes a stored client record.
func ClientFromRecord(r store.Record) Client {
	return Client{
		ID:         r.ID,
		Name:       fieldString(r.Fields, "Name"),
		Tags:       fieldString(r.Fields, "Tags"),
		Owner:      fieldString(r.Fields, "Owner"),
		CreatedOn:  r.CreatedAt,
		ModifiedOn: r.UpdatedAt,
	}
}

// Fields encodes the client for storage.
func (c Client) Fields() map[string]any {
	return map[string]any{
		"Name":  c.Name,
		"Tags":  c.Tags,
		"Owner": c.Owner,
	}
}

// InvoiceFromRecord decodes a stored invoice record.
func InvoiceFromRecord(r store.Record) Invoice {
	inv := Invoice{
		ID:            r.ID,
		InvoiceNumber: fieldString(r.Fields, "invoice_number"),
		Client:        fieldString(r.Fields, "client"),
		ClientID:      fieldIntPtr(r.Fields, "client_id"),
		Amount:        fieldDecimal(r.Fields, "amount"),
		Status:        fieldString(r.Fields, "status"),
		IssueDate:     fieldTime(r.Fields, "issue_date"),
		DueDate:       fieldTime(r.Fields, "due_date"),
		Description:   fieldString(r.Fields, "description"),
		PaymentMethod: fieldString(r.Fields, "payment_method"),
		CreatedOn:     r.CreatedAt,
		ModifiedOn:    r.UpdatedAt,
	}
	if paid := fieldTime(r.Fields, "paid_date"); !paid.IsZero() {
		inv.PaidDate = &paid
	}
	if items, ok := r.Fields["items"].([]any); ok {
		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			qty, _ := fieldInt(item, "quantity")
			inv.Items = append(inv.Items, InvoiceItem{
				Description: fieldString(item, "description"),
				Quantity:    qty,
				Rate:        fieldDecimal(item, "rate"),
				Amount:      fieldDecimal(item, "amount"),
			})
		}
	}
	return inv
}

// Fields encodes the invoice for storage.
func (i Invoice) Fields() map[string]any {
	fields := map[string]any{
		"invoice_number": i.InvoiceNumber,
		"client":         i.Client,
		"amount":         i.Amount.String(),
		"status":         i.Status,
		"issue_date":     i.IssueDate.UTC().Format(time.RFC3339),
		"due_date":       i.DueDate.UTC().Format(time.RFC3339),
		"description":    i.Description,
		"payment_method": i.PaymentMethod,
	}
	if i.ClientID != nil {
		fields["client_id"] = *i.ClientID
	}
	if i.PaidDate != nil {
		fields["paid_date"] = i.PaidDate.UTC().Format(time.RFC3339)
	}
	if len(i.Items) > 0 {
		items := make([]any, 0, len(i.Items))
		for _, item := range i.Items {
			items = append(items, map[string]any{
				"description": item.Description,
				"quantity":    item.Quantity,
				"rate":        item.Rate.String(),
				"amount":      item.Amount.String(),
			})
		}
		fields["items"] = items
	}
	return fields
}

// DocumentFromRecord decodes a stored document record.
func DocumentFromRecord(r store.Record) Document {
	doc := Document{
		ID:         r.ID,
		Name:       fieldString(r.Fields, "name"),
		Type:       fieldString(r.Fields, "type"),
		Client:     fieldString(r.Fields, "client"),
		ClientID:   fieldIntPtr(r.Fields, "client_id"),
		UploadedBy: fieldString(r.Fields, "uploaded_by"),
		Category:   fieldString(r.Fields, "category"),
		Status:     fieldString(r.Fields, "status"),
		URL:        fieldString(r.Fields, "url"),
		CreatedOn:  r.CreatedAt,
		ModifiedOn: r.UpdatedAt,
	}
	if size, ok := fieldInt(r.Fields, "size"); ok {
		doc.Size = int64(size)
	}
	if ocr, ok := r.Fields["ocr"].(map[string]any); ok {
		conf, _ := fieldFloat(ocr, "confidence")
		doc.OCR = &OCRData{
			Vendor:     fieldString(ocr, "vendor"),
			Amount:     fieldDecimal(ocr, "amount"),
			Date:       fieldString(ocr, "date"),
			Confidence: conf,
		}
	}
	return doc
}

// Fields encodes the document for storage.
func (d Document) Fields() map[string]any {
	fields := map[string]any{
		"name":        d.Name,
		"type":        d.Type,
		"client":      d.Client,
		"size":        d.Size,
		"uploaded_by": d.UploadedBy,
		"category":    d.Category,
		"status":      d.Status,
		"url":         d.URL,
	}
	if d.ClientID != nil {
		fields["client_id"] = *d.ClientID
	}
	if d.OCR != nil {
		fields["ocr"] = map[string]any{
			"vendor":     d.OCR.Vendor,
			"amount":     d.OCR.Amount.String(),
			"date":       d.OCR.Date,
			"confidence": d.OCR.Confidence,
		}
	}
	return fields
}

// ConversationFromRecord decodes a stored conversation record.
func ConversationFromRecord(r store.Record) Conversation {
	unread, _ := fieldInt(r.Fields, "unread_count")
	return Conversation{
		ID:            r.ID,
		Client:        fieldString(r.Fields, "client"),
		ClientID:      fieldIntPtr(r.Fields, "client_id"),
		LastMessage:   fieldString(r.Fields, "last_message"),
		LastMessageAt: fieldTime(r.Fields, "last_message_at"),
		UnreadCount:   unread,
		CreatedOn:     r.CreatedAt,
		ModifiedOn:    r.UpdatedAt,
	}
}

// Fields encodes the conversation for storage.
func (c Conversation) Fields() map[string]any {
	fields := map[string]any{
		"client":          c.Client,
		"last_message":    c.LastMessage,
		"last_message_at": c.LastMessageAt.UTC().Format(time.RFC3339),
		"unread_count":    c.UnreadCount,
	}
	if c.ClientID != nil {
		fields["client_id"] = *c.ClientID
	}
	return fields
}

// MessageFromRecord decodes a stored message record.
func MessageFromRecord(r store.Record) Message {
	convID, _ := fieldInt(r.Fields, "conversation_id")
	return Message{
		ID:             r.ID,
		ConversationID: convID,
		Sender:         fieldString(r.Fields, "sender"),
		Content:        fieldString(r.Fields, "content"),
		SentAt:         fieldTime(r.Fields, "sent_at"),
		Read:           fieldBool(r.Fields, "read"),
		CreatedOn:      r.CreatedAt,
		ModifiedOn:     r.UpdatedAt,
	}
}

// Fields encodes the message for storage.
func (m Message) Fields() map[string]any {
	return map[string]any{
		"conversation_id": m.ConversationID,
		"sender":          m.Sender,
		"content":         m.Content,
		"sent_at":         m.SentAt.UTC().Format(time.RFC3339),
		"read":            m.Read,
	}
}

// Field accessors

func fieldString(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

func fieldBool(fields map[string]any, key string) bool {
	if b, ok := fields[key].(bool); ok {
		return b
	}
	return false
}

func fieldInt(fields map[string]any, key string) (int, bool) {
	switch v := fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

func fieldIntPtr(fields map[string]any, key string) *int {
	if n, ok := fieldInt(fields, key); ok {
		return &n
	}
	return nil
}

func fieldFloat(fields map[string]any, key string) (float64, bool) {
	switch v := fields[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

func fieldFloatPtr(fields map[string]any, key string) *float64 {
	if f, ok := fieldFloat(fields, key); ok {
		return &f
	}
	return nil
}

func fieldDecimal(fields map[string]any, key string) decimal.Decimal {
	switch v := fields[key].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case decimal.Decimal:
		return v
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func fieldTime(fields map[string]any, key string) time.Time {
	switch v := fields[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func attachmentCount(fields map[string]any) int {
	switch v := fields["attachments"].(type) {
	case []any:
		return len(v)
	case []string:
		return len(v)
	case string:
		// Legacy records carry a single file path instead of a list.
		if v != "" {
			return 1
		}
		return 0
	}
	count, _ := fieldInt(fields, "attachment_count")
	return count
}
