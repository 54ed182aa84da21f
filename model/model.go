// Package model defines the domain records the service manages and their
// conversions to and from store records.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankEntry is one imported bank-statement line.
type BankEntry struct {
	ID          int             `json:"Id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"` // negative = debit, positive = credit
	Balance     decimal.Decimal `json:"balance"`
	Type        string          `json:"type"` // credit|debit
	Status      string          `json:"status"`
	CreatedOn   time.Time       `json:"CreatedOn"`
	ModifiedOn  time.Time       `json:"ModifiedOn"`
}

// Transaction is a bookkeeping transaction.
type Transaction struct {
	ID              int             `json:"Id"`
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"` // income|expense
	Status          string          `json:"status"`
	Reconciled      bool            `json:"reconciled"`
	Client          string          `json:"client,omitempty"`
	ClientID        *int            `json:"client_id,omitempty"`
	InvoiceID       string          `json:"invoice_id,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	AIConfidence    *float64        `json:"ai_confidence,omitempty"` // advisory only
	AttachmentCount int             `json:"attachment_count"`
	CreatedOn       time.Time       `json:"CreatedOn"`
	ModifiedOn      time.Time       `json:"ModifiedOn"`
}

// Client is a bookkeeping client. Owner is optional; the front-end shows
// "Unassigned" when it is empty.
type Client struct {
	ID         int       `json:"Id"`
	Name       string    `json:"Name"`
	Tags       string    `json:"Tags,omitempty"`
	Owner      string    `json:"Owner,omitempty"`
	CreatedOn  time.Time `json:"CreatedOn"`
	ModifiedOn time.Time `json:"ModifiedOn"`
}

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice statuses.
const (
	InvoiceDraft   = "draft"
	InvoicePending = "pending"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// Invoice is a client invoice.
type Invoice struct {
	ID            int             `json:"Id"`
	InvoiceNumber string          `json:"invoice_number"`
	Client        string          `json:"client"`
	ClientID      *int            `json:"client_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	Description   string          `json:"description,omitempty"`
	Items         []InvoiceItem   `json:"items,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedOn     time.Time       `json:"CreatedOn"`
	ModifiedOn    time.Time       `json:"ModifiedOn"`

	// DaysUntilDue is derived for responses, not stored.
	DaysUntilDue int `json:"days_until_due"`
}

// DueInDays reports whole days from now until the due date, negative once
// the invoice is overdue. Paid invoices are settled and report zero.
func (i Invoice) DueInDays(now time.Time) int {
	if i.Status == InvoicePaid || i.DueDate.IsZero() {
		return 0
	}
	return int(i.DueDate.Sub(now).Hours() / 24)
}

// OCRData holds extracted receipt data attached to a document. Confidence
// is advisory and never drives a decision.
type OCRData struct {
	Vendor     string          `json:"vendor"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Confidence float64         `json:"confidence"`
}

// Document is uploaded-file metadata.
type Document struct {
	ID         int       `json:"Id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"` // receipt|invoice|statement|tax|contract|report
	Client     string    `json:"client,omitempty"`
	ClientID   *int      `json:"client_id,omitempty"`
	Size       int64     `json:"size"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	Category   string    `json:"category,omitempty"`
	Status     string    `json:"status"` // uploaded|processing|processed|error
	OCR        *OCRData  `json:"ocr,omitempty"`
	URL        string    `json:"url,omitempty"`
	CreatedOn  time.Time `json:"CreatedOn"`
	ModifiedOn time.Time `json:"ModifiedOn"`
}

// Conversation is a per-client message thread summary.
type Conversation struct {
	ID            int       `json:"Id"`
	Client        string    `json:"client"`
	ClientID      *int      `json:"client_id,omitempty"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
	CreatedOn     time.Time `json:"CreatedOn"`
	ModifiedOn    time.Time `json:"ModifiedOn"`
}

// Message is one message inside a conversation. Sender is either "client"
// or "accountant".
type Message struct {
	ID             int       `json:"Id"`
	ConversationID int       `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
	Read           bool      `json:"read"`
	CreatedOn      time.Time `json:"CreatedOn"`
	ModifiedOn     time.Time `json:"ModifiedOn"`
}

// Match is a committed reconciliation pairing. It carries full snapshots of
// both sides so unmatch can restore them unchanged.
type Match struct {
	ID            string          `json:"Id"`
	BankEntryID   int             `json:"bank_entry_id"`
	TransactionID int             `json:"transaction_id"`
	BankEntry     BankEntry       `json:"bank_entry"`
	Transaction   Transaction     `json:"transaction"`
	MatchedAt     time.Time       `json:"matched_at"`
	Difference    decimal.Decimal `json:"difference"`
}
