package main

import (
	"time"

	"github.com/shopspring/decimal"

	"keepara/model"
	"keepara/store"
)

// Development fixtures for the in-memory store. Listing order is most
// recent first, so each slice below is seeded back to front.

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func ts(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func intPtr(n int) *int { return &n }

func seedBankEntries() []model.BankEntry {
	return []model.BankEntry{
		{ID: 1, Date: ts("2024-01-15T10:30:00Z"), Description: "ACH Credit - Client Payment ABC Corp", Reference: "ACH-2024-001", Amount: dec("2500.00"), Balance: dec("15750.00"), Type: "credit", Status: "cleared"},
		{ID: 2, Date: ts("2024-01-14T14:22:00Z"), Description: "Wire Transfer - Office Rent Payment", Reference: "WIRE-2024-003", Amount: dec("-1200.00"), Balance: dec("13250.00"), Type: "debit", Status: "cleared"},
		{ID: 3, Date: ts("2024-01-13T09:15:00Z"), Description: "Check Deposit - Invoice #INV-2024-045", Reference: "CHK-2024-012", Amount: dec("875.50"), Balance: dec("14450.00"), Type: "credit", Status: "cleared"},
		{ID: 4, Date: ts("2024-01-12T16:45:00Z"), Description: "Online Transfer - Utility Payment", Reference: "OTF-2024-018", Amount: dec("-245.75"), Balance: dec("13574.50"), Type: "debit", Status: "cleared"},
		{ID: 5, Date: ts("2024-01-11T11:30:00Z"), Description: "Direct Deposit - Payroll Processing", Reference: "DD-2024-007", Amount: dec("3200.00"), Balance: dec("13820.25"), Type: "credit", Status: "cleared"},
		{ID: 6, Date: ts("2024-01-10T13:20:00Z"), Description: "Card Payment - Office Supplies", Reference: "CARD-2024-029", Amount: dec("-127.38"), Balance: dec("10620.25"), Type: "debit", Status: "cleared"},
		{ID: 7, Date: ts("2024-01-09T08:45:00Z"), Description: "ACH Credit - Freelance Payment", Reference: "ACH-2024-002", Amount: dec("750.00"), Balance: dec("10747.63"), Type: "credit", Status: "cleared"},
		{ID: 8, Date: ts("2024-01-08T15:30:00Z"), Description: "Check Payment - Software License", Reference: "CHK-2024-013", Amount: dec("-299.99"), Balance: dec("9997.63"), Type: "debit", Status: "cleared"},
		{ID: 9, Date: ts("2024-01-07T12:15:00Z"), Description: "Wire Transfer - Equipment Purchase", Reference: "WIRE-2024-004", Amount: dec("-1850.00"), Balance: dec("10297.62"), Type: "debit", Status: "cleared"},
		{ID: 10, Date: ts("2024-01-06T10:00:00Z"), Description: "ACH Credit - Monthly Retainer", Reference: "ACH-2024-003", Amount: dec("1500.00"), Balance: dec("12147.62"), Type: "credit", Status: "cleared"},
	}
}

func seedTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: 1, Date: ts("2024-01-15T10:30:00Z"), Description: "Client Payment - ABC Corp Project", Category: "Revenue", Amount: dec("2500.00"), Type: "income", Status: "completed", ClientID: intPtr(1), InvoiceID: "INV-2024-045"},
		{ID: 2, Date: ts("2024-01-14T14:22:00Z"), Description: "Office Rent - January 2024", Category: "Office Expenses", Amount: dec("-1200.00"), Type: "expense", Status: "completed", Reference: "RENT-JAN-2024"},
		{ID: 3, Date: ts("2024-01-13T09:15:00Z"), Description: "Web Development Services", Category: "Revenue", Amount: dec("875.50"), Type: "income", Status: "completed", ClientID: intPtr(3), InvoiceID: "INV-2024-046"},
		{ID: 4, Date: ts("2024-01-12T16:45:00Z"), Description: "Electricity Bill - December", Category: "Utilities", Amount: dec("-245.75"), Type: "expense", Status: "completed", Reference: "ELEC-DEC-2023"},
		{ID: 5, Date: ts("2024-01-11T11:30:00Z"), Description: "Employee Salaries - January", Category: "Payroll", Amount: dec("-3200.00"), Type: "expense", Status: "completed", Reference: "PAY-JAN-2024"},
		{ID: 6, Date: ts("2024-01-10T13:20:00Z"), Description: "Office Supplies Purchase", Category: "Office Expenses", Amount: dec("-127.38"), Type: "expense", Status: "completed", Reference: "SUP-2024-003"},
		{ID: 7, Date: ts("2024-01-09T08:45:00Z"), Description: "Freelance Design Work", Category: "Revenue", Amount: dec("750.00"), Type: "income", Status: "completed", ClientID: intPtr(5), InvoiceID: "INV-2024-047"},
		{ID: 8, Date: ts("2024-01-08T15:30:00Z"), Description: "Software License - Adobe Creative", Category: "Software", Amount: dec("-299.99"), Type: "expense", Status: "completed", Reference: "LIC-ADOBE-2024"},
		{ID: 9, Date: ts("2024-01-07T12:15:00Z"), Description: "Equipment Purchase - Laptop", Category: "Equipment", Amount: dec("-1850.00"), Type: "expense", Status: "completed", Reference: "EQP-2024-001"},
		{ID: 10, Date: ts("2024-01-06T10:00:00Z"), Description: "Monthly Retainer - XYZ Company", Category: "Revenue", Amount: dec("1500.00"), Type: "income", Status: "completed", ClientID: intPtr(2), InvoiceID: "INV-2024-048"},
		{ID: 11, Date: ts("2024-01-05T14:30:00Z"), Description: "Marketing Campaign - Google Ads", Category: "Marketing", Amount: dec("-450.00"), Type: "expense", Status: "completed", Reference: "ADS-JAN-2024"},
		{ID: 12, Date: ts("2024-01-04T09:20:00Z"), Description: "Consulting Services - Tax Prep", Category: "Professional Services", Amount: dec("-500.00"), Type: "expense", Status: "completed", Reference: "TAX-PREP-2024"},
	}
}

func seedClients() []model.Client {
	return []model.Client{
		{ID: 1, Name: "ABC Corp", Tags: "retainer,priority", Owner: "Dana"},
		{ID: 2, Name: "XYZ Company", Tags: "retainer", Owner: "Dana"},
		{ID: 3, Name: "Brightside Studio", Tags: "project", Owner: "Miguel"},
		{ID: 4, Name: "Acme Industries", Tags: "prospect"},
		{ID: 5, Name: "Harbor Freelance Co", Tags: "project", Owner: "Miguel"},
	}
}

func seedInvoices() []model.Invoice {
	return []model.Invoice{
		{ID: 1, InvoiceNumber: "INV-2024-045", Client: "ABC Corp", ClientID: intPtr(1), Amount: dec("2500.00"), Status: model.InvoicePaid, IssueDate: ts("2024-01-02T00:00:00Z"), DueDate: ts("2024-02-01T00:00:00Z"), Description: "January project milestone", PaymentMethod: "ach"},
		{ID: 2, InvoiceNumber: "INV-2024-046", Client: "Brightside Studio", ClientID: intPtr(3), Amount: dec("875.50"), Status: model.InvoicePaid, IssueDate: ts("2024-01-03T00:00:00Z"), DueDate: ts("2024-02-02T00:00:00Z"), Description: "Web development services"},
		{ID: 3, InvoiceNumber: "INV-2024-047", Client: "Harbor Freelance Co", ClientID: intPtr(5), Amount: dec("750.00"), Status: model.InvoiceSent, IssueDate: ts("2024-01-05T00:00:00Z"), DueDate: ts("2024-02-04T00:00:00Z"), Description: "Design retainer"},
		{ID: 4, InvoiceNumber: "INV-2024-048", Client: "XYZ Company", ClientID: intPtr(2), Amount: dec("1500.00"), Status: model.InvoiceOverdue, IssueDate: ts("2023-12-20T00:00:00Z"), DueDate: ts("2024-01-19T00:00:00Z"), Description: "Monthly retainer"},
		{ID: 5, InvoiceNumber: "INV-2024-049", Client: "Acme Industries", ClientID: intPtr(4), Amount: dec("3100.00"), Status: model.InvoiceDraft, IssueDate: ts("2024-01-15T00:00:00Z"), DueDate: ts("2024-02-14T00:00:00Z"), Description: "Quarterly bookkeeping"},
	}
}

func seedDocuments() []model.Document {
	return []model.Document{
		{ID: 1, Name: "abc-corp-receipt-jan.pdf", Type: "receipt", Client: "ABC Corp", ClientID: intPtr(1), Size: 48213, UploadedBy: "Dana", Category: "Expenses", Status: "processed", OCR: &model.OCRData{Vendor: "Staples", Amount: dec("127.38"), Date: "2024-01-10", Confidence: 0.94}},
		{ID: 2, Name: "december-bank-statement.pdf", Type: "statement", Size: 202519, UploadedBy: "Dana", Category: "Banking", Status: "processed"},
		{ID: 3, Name: "xyz-retainer-contract.pdf", Type: "contract", Client: "XYZ Company", ClientID: intPtr(2), Size: 91044, UploadedBy: "Miguel", Category: "Contracts", Status: "uploaded"},
	}
}

func seedConversations() []model.Conversation {
	return []model.Conversation{
		{ID: 1, Client: "ABC Corp", ClientID: intPtr(1), LastMessage: "Thanks, the January invoice looks right.", LastMessageAt: ts("2024-01-15T09:05:00Z"), UnreadCount: 0},
		{ID: 2, Client: "XYZ Company", ClientID: intPtr(2), LastMessage: "Can you resend the December retainer invoice?", LastMessageAt: ts("2024-01-14T16:40:00Z"), UnreadCount: 1},
	}
}

func seedMessages() []model.Message {
	return []model.Message{
		{ID: 1, ConversationID: 1, Sender: "accountant", Content: "Your January invoice is attached.", SentAt: ts("2024-01-15T08:50:00Z"), Read: true},
		{ID: 2, ConversationID: 1, Sender: "client", Content: "Thanks, the January invoice looks right.", SentAt: ts("2024-01-15T09:05:00Z"), Read: true},
		{ID: 3, ConversationID: 2, Sender: "client", Content: "Can you resend the December retainer invoice?", SentAt: ts("2024-01-14T16:40:00Z"), Read: false},
	}
}

// seedStore loads the fixtures into a fresh in-memory store.
func seedStore(mem *store.Memory) {
	bank := seedBankEntries()
	for i := len(bank) - 1; i >= 0; i-- {
		mem.Seed(store.EntityBankEntry, bank[i].ID, bank[i].Date, bank[i].Fields())
	}

	txns := seedTransactions()
	for i := len(txns) - 1; i >= 0; i-- {
		mem.Seed(store.EntityTransaction, txns[i].ID, txns[i].Date, txns[i].Fields())
	}

	clients := seedClients()
	for i := len(clients) - 1; i >= 0; i-- {
		mem.Seed(store.EntityClient, clients[i].ID, ts("2024-01-02T00:00:00Z"), clients[i].Fields())
	}

	invoices := seedInvoices()
	for i := len(invoices) - 1; i >= 0; i-- {
		mem.Seed(store.EntityInvoice, invoices[i].ID, invoices[i].IssueDate, invoices[i].Fields())
	}

	docs := seedDocuments()
	for i := len(docs) - 1; i >= 0; i-- {
		mem.Seed(store.EntityDocument, docs[i].ID, ts("2024-01-12T00:00:00Z"), docs[i].Fields())
	}

	convs := seedConversations()
	for i := len(convs) - 1; i >= 0; i-- {
		mem.Seed(store.EntityConversation, convs[i].ID, convs[i].LastMessageAt, convs[i].Fields())
	}

	msgs := seedMessages()
	for i := len(msgs) - 1; i >= 0; i-- {
		mem.Seed(store.EntityMessage, msgs[i].ID, msgs[i].SentAt, msgs[i].Fields())
	}
}
