package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "keepara/docs"
	"keepara/model"
	"keepara/recon"
	"keepara/store"
)

// @title Keepara API
// @version 1.0
// @description Bookkeeping backend: clients, transactions, bank entries, invoices, documents, messaging, and bank reconciliation over a generic record store.
// @BasePath /

var (
	appConfig   Config
	recordStore store.Store
	matcher     *recon.Matcher
)

func main() {
	cfg, err := loadConfig("keepara.toml")
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	appConfig = cfg

	if cfg.Database.Enabled {
		pool, err := connectDatabase(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database after retries: ", err)
		}
		defer pool.Close()
		recordStore = store.NewPostgres(pool)
	} else {
		var opts []store.MemoryOption
		if cfg.MockLatency > 0 {
			opts = append(opts, store.WithLatency(time.Duration(cfg.MockLatency)*time.Millisecond))
		}
		mem := store.NewMemory(opts...)
		if cfg.SeedMockData {
			seedStore(mem)
			log.Println("Seeded in-memory store with development fixtures")
		}
		recordStore = mem
	}

	matcher, err = newMatcherFromStore()
	if err != nil {
		log.Fatal("Error building reconciliation pools: ", err)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Fatal("Error creating uploads directory: ", err)
	}

	r := setupRouter(cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	r.Run(":" + cfg.Port)
}

// connectDatabase opens the Postgres pool with retry logic and runs the
// schema migrations first over a database/sql connection, which is what the
// migrate driver wants.
func connectDatabase(dbCfg DatabaseConfig) (*pgxpool.Pool, error) {
	connStr := dbCfg.connString()

	maxRetries := 30
	retryInterval := time.Second * 2

	var db *sql.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", connStr)
		if err != nil {
			log.Printf("Attempt %d: Error opening database: %v", i+1, err)
			time.Sleep(retryInterval)
			continue
		}

		if err = db.Ping(); err != nil {
			log.Printf("Attempt %d: Error connecting to database: %v", i+1, err)
			db.Close()
			time.Sleep(retryInterval)
			continue
		}

		log.Println("Successfully connected to database")
		break
	}
	if err != nil {
		return nil, err
	}

	migrationsPath := filepath.Join(".", "db", "migrations")
	if _, statErr := os.Stat(migrationsPath); os.IsNotExist(statErr) {
		log.Printf("Migrations directory not found at %s, skipping migrations", migrationsPath)
	} else {
		log.Println("Running database migrations...")
		if err := runMigrations(db, migrationsPath); err != nil {
			db.Close()
			return nil, err
		}

		if version, dirty, err := getMigrationVersion(db, migrationsPath); err == nil {
			if dirty {
				log.Printf("Current migration version: %d (DIRTY - migration failed)", version)
			} else {
				log.Printf("Current migration version: %d", version)
			}
		}
		log.Println("Database migrations completed successfully")
	}
	db.Close()

	return pgxpool.New(context.Background(), connStr)
}

// loadReconPools reads the reconciliation pools from the record store:
// every unreconciled transaction and every bank entry that is not already
// matched.
func loadReconPools() ([]model.BankEntry, []model.Transaction, error) {
	ctx := context.Background()

	bankRecords, err := recordStore.GetAll(ctx, store.EntityBankEntry)
	if err != nil {
		return nil, nil, err
	}
	var bank []model.BankEntry
	for _, r := range bankRecords {
		entry := model.BankEntryFromRecord(r)
		if entry.Status == "matched" {
			continue
		}
		bank = append(bank, entry)
	}

	txnRecords, err := recordStore.GetAll(ctx, store.EntityTransaction)
	if err != nil {
		return nil, nil, err
	}
	var txns []model.Transaction
	for _, r := range txnRecords {
		txn := model.TransactionFromRecord(r)
		if txn.Reconciled {
			continue
		}
		txns = append(txns, txn)
	}

	return bank, txns, nil
}

// newMatcherFromStore builds a matcher over the store's current pools.
// Committing a match writes the transaction's reconciled flag back through
// the store.
func newMatcherFromStore() (*recon.Matcher, error) {
	bank, txns, err := loadReconPools()
	if err != nil {
		return nil, err
	}
	return recon.NewMatcher(bank, txns, recon.WithReconcileFunc(writeReconciled)), nil
}

func writeReconciled(transactionID int, reconciled bool) error {
	_, err := recordStore.Update(context.Background(), store.EntityTransaction, transactionID,
		map[string]any{"reconciled": reconciled})
	return err
}

func setupRouter(cfg Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", cfg.UploadsDir)

	// Clients
	r.GET("/api/clients", getClients)
	r.GET("/api/clients/:id", getClient)
	r.POST("/api/clients", createClient)
	r.PUT("/api/clients/:id", updateClient)
	r.DELETE("/api/clients/:id", deleteClient)

	// Transactions
	r.GET("/api/transactions", getTransactions)
	r.GET("/api/transactions/:id", getTransaction)
	r.POST("/api/transactions", createTransaction)
	r.PUT("/api/transactions/:id", updateTransaction)
	r.DELETE("/api/transactions/:id", deleteTransaction)
	r.PUT("/api/transactions/:id/reconcile", reconcileTransaction)
	r.POST("/api/transactions/:id/duplicate", duplicateTransaction)
	r.POST("/api/transactions/bulk-reconcile", bulkReconcileTransactions)

	// Bank entries
	r.GET("/api/bank-entries", getBankEntries)
	r.GET("/api/bank-entries/:id", getBankEntry)
	r.POST("/api/bank-entries", createBankEntry)
	r.PUT("/api/bank-entries/:id", updateBankEntry)
	r.DELETE("/api/bank-entries/:id", deleteBankEntry)
	r.POST("/api/bank-entries/import", importBankEntries)

	// Invoices
	r.GET("/api/invoices", getInvoices)
	r.GET("/api/invoices/:id", getInvoice)
	r.POST("/api/invoices", createInvoice)
	r.PUT("/api/invoices/:id", updateInvoice)
	r.DELETE("/api/invoices/:id", deleteInvoice)
	r.POST("/api/invoices/:id/send", sendInvoice)
	r.POST("/api/invoices/:id/duplicate", duplicateInvoice)

	// Documents
	r.GET("/api/documents", getDocuments)
	r.GET("/api/documents/:id", getDocument)
	r.POST("/api/documents/upload", uploadDocument)
	r.PUT("/api/documents/:id", updateDocument)
	r.DELETE("/api/documents/:id", deleteDocument)

	// Messaging
	r.GET("/api/conversations", getConversations)
	r.POST("/api/conversations", createConversation)
	r.GET("/api/conversations/:id/messages", getMessages)
	r.POST("/api/conversations/:id/messages", postMessage)
	r.POST("/api/conversations/:id/read", markConversationRead)

	// Reconciliation
	r.GET("/api/reconciliation", getReconciliation)
	r.POST("/api/reconciliation/select-bank/:id", selectBankEntry)
	r.POST("/api/reconciliation/select-transaction/:id", selectReconTransaction)
	r.DELETE("/api/reconciliation/selection", clearReconSelection)
	r.POST("/api/reconciliation/match", commitMatch)
	r.DELETE("/api/reconciliation/matches/:id", unmatch)
	r.POST("/api/reconciliation/refresh", refreshReconciliation)

	// Dashboard and reports
	r.GET("/api/dashboard", getDashboard)
	r.GET("/api/reports/categories", getCategoryReport)

	// Generic record API
	r.GET("/api/records/:entity", listRecords)
	r.GET("/api/records/:entity/:id", getRecord)
	r.POST("/api/records/:entity", createRecords)
	r.PUT("/api/records/:entity", updateRecords)
	r.DELETE("/api/records/:entity", deleteRecords)

	return r
}
