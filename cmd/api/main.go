package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/api/handlers"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/api/middleware"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/engine"
	infraBQ "github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/infra/bigquery"
	infraGCS "github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/infra/gcs"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/logger"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
)

func main() {
	// Parse command-line flags
	var (
		port      = flag.String("port", "8080", "HTTP server port")
		dataDir   = flag.String("data", os.Getenv("DATA_DIR"), "Directory with the CSV datasets (or set DATA_DIR env)")
		gcsBucket = flag.String("gcs-bucket", os.Getenv("GCS_BUCKET"), "GCS bucket with the CSV datasets (or set GCS_BUCKET env)")
		gcsPrefix = flag.String("gcs-prefix", "", "Object prefix inside the GCS bucket")
		bqProject = flag.String("bq-project", os.Getenv("BQ_PROJECT"), "BigQuery project with the datasets (or set BQ_PROJECT env)")
		bqDataset = flag.String("bq-dataset", os.Getenv("BQ_DATASET"), "BigQuery dataset name (or set BQ_DATASET env)")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	ctx := context.Background()

	// Pick the table source: local CSV directory by default, GCS or
	// BigQuery when configured.
	var source tables.Source
	switch {
	case *bqProject != "" && *bqDataset != "":
		bqSource, err := infraBQ.NewSource(ctx, *bqProject, *bqDataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery source")
		}
		defer bqSource.Close()
		source = bqSource
		log.Info().Str("project", *bqProject).Str("dataset", *bqDataset).Msg("Using BigQuery table source")
	case *gcsBucket != "":
		source = infraGCS.NewSource(*gcsBucket, *gcsPrefix)
		log.Info().Str("bucket", *gcsBucket).Msg("Using GCS table source")
	default:
		if *dataDir == "" {
			*dataDir = "data"
		}
		source = tables.NewDirSource(*dataDir)
		log.Info().Str("dir", *dataDir).Msg("Using local CSV table source")
	}

	store := tables.NewStore(source)
	eng := engine.New(store, log)

	toolsHandler := handlers.NewToolsHandler(eng, log)

	// Create router
	mux := http.NewServeMux()

	// Tool endpoints
	mux.HandleFunc("/api/tools/resolve_customer", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			toolsHandler.ResolveCustomer(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/tools/get_customer_profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			toolsHandler.GetCustomerProfile(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/tools/list_transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			toolsHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/tools/summarize_customer_spend", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			toolsHandler.SummarizeCustomerSpend(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
