package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/engine"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/logger"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "resolve":
		runResolve(log)
	case "profile":
		runProfile(log)
	case "transactions":
		runTransactions(log)
	case "spend":
		runSpend(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Customer Analytics CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  resolve       Resolve a free-text query to customer matches")
	fmt.Println("  profile       Show a customer's profile and transaction summary")
	fmt.Println("  transactions  List a customer's transactions")
	fmt.Println("  spend         Summarize a customer's spend")
	fmt.Println("  help          Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func newEngine(dataDir string, log zerolog.Logger) *engine.Engine {
	if dataDir == "" {
		dataDir = "data"
	}
	store := tables.NewStore(tables.NewDirSource(dataDir))
	return engine.New(store, log)
}

func printJSON(log zerolog.Logger, v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(out))
}

func runResolve(log zerolog.Logger) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	dataDir := fs.String("data", os.Getenv("DATA_DIR"), "Directory with the CSV datasets")
	query := fs.String("query", "", "Customer reference: partner ID, name or phone fragment")
	fs.Parse(os.Args[2:])

	if *query == "" {
		log.Fatal().Msg("Error: --query is required")
	}

	eng := newEngine(*dataDir, log)

	result, err := eng.ResolveCustomer(context.Background(), *query)
	if err != nil {
		log.Fatal().Err(err).Msg("Resolve failed")
	}
	printJSON(log, result)
}

func runProfile(log zerolog.Logger) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	dataDir := fs.String("data", os.Getenv("DATA_DIR"), "Directory with the CSV datasets")
	customerID := fs.String("customer", "", "Customer (partner) ID")
	fs.Parse(os.Args[2:])

	if *customerID == "" {
		log.Fatal().Msg("Error: --customer is required")
	}

	eng := newEngine(*dataDir, log)

	result, err := eng.GetCustomerProfile(context.Background(), *customerID)
	if err != nil {
		log.Fatal().Err(err).Msg("Profile lookup failed")
	}
	printJSON(log, result)
}

func runTransactions(log zerolog.Logger) {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	dataDir := fs.String("data", os.Getenv("DATA_DIR"), "Directory with the CSV datasets")
	customerID := fs.String("customer", "", "Customer (partner) ID")
	start := fs.String("start", "", "Inclusive lower bound, YYYY-MM-DD HH:MM")
	end := fs.String("end", "", "Inclusive upper bound, YYYY-MM-DD HH:MM")
	limit := fs.String("limit", "", "Maximum number of rows (default 50)")
	fs.Parse(os.Args[2:])

	if *customerID == "" {
		log.Fatal().Msg("Error: --customer is required")
	}

	eng := newEngine(*dataDir, log)

	result, err := eng.ListTransactions(context.Background(), *customerID, *start, *end, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Transaction listing failed")
	}
	printJSON(log, result)
}

func runSpend(log zerolog.Logger) {
	fs := flag.NewFlagSet("spend", flag.ExitOnError)
	dataDir := fs.String("data", os.Getenv("DATA_DIR"), "Directory with the CSV datasets")
	customerID := fs.String("customer", "", "Customer (partner) ID")
	start := fs.String("start", "", "Inclusive start date, YYYY-MM-DD")
	end := fs.String("end", "", "Inclusive end date, YYYY-MM-DD")
	groupBy := fs.String("group-by", "month", "Grouping: day, month, transfer_type or none")
	fs.Parse(os.Args[2:])

	if *customerID == "" {
		log.Fatal().Msg("Error: --customer is required")
	}

	eng := newEngine(*dataDir, log)

	result, err := eng.SummarizeCustomerSpend(context.Background(), *customerID, *start, *end, *groupBy)
	if err != nil {
		log.Fatal().Err(err).Msg("Spend summary failed")
	}
	printJSON(log, result)
}
