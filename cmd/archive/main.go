// Command archive inspects the workflow audit archive: it lists archived
// workflows or dumps one full record by id.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/troymork/Unburden-America-sub000/internal/config"
	"github.com/troymork/Unburden-America-sub000/internal/logging"
	"github.com/troymork/Unburden-America-sub000/internal/repository"
)

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	configFile := flag.String("config", "", "Path to config file")
	workflowID := flag.String("workflow", "", "Dump one archived workflow by id")
	flag.Parse()

	// Load config
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to DB
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Archive.Host, cfg.Archive.Port, cfg.Archive.User, cfg.Archive.Password, cfg.Archive.Name, cfg.Archive.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresArchiveStore(pool)

	if *workflowID != "" {
		workflow, err := store.Get(ctx, *workflowID)
		if err != nil {
			log.Fatalf("Failed to load workflow %s: %v", *workflowID, err)
		}
		out, err := json.MarshalIndent(workflow, "", "  ")
		if err != nil {
			log.Fatalf("Failed to render workflow: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	records, err := store.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list archive: %v", err)
	}
	logger.Info("Found %d archived workflows", len(records))
	for _, record := range records {
		fmt.Printf("%s  %-12s %-8s %s\n", record.WorkflowID, record.Status, record.Priority, record.Name)
	}
}
