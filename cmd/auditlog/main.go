// auditlog prints a user's recent security audit events, newest first.
// Usage: go run ./cmd/auditlog -user <id> [-limit 20] [-offset 0]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	auditrepo "trainerhub/backend/internal/audit/repository"
	"trainerhub/backend/internal/config"
	"trainerhub/backend/internal/db"
)

func main() {
	userID := flag.String("user", "", "user id to list events for (required)")
	limit := flag.Int("limit", 20, "maximum number of events to print")
	offset := flag.Int("offset", 0, "number of events to skip")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("auditlog: DATABASE_URL is required")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("auditlog: database connect: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := auditrepo.NewPostgresRepository(database).ListByUser(ctx, *userID, int32(*limit), int32(*offset))
	if err != nil {
		log.Fatalf("auditlog: list events: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("no audit events")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tRESOURCE\tIP\tMETADATA")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format(time.RFC3339), e.Action, e.Resource, e.IP, e.Metadata)
	}
	w.Flush()
}
