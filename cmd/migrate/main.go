// CLI tool to apply or roll back the embedded blob store migrations.
// Usage: go run ./cmd/migrate [up|down|status]
package main

import (
	"fmt"
	"os"

	"github.com/thetunix/Calzen/internal/config"
	"github.com/thetunix/Calzen/internal/logger"
	"github.com/thetunix/Calzen/internal/store"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Options{Development: true})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if cfg.DBDriver == "memory" {
		fmt.Fprintln(os.Stderr, "DB_DRIVER=memory has nothing to migrate")
		os.Exit(1)
	}

	db, err := store.Open(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch cmd {
	case "up":
		err = db.Migrate()
	case "down":
		err = db.MigrateDown()
	case "status":
		var v int64
		v, err = db.Version()
		if err == nil {
			fmt.Printf("schema version: %d\n", v)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want up, down or status)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration %s failed: %v\n", cmd, err)
		os.Exit(1)
	}
}
