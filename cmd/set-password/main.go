// CLI tool to set the owner password and issue a new API token. Any previous
// token stops working.
// Usage: go run ./cmd/set-password
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/thetunix/Calzen/internal/auth"
	"github.com/thetunix/Calzen/internal/config"
	"github.com/thetunix/Calzen/internal/store"
)

func main() {
	cfg := config.Load()
	if cfg.DBDriver == "memory" {
		fmt.Fprintln(os.Stderr, "DB_DRIVER=memory cannot hold a password across restarts")
		os.Exit(1)
	}

	db, err := store.Open(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Password: ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	creds, err := auth.New(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating credentials: %v\n", err)
		os.Exit(1)
	}
	if err := auth.Save(context.Background(), db, creds); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving credentials: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nPassword set successfully!\n")
	fmt.Printf("  Auth Token: %s\n", creds.Token)
}
