// Command migrate applies the embedded schema migrations to a SQLite
// database, for deployments that prepare the database outside the API
// process.
package main

import (
	"flag"
	"os"

	"expensecoach/internal/logger"
	"expensecoach/internal/store/sqlite"
)

func main() {
	dbPath := flag.String("db", os.Getenv("SQLITE_DB_PATH"), "Path to the SQLite database file (or set SQLITE_DB_PATH)")
	flag.Parse()

	log := logger.New()

	if *dbPath == "" {
		log.Fatal().Msg("A database path is required: pass -db or set SQLITE_DB_PATH")
	}

	if err := sqlite.RunMigrations(*dbPath); err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("Migration failed")
	}
	log.Info().Str("db", *dbPath).Msg("Migrations applied")
}
