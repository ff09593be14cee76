package main

import (
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/mummysfood/backend/config"
	"github.com/mummysfood/backend/internal/database"
	"github.com/mummysfood/backend/internal/logging"
)

func main() {
	dir := flag.String("dir", "", "directory of .sql migrations; defaults to MIGRATIONS_DIR or the bundled set")
	flag.Parse()

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}

	var migrations fs.FS = database.Migrations()
	if *dir == "" {
		*dir = cfg.MigrationsDir
	}
	if *dir != "" {
		migrations = os.DirFS(*dir)
	}

	if err := database.RunMigrations(db, migrations, logger); err != nil {
		logger.Fatalw("migration failed", "error", err)
	}
	logger.Infow("all migrations applied", "dir", *dir)
}
