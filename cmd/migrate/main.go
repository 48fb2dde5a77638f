package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kdimtricp/galleryguru/internal/config"
	"github.com/kdimtricp/galleryguru/internal/database"
)

func main() {
	var (
		migrationsPath = flag.String("migrations", "", "Path to migrations directory (default MIGRATIONS_PATH)")
		status         = flag.Bool("status", false, "Show migration status only")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	if *migrationsPath == "" {
		*migrationsPath = cfg.MigrationsPath
	}

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if *status {
		migrations, err := database.NewMigrator(db.Conn(), db.Type()).Status(*migrationsPath)
		if err != nil {
			log.Fatal("Failed to read migration status:", err)
		}

		fmt.Println("Migration Status:")
		fmt.Println("=================")
		for _, m := range migrations {
			state := "pending"
			if m.Applied {
				state = "applied"
			}
			fmt.Printf("%s - %s [%s]\n", m.Version, m.Name, state)
		}
		return
	}

	fmt.Printf("Running migrations from %s...\n", *migrationsPath)
	if err := db.RunMigrations(*migrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	fmt.Println("Migrations completed successfully!")
}
