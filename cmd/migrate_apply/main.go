package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/clawbot69/clawnopoly/internal/db"
	"github.com/clawbot69/clawnopoly/internal/logger"
	"github.com/clawbot69/clawnopoly/internal/migrations"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	if !*apply {
		migs, err := migrations.Postgres()
		if db.IsSQLite(dsn) {
			migs, err = migrations.SQLite()
		}
		if err != nil {
			logger.Fatal("load migrations", "error", err)
		}
		for _, m := range migs {
			fmt.Println(m.Name)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// the sqlite store applies its schema when opened
	if db.IsSQLite(dsn) {
		store, err := db.OpenStore(ctx, dsn)
		if err != nil {
			logger.Fatal("failed to apply migrations", "error", err)
		}
		store.Close()
		fmt.Println("applied sqlite schema")
		return
	}

	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to connect", "error", err)
	}
	defer pool.Close()

	applied, err := db.Migrate(ctx, pool)
	for _, name := range applied {
		fmt.Printf("applied %s\n", name)
	}
	if err != nil {
		logger.Fatal("failed to apply migrations", "error", err)
	}
}
