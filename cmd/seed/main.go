package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/config"
	"github.com/ReviveFitness/RF-Backend/internal/db"
	"github.com/ReviveFitness/RF-Backend/internal/seeds"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	fixturePath = flag.String("fixture", "seeds/fitness.yaml", "Path to the YAML fixture")
	dsn         = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Apply inside the transaction, print counts, then roll back")
	migrate     = flag.Bool("migrate", true, "Create the schema and tables before seeding")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key. 0 = disabled")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	cfg := config.LoadFromEnv()
	if *dsn == "" {
		*dsn = cfg.DatabaseURL
	}

	fixture, err := seeds.LoadFixture(*fixturePath)
	if err != nil {
		fatalf("fixture error: %v", err)
	}
	fmt.Printf("Loaded %s: programs=%d trainers=%d challenges=%d admins=%d\n", *fixturePath,
		len(fixture.Programs), len(fixture.Trainers), len(fixture.Challenges), len(fixture.Admins))

	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	if *migrate && !*dryRun {
		cfg.DatabaseURL = *dsn
		cfg.Driver = config.DriverPostgres
		gdb, err := db.Connect(cfg)
		if err != nil {
			fatalf("connect for migration: %v", err)
		}
		if err := db.Migrate(gdb); err != nil {
			fatalf("migrate: %v", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	seeder := seeds.NewSeeder(cfg.Schema, auth.HashPassword)
	rep, err := seeder.Run(ctx, conn, fixture, seeds.RunOptions{AdvisoryKey: *advisoryKey, DryRun: *dryRun})
	if err != nil {
		fatalf("%v", err)
	}
	printCounts("Before", rep.Before)
	printCounts("After ", rep.After)

	if !rep.Committed {
		fmt.Println("Dry run complete. Transaction rolled back.")
		return
	}
	fmt.Println("✅ Seeding complete.")
}

func printCounts(label string, c seeds.Counts) {
	fmt.Printf("%s: programs=%d trainers=%d achievements=%d challenges=%d admins=%d\n",
		label, c.Programs, c.Trainers, c.Achievements, c.Challenges, c.Admins)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
