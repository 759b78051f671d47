package main

import (
	"context"
	"flag"
	"log"
	"os"

	"doctree/internal/config"
	"doctree/internal/repository/postgres"
	postgresDoctree "doctree/internal/repository/postgres/doctree"
	"doctree/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed nodes")
	clearData := flag.Bool("clear-data", false, "Delete the project's nodes (keep schema)")
	fixturePath := flag.String("fixture", "", "YAML fixture to load (defaults to the built-in sample)")
	projectID := flag.String("project", "", "Project to seed (defaults to the fixture's project)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// Never run destructive operations against production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: --drop-tables and --clear-data are disabled in production")
	}

	logger := config.NewLogger(cfg, os.Stdout)

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	target := *projectID
	if target == "" {
		target = fixture.Project
	}

	logger.Info("seed starting",
		"environment", cfg.Environment,
		"table_prefix", cfg.TablePrefix,
		"project_id", target,
	)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		logger.Info("tables dropped")
	}

	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	logger.Info("schema ready", "table", tables.Nodes)

	if *schemaOnly {
		return
	}

	removed, err := postgres.ClearProject(ctx, pool, tables, target)
	if err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	logger.Info("project cleared", "project_id", target, "removed", removed)

	if *clearData {
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	nodeRepo := postgresDoctree.NewNodeRepository(repoConfig, postgres.NewTransactionManager(pool, logger))

	created, err := seed.NewSeeder(nodeRepo, logger).Seed(ctx, target, fixture)
	if err != nil {
		log.Fatalf("Seeding failed after %d nodes: %v", created, err)
	}
	logger.Info("seeding complete", "project_id", target, "nodes", created)
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Sample()
	}
	return seed.LoadFixtureFile(path)
}
