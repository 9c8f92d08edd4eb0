package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/degree-advisor/internal/catalog"
	"github.com/jonathan/degree-advisor/internal/db"
	"github.com/spf13/cobra"
)

var importCatalogCmd = &cobra.Command{
	Use:   "import-catalog",
	Short: "Load a catalog file into the database",
	Long:  "Normalizes a catalog JSON or YAML file and upserts its courses, buckets, mappings and equivalencies into PostgreSQL, creating the tables when missing.",
	RunE:  runImportCatalog,
}

var (
	importCatalogPath   string
	importDatabaseURL   string
	importStrictTargets bool
)

func init() {
	importCatalogCmd.Flags().StringVarP(&importCatalogPath, "catalog", "c", "", "Path to catalog JSON or YAML file (required)")
	importCatalogCmd.Flags().StringVar(&importDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	importCatalogCmd.Flags().BoolVar(&importStrictTargets, "strict", false, "Reject buckets that set both needed_count and needed_credits")

	if err := importCatalogCmd.MarkFlagRequired("catalog"); err != nil {
		panic(fmt.Sprintf("failed to mark catalog flag as required: %v", err))
	}

	rootCmd.AddCommand(importCatalogCmd)
}

func runImportCatalog(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := resolveDatabaseURL(importDatabaseURL)
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL required (set the environment variable or use --db-url)")
	}

	c, err := catalog.LoadCatalog(importCatalogPath, logger, catalog.Options{StrictBucketTargets: importStrictTargets})
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	if err := database.SaveCatalog(ctx, c); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Imported %d courses, %d buckets, %d mappings, %d equivalencies across %d tracks\n",
		len(c.Courses), len(c.Buckets), len(c.Mappings), len(c.Equivalencies), len(c.Tracks()))
	return nil
}
