// Command loadingredients imports the ingredient catalog from a CSV file of
// "name,measurement_unit" rows. Rows that already exist in the catalog are
// skipped; malformed rows are reported at the end without aborting the batch.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	path := flag.String("path", "data/ingredients.csv", "path to the CSV file")
	flag.Parse()

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *path, err)
	}
	defer file.Close()

	rows, err := readRows(file)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *path, err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	catalog := service.NewIngredientService(db)
	result, err := catalog.BulkLoad(context.Background(), rows)
	if err != nil {
		log.Fatalf("bulk load failed: %v", err)
	}

	fmt.Printf("Finished loading ingredients from %s\n", *path)
	fmt.Printf("  Added:   %d\n", result.Inserted)
	fmt.Printf("  Skipped: %d\n", result.Skipped)
	for _, rowErr := range result.Errors {
		fmt.Printf("  Row %d rejected: %s\n", rowErr.Index+1, rowErr.Reason)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func readRows(r io.Reader) ([]service.IngredientRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows []service.IngredientRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := service.IngredientRow{}
		if len(record) > 0 {
			row.Name = record[0]
		}
		if len(record) > 1 {
			row.MeasurementUnit = record[1]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
