package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dsaidov/mebelplaza-backend/config"
	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/internal/db"
	"github.com/dsaidov/mebelplaza-backend/pkg/itemkey"
	"github.com/xuri/excelize/v2"
)

// Imports a catalog snapshot from an xlsx export. Used to bootstrap local
// environments without a reachable CMS.
//
// Expected columns:
// slug | title | badge | room | collection | module | price_uzs | price_rub |
// old_price_uzs | old_price_rub | door_count | facade | image_url | position
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped: %d)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.UpsertBySlug(&products[i]); err != nil {
			fmt.Printf("Failed to import %s: %v\n", products[i].Slug, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}

func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenSlugs := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 8 {
			skipped++
			continue
		}

		slug := strings.TrimSpace(cell(row, 0))
		title := strings.TrimSpace(cell(row, 1))
		if slug == "" || title == "" || !itemkey.ValidProductID(slug) || seenSlugs[slug] {
			skipped++
			continue
		}
		seenSlugs[slug] = true

		products = append(products, model.Product{
			Slug:        slug,
			Title:       title,
			Badge:       strings.TrimSpace(cell(row, 2)),
			Room:        model.NormalizeRoom(cell(row, 3)),
			Collection:  model.NormalizeCollection(cell(row, 4)),
			Module:      model.NormalizeModule(cell(row, 5)),
			PriceUZS:    parseFloat(cell(row, 6)),
			PriceRUB:    parseFloat(cell(row, 7)),
			OldPriceUZS: parseFloat(cell(row, 8)),
			OldPriceRUB: parseFloat(cell(row, 9)),
			DoorCount:   strings.TrimSpace(cell(row, 10)),
			Facade:      strings.ToLower(strings.TrimSpace(cell(row, 11))),
			ImageURL:    strings.TrimSpace(cell(row, 12)),
			Position:    int(parseFloat(cell(row, 13))),
		})
	}

	return products, skipped, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseFloat(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}
