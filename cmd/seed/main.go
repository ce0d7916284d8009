package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/essence-za/essence-backend/config"
	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Expected columns, one row per variant; consecutive rows with the same
// product name become variants of one product:
//
//	name | description | image_url | size_ml | regular_price | bulk_price | bulk_min_quantity | stock_quantity
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

	fmt.Printf("Total products to import: %d (skipped rows: %d)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			fmt.Printf("Failed to import %q: %v\n", products[i].Name, err)
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
	index := make(map[string]int)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			// Header row
			continue
		}
		if len(row) < 5 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(cell(row, 1))
		imageURL := strings.TrimSpace(cell(row, 2))
		sizeML, errSize := strconv.Atoi(strings.TrimSpace(row[3]))
		regularPrice, errPrice := decimal.NewFromString(strings.TrimSpace(row[4]))

		if name == "" || errSize != nil || sizeML <= 0 || errPrice != nil || regularPrice.IsNegative() {
			skipped++
			continue
		}

		variant := model.ProductVariant{
			SizeML:       sizeML,
			RegularPrice: regularPrice,
		}

		if bulkStr := strings.TrimSpace(cell(row, 5)); bulkStr != "" {
			bulkPrice, err := decimal.NewFromString(bulkStr)
			if err != nil || bulkPrice.IsNegative() || bulkPrice.GreaterThan(regularPrice) {
				skipped++
				continue
			}
			minQty, err := strconv.Atoi(strings.TrimSpace(cell(row, 6)))
			if err != nil || minQty <= 0 {
				skipped++
				continue
			}
			variant.BulkPrice = &bulkPrice
			variant.BulkMinQuantity = minQty
		}

		if stockStr := strings.TrimSpace(cell(row, 7)); stockStr != "" {
			stock, err := strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				skipped++
				continue
			}
			variant.StockQuantity = stock
		}

		if idx, exists := index[name]; exists {
			products[idx].Variants = append(products[idx].Variants, variant)
			continue
		}

		index[name] = len(products)
		products = append(products, model.Product{
			Name:        name,
			Description: description,
			ImageURL:    imageURL,
			Variants:    []model.ProductVariant{variant},
		})
	}

	return products, skipped, nil
}

// cell returns row[i] or "" when the row is short. excelize trims trailing
// empty cells.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
