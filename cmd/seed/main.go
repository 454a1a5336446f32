package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/haruyama/pos-backend/config"
	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the product catalog from an XLSX workbook. Expected columns:
// name, price, stock, image, then repeating option name/price pairs.
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

	fmt.Printf("Total products to import: %d (skipped %d rows)\n", len(products), skipped)

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

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		// First row is the header
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 3 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			skipped++
			continue
		}

		price, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if err != nil || price < 0 {
			skipped++
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil || stock < 0 {
			skipped++
			continue
		}

		product := model.Product{
			Name:  name,
			Price: price,
			Stock: stock,
		}
		if len(row) > 3 {
			product.Image = strings.TrimSpace(row[3])
		}

		// Option columns come in name/price pairs after the image
		for col := 4; col+1 < len(row); col += 2 {
			optName := strings.TrimSpace(row[col])
			if optName == "" {
				continue
			}
			optPrice, err := strconv.ParseInt(strings.TrimSpace(row[col+1]), 10, 64)
			if err != nil || optPrice < 0 {
				continue
			}
			product.Options = append(product.Options, model.ProductOption{
				Name:  optName,
				Price: optPrice,
			})
		}

		seen[name] = true
		products = append(products, product)
	}

	return products, skipped, nil
}
