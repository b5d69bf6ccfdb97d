package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

// Product template columns.
const (
	colName       = "Name"
	colSKU        = "Internal Reference"
	colBarcode    = "Barcode"
	colCost       = "Cost"
	colSalesPrice = "Sales Price"
	colCategory   = "Product Category"
)

type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ProductImporter upserts products from a product-template CSV keyed by sku.
type ProductImporter struct {
	repo output.ProductRepository
}

func NewProductImporter(repo output.ProductRepository) *ProductImporter {
	return &ProductImporter{repo: repo}
}

func (i *ProductImporter) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ImportResult{}, fmt.Errorf("%w: %s", domain.ErrImportFileNotFound, path)
		}
		return ImportResult{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}

// Import reads the CSV from r. Rows without sku or name are skipped; any
// other bad row aborts the import.
func (i *ProductImporter) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res, domain.ErrImportMissingColumns
		}
		return res, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for pos, name := range header {
		if pos == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = pos
	}
	if _, ok := index[colName]; !ok {
		return res, fmt.Errorf("%w: %q", domain.ErrImportMissingColumns, colName)
	}
	if _, ok := index[colSKU]; !ok {
		return res, fmt.Errorf("%w: %q", domain.ErrImportMissingColumns, colSKU)
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("%w: row %d: %v", domain.ErrImportInvalidRow, line, err)
		}

		field := func(col string) string {
			pos, ok := index[col]
			if !ok || pos >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[pos])
		}

		sku, name := field(colSKU), field(colName)
		if sku == "" || name == "" {
			log.WithField("row", line).Warn("skipping row without sku/name")
			res.Skipped++
			continue
		}

		cost, err := parseMoney(field(colCost))
		if err != nil {
			return res, fmt.Errorf("%w: row %d: invalid %s: %v", domain.ErrImportInvalidRow, line, colCost, err)
		}
		price, err := parseMoney(field(colSalesPrice))
		if err != nil {
			return res, fmt.Errorf("%w: row %d: invalid %s: %v", domain.ErrImportInvalidRow, line, colSalesPrice, err)
		}

		now := time.Now()
		product := &domain.Product{
			ID:         uuid.New(),
			CreatedAt:  now,
			UpdatedAt:  now,
			SKU:        sku,
			Name:       name,
			Barcode:    domain.NullableText(field(colBarcode)),
			Category:   domain.NullableText(field(colCategory)),
			Cost:       cost,
			SalesPrice: price,
			IsActive:   true,
		}
		if err := product.Validate(); err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}

		created, err := i.repo.UpsertBySKU(ctx, product)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	log.WithFields(log.Fields{
		"created": res.Created,
		"updated": res.Updated,
		"skipped": res.Skipped,
	}).Info("imported products")

	return res, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
