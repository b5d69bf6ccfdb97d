package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inventory-service/internal/adapters/secondary/postgres"
	"inventory-service/internal/core/services"
)

var importCmd = &cobra.Command{
	Use:   "import-products <csv>",
	Short: "Create or update products from a product-template CSV",
	Long: `Import products from a CSV export with the columns
Name, Internal Reference, Barcode, Cost, Sales Price and Product Category.
Products are matched by sku (Internal Reference); rows without a sku or
name are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pool, err := openPool(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		importer := services.NewProductImporter(postgres.NewProductRepository(pool))
		res, err := importer.ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Import complete. created=%d updated=%d skipped=%d\n", res.Created, res.Updated, res.Skipped)
		return nil
	},
}
