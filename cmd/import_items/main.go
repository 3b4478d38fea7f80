// import_items carga el catálogo de ítems desde un CSV con cabecera
// name,sku,description,unit_price,reorder_level.
//
// Uso: go run ./cmd/import_items [-charset latin1] [-dry-run] items.csv
// Los SKU ya existentes se omiten; al final se imprime un resumen.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-api/pkg/config"
)

func main() {
	charset := flag.String("charset", "utf8", "Codificación del archivo: utf8 | latin1")
	dryRun := flag.Bool("dry-run", false, "Solo valida el archivo, no escribe")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: import_items [-charset latin1] [-dry-run] items.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decoder(f, *charset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rows, bad, err := parseItems(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, e := range bad {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if *dryRun {
		fmt.Printf("%d filas válidas, %d descartadas\n", len(rows), len(bad))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	uc := usecase.NewItemUseCase(
		postgres.NewItemRepository(pool),
		postgres.NewCategoryRepository(pool),
		postgres.NewSupplierRepository(pool),
	)

	var created, skipped, failed int
	for _, rw := range rows {
		_, err := uc.Create(ctx, "", rw.Item)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			failed++
			fmt.Fprintf(os.Stderr, "línea %d (%s): %v\n", rw.Line, rw.Item.SKU, err)
		}
	}

	fmt.Printf("Importados: %d, omitidos (SKU existente): %d, con error: %d, descartados: %d\n",
		created, skipped, failed, len(bad))
	if failed > 0 || len(bad) > 0 {
		os.Exit(1)
	}
}
