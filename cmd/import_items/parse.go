package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
)

// columnas esperadas en la cabecera, en cualquier orden
var columns = []string{"name", "sku", "description", "unit_price", "reorder_level"}

// row fila leída con su número de línea para el reporte.
type row struct {
	Line int
	Item dto.CreateItemRequest
}

// rowError fila descartada antes de llegar al caso de uso.
type rowError struct {
	Line int
	Err  error
}

func (e rowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

// decoder envuelve r según el charset pedido (utf8 | latin1).
func decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
}

// parseItems lee el CSV completo. Las filas malformadas se devuelven aparte y no detienen la lectura.
func parseItems(r io.Reader) ([]row, []rowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range []string{"name", "sku"} {
		if _, ok := idx[c]; !ok {
			return nil, nil, fmt.Errorf("cabecera sin columna %q (se esperan %s)", c, strings.Join(columns, ","))
		}
	}

	var rows []row
	var bad []rowError
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			bad = append(bad, rowError{Line: line, Err: err})
			continue
		}
		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		item := dto.CreateItemRequest{
			Name:        field("name"),
			SKU:         field("sku"),
			Description: field("description"),
		}
		if item.Name == "" && item.SKU == "" {
			continue // fila vacía
		}
		if v := field("unit_price"); v != "" {
			price, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
			if err != nil || price.IsNegative() {
				bad = append(bad, rowError{Line: line, Err: fmt.Errorf("unit_price inválido: %q", v)})
				continue
			}
			item.UnitPrice = price
		}
		if v := field("reorder_level"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				bad = append(bad, rowError{Line: line, Err: fmt.Errorf("reorder_level inválido: %q", v)})
				continue
			}
			item.ReorderLevel = n
		}
		rows = append(rows, row{Line: line, Item: item})
	}
	return rows, bad, nil
}
