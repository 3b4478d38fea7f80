// Package export implementa reports.Exporter en XLSX (excelize) y PDF (maroto).
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/reports"
)

var _ reports.Exporter = (*XLSXExporter)(nil)

var xlsxHeader = []interface{}{
	"Bodega", "SKU", "Ítem", "Cantidad", "Nivel de reorden", "Precio unitario", "Valor", "Bajo reorden",
}

// XLSXExporter escribe el reporte de stock en una única hoja.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Extension() string { return "xlsx" }

func (XLSXExporter) Export(w io.Writer, report *dto.StockReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := xlsxHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: encabezado: %w", err)
	}

	row := 2
	for _, l := range report.Lines {
		low := "no"
		if l.Low {
			low = "sí"
		}
		cells := []interface{}{
			l.WarehouseName,
			l.SKU,
			l.ItemName,
			l.Quantity,
			l.ReorderLevel,
			l.UnitPrice.InexactFloat64(),
			l.Value.InexactFloat64(),
			low,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", row, err)
		}
		row++
	}

	totals := []interface{}{"TOTAL", "", "", report.TotalUnits, "", "", report.TotalValue.InexactFloat64(), ""}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return fmt.Errorf("xlsx: totales: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}
