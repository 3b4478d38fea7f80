package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/reports"
)

// ReportHandler tablero, resumen de inventario y exportaciones del reporte de stock.
type ReportHandler struct {
	uc   *reports.UseCase
	xlsx reports.Exporter
	pdf  reports.Exporter
}

// NewReportHandler construye el handler con los exportadores XLSX y PDF.
func NewReportHandler(uc *reports.UseCase, xlsx, pdf reports.Exporter) *ReportHandler {
	return &ReportHandler{uc: uc, xlsx: xlsx, pdf: pdf}
}

// Dashboard godoc
// @Summary      Tablero principal
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/v1/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "", out)
}

// InventorySummary godoc
// @Summary      Resumen de inventario
// @Description  Ítems activos en stock, bajo reorden y agotados; valor total = cantidad x precio.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryDTO
// @Router       /api/v1/reports/inventory-summary [get]
func (h *ReportHandler) InventorySummary(c *fiber.Ctx) error {
	out, err := h.uc.InventorySummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "", out)
}

// StockXLSX godoc
// @Summary      Reporte de stock en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        warehouse_id  query  string  false  "Solo una bodega"
// @Success      200  {file}  file
// @Router       /api/v1/reports/stock.xlsx [get]
func (h *ReportHandler) StockXLSX(c *fiber.Ctx) error {
	return h.export(c, h.xlsx)
}

// StockPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        warehouse_id  query  string  false  "Solo una bodega"
// @Success      200  {file}  file
// @Router       /api/v1/reports/stock.pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	return h.export(c, h.pdf)
}

// export genera en memoria para poder responder con error JSON si algo falla antes de escribir.
func (h *ReportHandler) export(c *fiber.Ctx, exp reports.Exporter) error {
	var buf bytes.Buffer
	if err := h.uc.Export(c.Context(), c.Query("warehouse_id"), exp, &buf); err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("stock-%s.%s", time.Now().Format("20060102"), exp.Extension())
	c.Set(fiber.HeaderContentType, exp.ContentType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
