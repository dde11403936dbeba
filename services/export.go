package services

import (
	"context"
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

// ExportContentType is the MIME type of the product workbook
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"ID", "Name", "Description", "Price", "Category", "ImageURL",
	"Stock", "Featured", "Active", "CreatedAt", "UpdatedAt",
}

// Export writes every product, active or not, as an XLSX workbook
func (s *CatalogService) Export(ctx context.Context, w io.Writer) error {
	products, err := s.All(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetFloat(p.Price.Round(2).InexactFloat64())
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetInt(p.StockQuantity)
		row.AddCell().SetBool(p.IsFeatured)
		row.AddCell().SetBool(p.IsActive)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
