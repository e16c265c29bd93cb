package service

import (
	"bytes"
	"fmt"
	"io"

	"go-pos-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	salesSheet     = "Sales"
	inventorySheet = "Inventory"
)

// ReportService renders the sales and inventory collections as a workbook.
type ReportService interface {
	WriteWorkbook(w io.Writer) error
	Workbook() (*bytes.Buffer, error)
}

type reportService struct {
	saleRepo      repository.SaleRepository
	inventoryRepo repository.InventoryRepository
}

func NewReportService(saleRepo repository.SaleRepository, inventoryRepo repository.InventoryRepository) ReportService {
	return &reportService{saleRepo: saleRepo, inventoryRepo: inventoryRepo}
}

func (s *reportService) Workbook() (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := s.WriteWorkbook(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (s *reportService) WriteWorkbook(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	// Sales
	salesHeaders := []string{
		"ID", "Date", "Client", "Status", "Products", "Units",
		"Total (USD)", "Total (Local)", "Debt (USD)", "Rate", "Payments", "Change (USD)", "Change Method", "Created By",
	}
	var salesRows [][]interface{}
	for _, sale := range s.saleRepo.FindAll() {
		change, method := 0.0, ""
		if sale.Change != nil {
			change, method = sale.Change.Amount.InexactFloat64(), string(sale.Change.Method)
		}
		salesRows = append(salesRows, []interface{}{
			sale.ID,
			sale.Date.Format("2006-01-02 15:04:05"),
			sale.ClientName,
			string(sale.Status),
			len(sale.Products),
			sale.UnitsSold().InexactFloat64(),
			sale.Total.InexactFloat64(),
			sale.TotalLocal.InexactFloat64(),
			sale.Debt.InexactFloat64(),
			sale.CurrencyRate.InexactFloat64(),
			len(sale.Payments),
			change,
			method,
			sale.CreatedBy,
		})
	}
	if err := writeSheet(f, salesSheet, salesHeaders, salesRows); err != nil {
		return err
	}

	// Inventory
	inventoryHeaders := []string{
		"ID", "SKU", "Name", "Category", "Location", "Status", "Quantity", "Unit Value (USD)", "Valuation (USD)", "Supplier ID",
	}
	var inventoryRows [][]interface{}
	for _, item := range s.inventoryRepo.FindAll() {
		valuation := item.UnitValue.Mul(decimal.NewFromInt(int64(item.Quantity)))
		inventoryRows = append(inventoryRows, []interface{}{
			item.ID,
			item.SKU,
			item.Name,
			item.Category,
			item.Location,
			string(item.Status),
			item.Quantity,
			item.UnitValue.InexactFloat64(),
			valuation.InexactFloat64(),
			item.SupplierID,
		})
	}
	if err := writeSheet(f, inventorySheet, inventoryHeaders, inventoryRows); err != nil {
		return err
	}

	// Delete the default sheet
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("error removing default sheet: %v", err)
	}
	if index, err := f.GetSheetIndex(salesSheet); err == nil {
		f.SetActiveSheet(index)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("error creating sheet %s: %w", sheet, err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	for r, values := range rows {
		for c, value := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("error writing %s!%s: %w", sheet, cell, err)
			}
		}
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheet, "A", last, 16)
	return nil
}
