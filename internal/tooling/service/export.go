package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var cuttingExportHeaders = []string{
	"序号", "零件名称", "图号", "材料来源", "材质", "规格", "数量", "单重(kg)", "备注",
}

// ExportCuttingOrders 导出工装下料单为Excel
func (s *OrderService) ExportCuttingOrders(ctx context.Context, toolingID string) (*excelize.File, string, error) {
	tooling, err := s.toolingRepo.FindByID(ctx, toolingID)
	if err != nil {
		return nil, "", err
	}

	orders, err := s.cuttingRepo.ListByTooling(ctx, toolingID)
	if err != nil {
		return nil, "", fmt.Errorf("查询下料单失败: %w", err)
	}

	f := excelize.NewFile()
	sheet := "下料单"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range cuttingExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	var totalWeight float64
	for rowIdx, order := range orders {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rowIdx+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), order.PartName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), order.PartDrawingNumber)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), order.MaterialSource)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), order.Material)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), order.Specification)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), order.Quantity)
		if order.Weight != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), *order.Weight)
			totalWeight += *order.Weight * order.Quantity
		}
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), order.Remark)
	}

	// 底部汇总行
	summaryRow := len(orders) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "汇总")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("总行数: %d", len(orders)))
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), totalWeight)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("I%d", summaryRow), summaryStyle)

	colWidths := []float64{6, 20, 16, 10, 12, 20, 8, 10, 20}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	label := tooling.InventoryNumber
	if label == "" {
		label = tooling.Name
	}
	filename := fmt.Sprintf("下料单_%s.xlsx", label)
	return f, filename, nil
}
