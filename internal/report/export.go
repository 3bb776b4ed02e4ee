package report

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Resumo"
	sheetMonthly  = "Mensal"
	sheetExpenses = "Despesas"
)

// ExportXLSX writes a workbook with the dashboard summary, the monthly chart
// and every expense.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	stats, err := s.Stats(ctx)
	if err != nil {
		return err
	}
	chart, err := s.FinancialChart(ctx, 0)
	if err != nil {
		return err
	}
	categories, err := s.ExpensesByCategory(ctx)
	if err != nil {
		return err
	}
	expenses, err := s.source.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{sheetMonthly, sheetExpenses} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	summary := [][]interface{}{
		{"Indicador", "Valor"},
		{"Receita total", stats.TotalRevenue.InexactFloat64()},
		{"Despesas totais", stats.TotalExpenses.InexactFloat64()},
		{"Lucro", stats.TotalRevenue.Sub(stats.TotalExpenses).InexactFloat64()},
		{"Ordens ativas", stats.ActiveWorkOrders},
		{"Clientes", stats.TotalCustomers},
		{},
		{"Categoria", "Total"},
	}
	for _, c := range categories {
		summary = append(summary, []interface{}{string(c.Category), c.Total.InexactFloat64()})
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return err
	}

	monthly := [][]interface{}{{"Mês", "Receita", "Custos", "Resultado"}}
	for _, m := range chart {
		monthly = append(monthly, []interface{}{
			m.Month,
			m.Revenue.InexactFloat64(),
			m.Costs.InexactFloat64(),
			m.Revenue.Sub(m.Costs).InexactFloat64(),
		})
	}
	if err := writeRows(f, sheetMonthly, monthly); err != nil {
		return err
	}

	rows := [][]interface{}{{"Data", "Descrição", "Categoria", "Valor"}}
	for _, e := range expenses {
		rows = append(rows, []interface{}{
			e.Date.String(),
			e.Description,
			string(e.Category),
			e.Amount.InexactFloat64(),
		})
	}
	if err := writeRows(f, sheetExpenses, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
