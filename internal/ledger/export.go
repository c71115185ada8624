package ledger

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	ExportFileName = "dados_leads.csv"
	XLSXFileName   = "dados_leads.xlsx"
	sheetName      = "Leads"
)

// WriteCSV exporta a tabela com BOM, vírgula e os rótulos de exibição no cabeçalho.
func (t *Table) WriteCSV(w io.Writer) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, t.Columns)
	rows = append(rows, t.Rows...)
	if err := writeCSV(tw, rows...); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return tw.Close()
}

// WriteXLSX exporta a mesma tabela como planilha.
func (t *Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	header := t.Columns
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	for i := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		row := t.Rows[i]
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	return nil
}
