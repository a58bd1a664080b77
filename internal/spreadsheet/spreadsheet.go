// Package spreadsheet imports vocabulary from Excel or CSV files and exports
// the collection back out. Columns are: A english, B turkish, C type
// (optional, "word" or "idiom"), D id (ignored on import).
package spreadsheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"lexical/internal/types"
)

// Adder is the part of the store an import needs.
type Adder interface {
	Add(ctx context.Context, kind types.Kind, source, target string) (types.Entry, error)
}

// ImportConfig defines how rows are read.
type ImportConfig struct {
	FilePath    string
	SheetName   string     // Excel only; the first sheet when empty
	DefaultKind types.Kind // used when the type column is empty
}

// ImportResult holds the result of an import operation.
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int // duplicates already in the collection
	Errors         []string
}

var header = []string{"english", "turkish", "type", "id"}

// Import adds every row of the file to the store. Duplicate rows are counted
// as skipped; invalid rows are reported in Errors and do not stop the import.
func Import(ctx context.Context, store Adder, cfg ImportConfig) (*ImportResult, error) {
	if cfg.DefaultKind == "" {
		cfg.DefaultKind = types.Word
	}
	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if isBlank(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.TotalProcessed++
		if err := importRow(ctx, store, cfg, row); err != nil {
			if errors.Is(err, types.ErrDuplicate) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

func importRow(ctx context.Context, store Adder, cfg ImportConfig, row []string) error {
	source, target := cell(row, 0), cell(row, 1)
	kind := cfg.DefaultKind
	if raw := strings.ToLower(cell(row, 2)); raw != "" {
		k, err := types.ParseKind(raw)
		if err != nil {
			return err
		}
		kind = k
	}
	_, err := store.Add(ctx, kind, source, target)
	return err
}

func readRows(cfg ImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		return readCSV(cfg.FilePath)
	}
	return readExcel(cfg)
}

func readExcel(cfg ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// Export writes entries to path as .xlsx, or .csv when the extension says so.
func Export(entries []types.Entry, path string) error {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return exportCSV(entries, path)
	}
	return exportExcel(entries, path)
}

func exportExcel(entries []types.Entry, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range entries {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.Source, e.Target, string(e.Kind), strconv.FormatInt(e.ID, 10)}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func exportCSV(entries []types.Entry, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Source, e.Target, string(e.Kind), strconv.FormatInt(e.ID, 10)}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isHeader(row []string) bool {
	return strings.EqualFold(cell(row, 0), header[0]) && strings.EqualFold(cell(row, 1), header[1])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
