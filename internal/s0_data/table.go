package s0_data

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatHTML = "html"
)

// readTable reads a header row plus data rows in the given format
func readTable(r io.Reader, format string) ([]string, [][]string, error) {
	switch format {
	case FormatCSV, "":
		return readCSV(r)
	case FormatHTML:
		return readHTMLTable(r)
	default:
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, ErrNoColumns
	}
	return all[0], all[1:], nil
}

// readHTMLTable reads the first table of an HTML export.
// The header is the thead row, or the first row when there is no thead.
func readHTMLTable(r io.Reader) ([]string, [][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil, ErrNoColumns
	}

	var header []string
	var rows [][]string

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() == 0 {
			return
		}
		values := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			values = append(values, strings.TrimSpace(cell.Text()))
		})

		if header == nil {
			header = values
			return
		}
		rows = append(rows, values)
	})

	if header == nil {
		return nil, nil, ErrNoColumns
	}
	return header, rows, nil
}

// recordsFromTable maps rows to records. Blank rows are dropped;
// identity validation is left to the refresher.
func recordsFromTable(source string, header []string, rows [][]string, log *logger.Logger) ([]contracts.StockRecord, error) {
	cm, err := MapHeader(header)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"source":  source,
			"columns": header,
		}).Error("No columns matched")
		return nil, err
	}

	records := make([]contracts.StockRecord, 0, len(rows))
	badCells := 0
	blank := 0
	for _, row := range rows {
		if isBlankRow(row) {
			blank++
			continue
		}
		rec, bad := cm.Record(row)
		badCells += bad
		records = append(records, rec)
	}

	log.WithFields(map[string]interface{}{
		"source":    source,
		"rows":      len(rows),
		"records":   len(records),
		"matched":   len(cm.matched),
		"bad_cells": badCells,
		"blank":     blank,
	}).Info("Parsed snapshot table")

	return records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
