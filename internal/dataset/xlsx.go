package dataset

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	sheetCritical   = "Critical"
	sheetCommercial = "Commercial"
	sheetLegal      = "Legal"
)

// FromXLSX loads a replacement catalog from a workbook with Critical,
// Commercial and Legal sheets. Each sheet has a header row followed by data
// rows in the same column order as the corresponding row struct. Callers
// fall back to Default on error.
func FromXLSX(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook failed: %w", err)
	}
	defer f.Close()

	critical, err := readRows(f, sheetCritical, 7, func(cols []string) (CriticalRow, error) {
		return CriticalRow{
			ContractID:       cols[0],
			Engagement:       cols[1],
			ContractType:     cols[2],
			ContractCoverage: cols[3],
			Geography:        cols[4],
			StartDate:        cols[5],
			EndDate:          cols[6],
		}, nil
	})
	if err != nil {
		return nil, err
	}

	commercial, err := readRows(f, sheetCommercial, 5, func(cols []string) (CommercialRow, error) {
		value, err := strconv.ParseFloat(cols[1], 64)
		if err != nil {
			return CommercialRow{}, fmt.Errorf("parse contract value %q failed: %w", cols[1], err)
		}
		return CommercialRow{
			ContractID:         cols[0],
			TotalContractValue: value,
			Currency:           cols[2],
			PaymentTerms:       cols[3],
			BillingFrequency:   cols[4],
		}, nil
	})
	if err != nil {
		return nil, err
	}

	legal, err := readRows(f, sheetLegal, 5, func(cols []string) (LegalRow, error) {
		days, err := strconv.Atoi(cols[4])
		if err != nil {
			return LegalRow{}, fmt.Errorf("parse termination notice days %q failed: %w", cols[4], err)
		}
		return LegalRow{
			ContractID:            cols[0],
			GoverningLaw:          cols[1],
			LiabilityCap:          cols[2],
			Indemnification:       cols[3],
			TerminationNoticeDays: days,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	catalog := &Catalog{Critical: critical, Commercial: commercial, Legal: legal}
	if catalog.Size() == 0 {
		return nil, fmt.Errorf("workbook %s has no data rows", path)
	}
	return catalog, nil
}

func readRows[T any](f *excelize.File, sheet string, minCols int, parse func([]string) (T, error)) ([]T, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s failed: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s needs a header row and at least one data row", sheet)
	}

	var out []T
	for i, row := range rows[1:] {
		if len(row) < minCols {
			return nil, fmt.Errorf("sheet %s row %d: want %d columns, got %d", sheet, i+2, minCols, len(row))
		}
		parsed, err := parse(row)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
		out = append(out, parsed)
	}
	return out, nil
}
