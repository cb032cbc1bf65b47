package reports

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders one snapshot as a spreadsheet for the admin side.
func ExportXLSX(rep *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Report"); err != nil {
		return nil, err
	}
	sheet = "Report"

	rows := [][]any{
		{"Report type", string(rep.Type)},
		{"From", rep.From.Format(time.DateOnly)},
		{"To", rep.To.Format(time.DateOnly)},
		{"Generated at", rep.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Revenue", rep.Revenue.StringFixed(2)},
		{"Subscriptions", rep.SubscriptionCount},
		{"Active customers", rep.ActiveCustomers},
		{},
		{"Payments by method"},
	}

	methods := make([]string, 0, len(rep.Detail.PaymentsByMethod))
	for m := range rep.Detail.PaymentsByMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		rows = append(rows, []any{m, rep.Detail.PaymentsByMethod[m]})
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("reports: write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
