package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"shifa-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/:type/export?format=csv|xlsx&startDate=&endDate=
// Serializes the filtered record set, one row per record under a fixed
// header, downloaded as <type>-report-<yyyy-MM-dd>.csv or .xlsx.
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportType := c.Params("type")
		switch reportType {
		case TypeLaboratory, TypePharmacy, TypeGlass:
		default:
			return fiber.NewError(fiber.StatusNotFound, "Unknown report type")
		}

		scope, err := auth.ResolveReadScope(c)
		if err != nil {
			return err
		}
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		_, records, err := fetchRevenue(reportType, scope, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load records")
		}

		rows := exportRows(reportType, records)

		format := c.Query("format", "csv")
		stamp := time.Now().Format("2006-01-02")

		switch format {
		case "csv":
			data, err := writeCSV(rows)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV")
			}
			c.Set(fiber.HeaderContentType, "text/csv")
			c.Set(fiber.HeaderContentDisposition,
				fmt.Sprintf(`attachment; filename="%s-report-%s.csv"`, reportType, stamp))
			return c.Send(data)

		case "xlsx":
			data, err := writeXLSX(rows)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build spreadsheet")
			}
			c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Set(fiber.HeaderContentDisposition,
				fmt.Sprintf(`attachment; filename="%s-report-%s.xlsx"`, reportType, stamp))
			return c.Send(data)

		default:
			return fiber.NewError(fiber.StatusBadRequest, "format must be csv or xlsx")
		}
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// exportRows renders records into header+rows, the same cells for CSV and
// XLSX output.
func exportRows(reportType string, records any) [][]string {
	switch reportType {
	case TypeLaboratory:
		rows := [][]string{{"Invoice No", "Date", "Patient", "Test Type", "Charged", "Paid", "Balance Due"}}
		for _, r := range records.([]LabRecord) {
			rows = append(rows, []string{
				r.InvoiceNo, r.Date, r.PatientName, r.TestType,
				money(r.AmountCharged), money(r.AmountPaid), money(r.BalanceDue),
			})
		}
		return rows

	case TypePharmacy:
		rows := [][]string{{"Invoice No", "Date", "Customer", "Item", "Quantity", "Payment Method", "Charged", "Paid", "Balance Due"}}
		for _, r := range records.([]PharmacyRecord) {
			rows = append(rows, []string{
				r.InvoiceNo, r.Date, r.CustomerName, r.ItemName,
				strconv.Itoa(r.Quantity), r.PaymentMethod,
				money(r.AmountCharged), money(r.AmountPaid), money(r.BalanceDue),
			})
		}
		return rows

	case TypeGlass:
		rows := [][]string{{"Invoice No", "Date", "Customer", "Frame", "Lens", "Payment Method", "Charged", "Paid", "Balance Due"}}
		for _, r := range records.([]GlassRecord) {
			rows = append(rows, []string{
				r.InvoiceNo, r.Date, r.CustomerName, r.FrameModel, r.LensType, r.PaymentMethod,
				money(r.AmountCharged), money(r.AmountPaid), money(r.BalanceDue),
			})
		}
		return rows
	}

	return nil
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
