package bonus

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"bonus-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Abas do arquivo exportado, na ordem em que são gravadas.
const (
	sheetDetail       = "BÔNUS DETALHADO"
	sheetByDriver     = "BÔNUS POR MOTORISTA"
	sheetByCostCenter = "BÔNUS POR C.CUSTO"
	sheetDaysWorked   = "DIAS TRABALHADOS"
	sheetDailyRevenue = "FATURAMENTO DIÁRIO"
)

const dateLayoutBR = "02/01/2006"

// ExportWorkbook renders the summary tables into a multi-sheet workbook and
// returns the file bytes plus the period-derived file name.
func (svc *service) ExportWorkbook(result domain.Result) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", err
	}

	totals := driverTotals(result.Summary)

	detailRows := make([][]interface{}, 0, len(result.Summary.ByDriverCostCenter))
	prev := ""
	for _, row := range result.Summary.ByDriverCostCenter {
		var total interface{}
		if row.Driver != prev {
			total = totals[row.Driver].InexactFloat64()
			prev = row.Driver
		}
		detailRows = append(detailRows, []interface{}{
			row.Driver, row.CostCenter, row.Trips,
			row.Quantity.InexactFloat64(), row.Revenue.InexactFloat64(), row.Bonus.InexactFloat64(),
			total,
		})
	}
	if err := writeSheet(f, sheetDetail, headerStyle,
		[]string{colDriver, colCostCenter, "VIAGENS", colQuantity, "FATURAMENTO", "BÔNUS", "BÔNUS TOTAL"},
		detailRows); err != nil {
		return nil, "", err
	}

	driverRows := make([][]interface{}, 0, len(result.Summary.ByDriver))
	for _, row := range result.Summary.ByDriver {
		driverRows = append(driverRows, []interface{}{
			row.Driver, row.Trips,
			row.Quantity.InexactFloat64(), row.Revenue.InexactFloat64(), row.Bonus.InexactFloat64(),
		})
	}
	if err := writeSheet(f, sheetByDriver, headerStyle,
		[]string{colDriver, "VIAGENS", colQuantity, "FATURAMENTO", "BÔNUS"},
		driverRows); err != nil {
		return nil, "", err
	}

	centerRows := make([][]interface{}, 0, len(result.Summary.ByCostCenter))
	for _, row := range result.Summary.ByCostCenter {
		centerRows = append(centerRows, []interface{}{
			row.CostCenter, row.Trips, row.Revenue.InexactFloat64(), row.Bonus.InexactFloat64(),
		})
	}
	if err := writeSheet(f, sheetByCostCenter, headerStyle,
		[]string{colCostCenter, "VIAGENS", "FATURAMENTO", "BÔNUS"},
		centerRows); err != nil {
		return nil, "", err
	}

	dayRows := make([][]interface{}, 0, len(result.Summary.DaysWorked))
	for _, row := range result.Summary.DaysWorked {
		dayRows = append(dayRows, []interface{}{row.Driver, row.Days})
	}
	if err := writeSheet(f, sheetDaysWorked, headerStyle,
		[]string{"Motorista", "Dias Trabalhados"},
		dayRows); err != nil {
		return nil, "", err
	}

	revenueRows := make([][]interface{}, 0, len(result.Summary.RevenueByDay))
	for _, row := range result.Summary.RevenueByDay {
		revenueRows = append(revenueRows, []interface{}{
			row.Date.Format(dateLayoutBR), row.Revenue.InexactFloat64(),
		})
	}
	if err := writeSheet(f, sheetDailyRevenue, headerStyle,
		[]string{colDate, "FATURAMENTO"},
		revenueRows); err != nil {
		return nil, "", err
	}

	// descartar a aba criada por padrão
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}
	idx, err := f.GetSheetIndex(sheetDetail)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), exportFileName(result.Period.Label, ".xlsx"), nil
}

// ExportDetailCSV renders the driver by cost-center table as a semicolon CSV
// encoded in Windows-1252, the format the accounting tooling ingests.
func (svc *service) ExportDetailCSV(result domain.Result) ([]byte, string, error) {
	var buffer bytes.Buffer
	encoder := charmap.Windows1252.NewEncoder()
	writer := csv.NewWriter(transform.NewWriter(&buffer, encoder))
	writer.Comma = ';'

	header := []string{colDriver, colCostCenter, "VIAGENS", colQuantity, "FATURAMENTO", "BÔNUS", "BÔNUS TOTAL"}
	for i := range header {
		header[i] = sanitizeForCSV(header[i])
	}
	if err := writer.Write(header); err != nil {
		return nil, "", err
	}

	totals := driverTotals(result.Summary)
	prev := ""
	for _, row := range result.Summary.ByDriverCostCenter {
		total := ""
		if row.Driver != prev {
			total = formatTwoDecimalsComma(totals[row.Driver])
			prev = row.Driver
		}
		record := []string{
			sanitizeForCSV(row.Driver),
			sanitizeForCSV(row.CostCenter),
			strconv.Itoa(row.Trips),
			formatTwoDecimalsComma(row.Quantity),
			formatTwoDecimalsComma(row.Revenue),
			formatTwoDecimalsComma(row.Bonus),
			total,
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}
	return buffer.Bytes(), exportFileName(result.Period.Label, ".csv"), nil
}

func driverTotals(summary domain.Summary) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(summary.ByDriver))
	for _, row := range summary.ByDriver {
		totals[row.Driver] = row.Bonus
	}
	return totals
}

func writeSheet(f *excelize.File, name string, headerStyle int, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	for c, h := range header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return err
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// exportFileName derives the download name from the human period label,
// e.g. "Bonus_Motoristas_1_a_15_de_Janeiro_de_2024.xlsx".
func exportFileName(label, ext string) string {
	return strings.ReplaceAll("Bonus_Motoristas_"+label+ext, " ", "_")
}
