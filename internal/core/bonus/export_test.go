package bonus

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"bonus-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func exportResult(t *testing.T) domain.Result {
	t.Helper()
	svc := NewService(nil)
	summary := svc.Summarize([]domain.AugmentedRecord{
		aug(record("CARLOS", "FRETE BRITA", date(2024, time.January, 10), "10", "500"), "10", true),
		aug(record("CARLOS", "FRETE CIMENTO", date(2024, time.January, 11), "", "1234.56"), "24.69", true),
		aug(record("ANA", "AREIA", date(2024, time.January, 10), "7.5", ""), "7.5", true),
	})
	return domain.Result{
		Period: domain.Period{
			Start: date(2024, time.January, 1),
			End:   date(2024, time.January, 31),
			Label: "1 a 31 de Janeiro de 2024",
		},
		Summary: summary,
	}
}

func TestExportWorkbook_SheetLayout(t *testing.T) {
	svc := NewService(nil)
	data, name, err := svc.ExportWorkbook(exportResult(t))
	require.NoError(t, err)
	assert.Equal(t, "Bonus_Motoristas_1_a_31_de_Janeiro_de_2024.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"BÔNUS DETALHADO",
		"BÔNUS POR MOTORISTA",
		"BÔNUS POR C.CUSTO",
		"DIAS TRABALHADOS",
		"FATURAMENTO DIÁRIO",
	}, f.GetSheetList())
	assert.Equal(t, "BÔNUS DETALHADO", f.GetSheetName(f.GetActiveSheetIndex()))
}

func TestExportWorkbook_DetailSheet(t *testing.T) {
	svc := NewService(nil)
	data, _, err := svc.ExportWorkbook(exportResult(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("BÔNUS DETALHADO")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{
		"MOTORISTA", "CENTRO DE CUSTO", "VIAGENS", "QUANT.", "FATURAMENTO", "BÔNUS", "BÔNUS TOTAL",
	}, rows[0])
	assert.Equal(t, []string{"ANA", "AREIA", "1", "7.5", "0", "7.5", "7.5"}, rows[1])
	assert.Equal(t, []string{"CARLOS", "FRETE BRITA", "1", "10", "500", "10", "34.69"}, rows[2])
	// o total por motorista aparece só na primeira linha do bloco
	require.GreaterOrEqual(t, len(rows[3]), 6)
	assert.Equal(t, "CARLOS", rows[3][0])
	assert.Equal(t, "FRETE CIMENTO", rows[3][1])
	assert.Equal(t, "24.69", rows[3][5])
	if len(rows[3]) == 7 {
		assert.Empty(t, rows[3][6])
	}
}

func TestExportWorkbook_SummarySheets(t *testing.T) {
	svc := NewService(nil)
	data, _, err := svc.ExportWorkbook(exportResult(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("BÔNUS POR MOTORISTA")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"MOTORISTA", "VIAGENS", "QUANT.", "FATURAMENTO", "BÔNUS"}, rows[0])
	assert.Equal(t, []string{"CARLOS", "2", "10", "1734.56", "34.69"}, rows[1])
	assert.Equal(t, []string{"ANA", "1", "7.5", "0", "7.5"}, rows[2])

	rows, err = f.GetRows("BÔNUS POR C.CUSTO")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"CENTRO DE CUSTO", "VIAGENS", "FATURAMENTO", "BÔNUS"}, rows[0])
	assert.Equal(t, []string{"FRETE CIMENTO", "1", "1234.56", "24.69"}, rows[1])

	rows, err = f.GetRows("DIAS TRABALHADOS")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Motorista", "Dias Trabalhados"}, rows[0])
	assert.Equal(t, []string{"ANA", "1"}, rows[1])
	assert.Equal(t, []string{"CARLOS", "2"}, rows[2])

	rows, err = f.GetRows("FATURAMENTO DIÁRIO")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"DATA", "FATURAMENTO"}, rows[0])
	assert.Equal(t, []string{"10/01/2024", "500"}, rows[1])
	assert.Equal(t, []string{"11/01/2024", "1234.56"}, rows[2])
}

func TestExportWorkbook_EmptySummary(t *testing.T) {
	svc := NewService(nil)
	result := domain.Result{
		Period: domain.Period{Label: "1 a 31 de Janeiro de 2024"},
	}

	data, _, err := svc.ExportWorkbook(result)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Len(t, f.GetSheetList(), 5)
	rows, err := f.GetRows("BÔNUS DETALHADO")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExportDetailCSV(t *testing.T) {
	svc := NewService(nil)
	data, name, err := svc.ExportDetailCSV(exportResult(t))
	require.NoError(t, err)
	assert.Equal(t, "Bonus_Motoristas_1_a_31_de_Janeiro_de_2024.csv", name)

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{
		"MOTORISTA", "CENTRO DE CUSTO", "VIAGENS", "QUANT.", "FATURAMENTO", "BÔNUS", "BÔNUS TOTAL",
	}, rows[0])
	assert.Equal(t, []string{"ANA", "AREIA", "1", "7,50", "0,00", "7,50", "7,50"}, rows[1])
	assert.Equal(t, []string{"CARLOS", "FRETE BRITA", "1", "10,00", "500,00", "10,00", "34,69"}, rows[2])
	assert.Equal(t, []string{"CARLOS", "FRETE CIMENTO", "1", "0,00", "1234,56", "24,69", ""}, rows[3])
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Bonus_Motoristas_1_a_15_de_Janeiro_de_2024.xlsx", exportFileName("1 a 15 de Janeiro de 2024", ".xlsx"))
	assert.Equal(t, "Bonus_Motoristas_15_de_Maio_a_15_de_Junho_de_2024.csv", exportFileName("15 de Maio a 15 de Junho de 2024", ".csv"))
}
