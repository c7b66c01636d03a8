package bonus

import (
	"bytes"
	"testing"
	"time"

	"bonus-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineWorkbook(t *testing.T) []byte {
	t.Helper()
	return tripWorkbook(t, domain.SheetName, [][]interface{}{
		{"10/01/2024", "CARLOS", "FRETE BRITA", 10.0, 500.0},
		{"11/01/2024", "CARLOS", "FRETE CIMENTO", nil, 1234.56},
		{"10/01/2024", "vinicius lima", "AREIA", "7,5", nil},
		{"05/02/2024", "ANA", "FRETE BRITA", 3.0, 150.0},
		{"", "TOTAL GERAL", "", nil, 2000.0},
	})
}

func TestProcess_EndToEnd(t *testing.T) {
	svc := NewService(nil)
	sources := singleSource("viagens.xlsx", pipelineWorkbook(t))

	result, err := svc.Process(sources, date(2024, time.January, 1), date(2024, time.January, 31))
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.January, 1), result.Period.Start)
	assert.Equal(t, date(2024, time.January, 31), result.Period.End)
	assert.Equal(t, "1 a 31 de Janeiro de 2024", result.Period.Label)

	// o relatório cobre a carga completa, antes do recorte de período
	assert.Equal(t, 4, result.Report.Records)
	assert.Equal(t, 1, result.Report.Excluded)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "VINÍCIUS LIMA", result.Records[2].Driver)
	assertDecimalEqual(t, "10", result.Records[0].Bonus)
	assertDecimalEqual(t, "24.69", result.Records[1].Bonus)
	assertDecimalEqual(t, "7.5", result.Records[2].Bonus)

	require.Len(t, result.Summary.ByDriver, 2)
	assert.Equal(t, "CARLOS", result.Summary.ByDriver[0].Driver)
	assertDecimalEqual(t, "34.69", result.Summary.ByDriver[0].Bonus)
	assert.Equal(t, "VINÍCIUS LIMA", result.Summary.ByDriver[1].Driver)
	assertDecimalEqual(t, "42.19", result.Summary.TotalBonus)
}

func TestProcess_IsDeterministic(t *testing.T) {
	svc := NewService(nil)
	data := pipelineWorkbook(t)

	first, err := svc.Process(singleSource("viagens.xlsx", data), date(2024, time.January, 1), date(2024, time.January, 31))
	require.NoError(t, err)
	second, err := svc.Process(singleSource("viagens.xlsx", data), date(2024, time.January, 1), date(2024, time.January, 31))
	require.NoError(t, err)

	// o identificador da execução muda, todo o resto é idêntico
	first.Report.RunID = ""
	second.Report.RunID = ""
	assert.Equal(t, first, second)
}

func TestProcess_InvalidRangeBeforeLoading(t *testing.T) {
	svc := NewService(nil)
	sources := singleSource("viagens.xlsx", []byte("nunca lido"))

	_, err := svc.Process(sources, date(2024, time.February, 1), date(2024, time.January, 1))
	require.Error(t, err)
	assert.True(t, domain.IsInvalidRange(err))
}

func TestProcess_EmptyWindow(t *testing.T) {
	svc := NewService(nil)
	sources := singleSource("viagens.xlsx", pipelineWorkbook(t))

	result, err := svc.Process(sources, date(2030, time.January, 1), date(2030, time.January, 31))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Summary.ByDriver)
	assert.True(t, result.Summary.TotalBonus.IsZero())
	// a carga aconteceu mesmo sem registros no período
	assert.Equal(t, 4, result.Report.Records)
}

func TestProcess_PropagatesLoadFailure(t *testing.T) {
	svc := NewService(nil)
	sources := singleSource("viagens.xlsx", tripWorkbook(t, "Planilha1", nil))

	_, err := svc.Process(sources, date(2024, time.January, 1), date(2024, time.January, 31))
	require.Error(t, err)
	assert.True(t, domain.IsMissingSheet(err))
}

func TestInspect(t *testing.T) {
	svc := NewService(nil)
	sources := singleSource("viagens.xlsx", pipelineWorkbook(t))

	inspection, err := svc.Inspect(sources)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.January, 10), inspection.Bounds.MinDate)
	assert.Equal(t, date(2024, time.February, 5), inspection.Bounds.MaxDate)
	assert.Equal(t, []string{"ANA", "CARLOS", "VINÍCIUS LIMA"}, inspection.Bounds.Drivers)
	assert.Equal(t, []string{"AREIA", "FRETE BRITA", "FRETE CIMENTO"}, inspection.Bounds.CostCenters)
	assert.Equal(t, 4, inspection.Report.Records)
	require.Len(t, inspection.Report.Sources, 1)
	assert.Equal(t, 5, inspection.Report.Sources[0].RowsRead)
	assert.Equal(t, 4, inspection.Report.Sources[0].RowsKept)
}

func TestInspect_EmptySources(t *testing.T) {
	svc := NewService(nil)

	inspection, err := svc.Inspect(nil)
	require.NoError(t, err)
	assert.True(t, inspection.Bounds.MinDate.IsZero())
	assert.True(t, inspection.Bounds.MaxDate.IsZero())
	assert.Empty(t, inspection.Bounds.Drivers)
	assert.NotEmpty(t, inspection.Report.RunID)
}

func TestNewService_NilRulesUsesDefaults(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.ComputeBonuses([]domain.TripRecord{
		record("CARLOS", "FRETE BRITA", date(2024, time.January, 10), "2", ""),
	})
	require.NoError(t, err)
	assertDecimalEqual(t, "2", out[0].Bonus)
}

func TestExportAfterProcess_RoundTrip(t *testing.T) {
	svc := NewService(nil)
	sources := singleSource("viagens.xlsx", pipelineWorkbook(t))

	result, err := svc.Process(sources, date(2024, time.January, 1), date(2024, time.January, 31))
	require.NoError(t, err)

	data, name, err := svc.ExportWorkbook(result)
	require.NoError(t, err)
	assert.Equal(t, "Bonus_Motoristas_1_a_31_de_Janeiro_de_2024.xlsx", name)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}
