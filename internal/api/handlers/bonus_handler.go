package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"bonus-service/internal/api/responses"
	"bonus-service/internal/core/bonus"
	"bonus-service/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=windows-1252"
)

// BonusHandler lida com as requisições da API relacionadas ao bônus de motoristas.
type BonusHandler struct {
	service bonus.Service
}

// NewBonusHandler cria um novo handler de bônus.
func NewBonusHandler(service bonus.Service) *BonusHandler {
	return &BonusHandler{
		service: service,
	}
}

// sourcesFromForm abre todas as planilhas enviadas no campo 'viagensFiles'.
// O close devolvido fecha todos os arquivos abertos.
func sourcesFromForm(c *gin.Context) ([]domain.Source, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("envio multipart inválido: %w", err)
	}

	fileHeaders := form.File["viagensFiles"]
	if len(fileHeaders) == 0 {
		return nil, nil, fmt.Errorf("nenhuma planilha enviada no campo 'viagensFiles'")
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	sources := make([]domain.Source, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("não foi possível abrir a planilha %s", fh.Filename)
		}
		opened = append(opened, f)
		sources = append(sources, domain.Source{Name: fh.Filename, Reader: f})
	}
	return sources, closeAll, nil
}

// periodFromForm lê os campos startDate e endDate no formato AAAA-MM-DD.
func periodFromForm(c *gin.Context) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.PostForm("startDate"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data inicial inválida, use o formato AAAA-MM-DD")
	}
	end, err := time.Parse("2006-01-02", c.PostForm("endDate"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data final inválida, use o formato AAAA-MM-DD")
	}
	return start, end, nil
}

// statusForError traduz os erros tipados do domínio em código HTTP.
func statusForError(err error) int {
	switch {
	case domain.IsInvalidRange(err):
		return http.StatusBadRequest
	case domain.IsMissingSheet(err), domain.IsSchema(err), domain.IsCalculation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// HandleInspect carrega as planilhas sem calcular nada e devolve os limites
// dos dados para a escolha do período.
func (h *BonusHandler) HandleInspect(c *gin.Context) {
	sources, closeAll, err := sourcesFromForm(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Planilhas de viagens não encontradas ou inválidas", err.Error())
		return
	}
	defer closeAll()

	inspection, err := h.service.Inspect(sources)
	if err != nil {
		fmt.Printf("Erro ao inspecionar planilhas: %v\n", err)
		responses.Error(c, statusForError(err), "Erro ao ler as planilhas", err.Error())
		return
	}

	responses.Success(c, inspection, "Planilhas lidas com sucesso")
}

// HandleProcess executa o pipeline completo e devolve o resultado em JSON.
func (h *BonusHandler) HandleProcess(c *gin.Context) {
	sources, closeAll, err := sourcesFromForm(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Planilhas de viagens não encontradas ou inválidas", err.Error())
		return
	}
	defer closeAll()

	start, end, err := periodFromForm(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Período inválido", err.Error())
		return
	}

	result, err := h.service.Process(sources, start, end)
	if err != nil {
		fmt.Printf("Erro ao processar planilhas: %v\n", err)
		responses.Error(c, statusForError(err), "Erro ao processar as planilhas", err.Error())
		return
	}

	responses.Success(c, result, fmt.Sprintf("Análise concluída para o período %s", result.Period.Label))
}

// HandleExport executa o pipeline e devolve a pasta de trabalho multiabas.
func (h *BonusHandler) HandleExport(c *gin.Context) {
	sources, closeAll, err := sourcesFromForm(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Planilhas de viagens não encontradas ou inválidas", err.Error())
		return
	}
	defer closeAll()

	start, end, err := periodFromForm(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Período inválido", err.Error())
		return
	}

	result, err := h.service.Process(sources, start, end)
	if err != nil {
		fmt.Printf("Erro ao processar planilhas para exportação: %v\n", err)
		responses.Error(c, statusForError(err), "Erro ao processar as planilhas", err.Error())
		return
	}

	data, fileName, err := h.service.ExportWorkbook(result)
	if err != nil {
		fmt.Printf("Erro ao gerar a pasta de trabalho: %v\n", err)
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar a pasta de trabalho", err.Error())
		return
	}

	responses.Download(c, data, fileName, xlsxContentType)
}

// HandleExportCSV executa o pipeline e devolve a tabela detalhada em CSV.
func (h *BonusHandler) HandleExportCSV(c *gin.Context) {
	sources, closeAll, err := sourcesFromForm(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Planilhas de viagens não encontradas ou inválidas", err.Error())
		return
	}
	defer closeAll()

	start, end, err := periodFromForm(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Período inválido", err.Error())
		return
	}

	result, err := h.service.Process(sources, start, end)
	if err != nil {
		fmt.Printf("Erro ao processar planilhas para exportação: %v\n", err)
		responses.Error(c, statusForError(err), "Erro ao processar as planilhas", err.Error())
		return
	}

	data, fileName, err := h.service.ExportDetailCSV(result)
	if err != nil {
		fmt.Printf("Erro ao gerar o CSV: %v\n", err)
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar o CSV", err.Error())
		return
	}

	responses.Download(c, data, fileName, csvContentType)
}
