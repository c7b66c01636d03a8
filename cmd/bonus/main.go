// cmd/bonus/main.go
package main

import (
	"log"
	"os"

	"bonus-service/internal/api/handlers"
	"bonus-service/internal/api/responses"
	"bonus-service/internal/config"
	"bonus-service/internal/core/bonus"

	"github.com/gin-gonic/gin"
)

func main() {
	responses.InitLogger()

	cfg := config.Load()

	rules, err := loadRules(cfg.RulesFile)
	if err != nil {
		log.Fatal("Falha ao carregar as regras de bônus: ", err)
	}

	bonusService := bonus.NewService(rules)
	bonusHandler := handlers.NewBonusHandler(bonusService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/bonus/inspect", bonusHandler.HandleInspect)
		apiV1.POST("/bonus/process", bonusHandler.HandleProcess)
		apiV1.POST("/bonus/export", bonusHandler.HandleExport)
		apiV1.POST("/bonus/export-csv", bonusHandler.HandleExportCSV)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "bonus-service"})
	})

	log.Printf("🚀 Bonus Service (Go) iniciado e escutando na porta %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Falha ao iniciar o servidor de bônus: ", err)
	}
}

// loadRules abre o arquivo de regras quando configurado; sem arquivo, o
// serviço usa as regras embutidas.
func loadRules(path string) (*bonus.RuleSet, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return bonus.LoadRules(f)
}
