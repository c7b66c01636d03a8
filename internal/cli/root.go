// internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"bonus-service/internal/core/bonus"
	"bonus-service/internal/domain"

	"github.com/spf13/cobra"
)

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

var rulesFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bonusctl",
	Short: "Bonusctl calcula o bônus de produtividade dos motoristas",
	Long: `Linha de comando do serviço de bônus: lê planilhas de "Controle de viagens",
aplica as regras de bonificação por centro de custo e gera os resumos do período
em tela e em planilha.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules",
		getEnvOrDefault("BONUS_RULES_FILE", ""),
		"arquivo YAML com as regras de bônus (vazio usa as regras embutidas)")
}

// newService builds the bonus service honoring the --rules flag.
func newService() (bonus.Service, error) {
	if rulesFile == "" {
		return bonus.NewService(nil), nil
	}
	f, err := os.Open(rulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", rulesFile, err)
	}
	defer f.Close()

	rules, err := bonus.LoadRules(f)
	if err != nil {
		return nil, err
	}
	return bonus.NewService(rules), nil
}

// openSources opens every workbook path given on the command line.
func openSources(paths []string) ([]domain.Source, func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	sources := make([]domain.Source, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
		}
		opened = append(opened, f)
		sources = append(sources, domain.Source{Name: filepath.Base(path), Reader: f})
	}
	return sources, closeAll, nil
}
