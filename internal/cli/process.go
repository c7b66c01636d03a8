// internal/cli/process.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"bonus-service/internal/domain"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	processStart  string
	processEnd    string
	processOutDir string
	processCSV    bool
)

var processCmd = &cobra.Command{
	Use:   "process [planilhas...]",
	Short: "Calcula o bônus do período e grava a planilha de resultados",
	Long: `Executa a apuração completa: carrega as planilhas de controle de viagens,
recorta o período informado, aplica as regras de bônus e grava a pasta de
trabalho com os resumos no diretório de saída.`,
	Example: `  # Apurar a primeira quinzena de janeiro
  bonusctl process --start 2024-01-01 --end 2024-01-15 viagens_janeiro.xlsx

  # Duas frotas, com CSV para a contabilidade
  bonusctl process --start 2024-02-01 --end 2024-02-29 --csv frota_a.xlsx frota_b.xls`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse("2006-01-02", processStart)
		if err != nil {
			return fmt.Errorf("data inicial inválida %q, use o formato AAAA-MM-DD", processStart)
		}
		end, err := time.Parse("2006-01-02", processEnd)
		if err != nil {
			return fmt.Errorf("data final inválida %q, use o formato AAAA-MM-DD", processEnd)
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		sources, closeAll, err := openSources(args)
		if err != nil {
			return err
		}
		defer closeAll()

		result, err := svc.Process(sources, start, end)
		if err != nil {
			return err
		}

		printReport(result)
		printSummary(result)

		data, fileName, err := svc.ExportWorkbook(result)
		if err != nil {
			return err
		}
		outPath := filepath.Join(processOutDir, fileName)
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write workbook %s: %w", outPath, err)
		}
		fmt.Printf("%s Planilha gravada em %s\n", color.GreenString("✓"), outPath)

		if processCSV {
			data, fileName, err := svc.ExportDetailCSV(result)
			if err != nil {
				return err
			}
			outPath := filepath.Join(processOutDir, fileName)
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write csv %s: %w", outPath, err)
			}
			fmt.Printf("%s CSV gravado em %s\n", color.GreenString("✓"), outPath)
		}
		return nil
	},
}

// money renders a value the way the reports do: two decimals, comma separator.
func money(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func printReport(result domain.Result) {
	fmt.Printf("%s Período %s, %d registros considerados\n",
		color.CyanString("◆"), result.Period.Label, len(result.Records))
	if result.Report.Excluded > 0 {
		fmt.Printf("%s %d linhas descartadas na carga (use 'bonusctl inspect' para os detalhes)\n",
			color.YellowString("⚠"), result.Report.Excluded)
	}
	for _, src := range result.Report.Sources {
		if src.Error != "" {
			fmt.Printf("%s %s: %s\n", color.RedString("✗"), src.Source, src.Error)
		}
	}
}

func printSummary(result domain.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	headerColor.Fprintln(w, "\n--- 💰 Bônus por motorista ---")
	fmt.Fprintln(w, "  MOTORISTA\tVIAGENS\tQUANT.\tFATURAMENTO\tBÔNUS")
	for _, row := range result.Summary.ByDriver {
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\t%s\n",
			row.Driver, row.Trips, money(row.Quantity), money(row.Revenue), money(row.Bonus))
	}
	fmt.Fprintf(w, "  %s\t\t\t%s\t%s\n", labelColor.Sprint("TOTAL"),
		money(result.Summary.TotalRevenue), money(result.Summary.TotalBonus))

	headerColor.Fprintln(w, "\n--- 🚚 Bônus por centro de custo ---")
	fmt.Fprintln(w, "  CENTRO DE CUSTO\tVIAGENS\tFATURAMENTO\tBÔNUS")
	for _, row := range result.Summary.ByCostCenter {
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\n",
			row.CostCenter, row.Trips, money(row.Revenue), money(row.Bonus))
	}

	headerColor.Fprintln(w, "\n--- 📅 Dias trabalhados ---")
	for _, row := range result.Summary.DaysWorked {
		fmt.Fprintf(w, "  %s\t%d\n", row.Driver, row.Days)
	}
}

func init() {
	processCmd.Flags().StringVar(&processStart, "start", "", "data inicial do período (AAAA-MM-DD)")
	processCmd.Flags().StringVar(&processEnd, "end", "", "data final do período (AAAA-MM-DD)")
	processCmd.Flags().StringVar(&processOutDir, "output", ".", "diretório onde gravar os arquivos gerados")
	processCmd.Flags().BoolVar(&processCSV, "csv", false, "gera também o CSV detalhado para a contabilidade")
	processCmd.MarkFlagRequired("start")
	processCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(processCmd)
}
