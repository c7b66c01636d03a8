// internal/cli/inspect.go
package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [planilhas...]",
	Short: "Lê as planilhas e mostra o intervalo de datas disponível",
	Long: `Carrega as planilhas de controle de viagens sem calcular nada e mostra o
intervalo de datas, os motoristas e os centros de custo encontrados. Útil para
conferir os arquivos antes de escolher o período de apuração.`,
	Example: `  # Conferir duas planilhas antes de processar
  bonusctl inspect viagens_janeiro.xlsx viagens_frota2.xls`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		sources, closeAll, err := openSources(args)
		if err != nil {
			return err
		}
		defer closeAll()

		inspection, err := svc.Inspect(sources)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		headerColor.Fprintln(w, "--- 📂 Planilhas carregadas ---")
		for _, src := range inspection.Report.Sources {
			if src.Error != "" {
				fmt.Fprintf(w, "  %s:\t%s\n", src.Source, badColor.Sprint(src.Error))
				continue
			}
			fmt.Fprintf(w, "  %s:\t%d linhas lidas, %d aproveitadas\n", src.Source, src.RowsRead, src.RowsKept)
			for _, issue := range src.Issues {
				fmt.Fprintf(w, "    %s\n", warnColor.Sprintf("linha %d: %s (%s)", issue.Row, issue.Reason, issue.Field))
			}
		}

		bounds := inspection.Bounds
		headerColor.Fprintln(w, "\n--- 📅 Dados disponíveis ---")
		if len(bounds.Drivers) == 0 {
			fmt.Fprintln(w, "  (nenhum registro válido)")
			return nil
		}
		fmt.Fprintf(w, "  %s:\t%s a %s\n", labelColor.Sprint("Período"),
			bounds.MinDate.Format("02/01/2006"), bounds.MaxDate.Format("02/01/2006"))
		fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint("Motoristas"), strings.Join(bounds.Drivers, ", "))
		fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint("Centros de custo"), strings.Join(bounds.CostCenters, ", "))
		return nil
	},
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	warnColor   = color.New(color.FgYellow)
	badColor    = color.New(color.FgRed)
	labelColor  = color.New(color.Bold)
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}
