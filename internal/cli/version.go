// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version will be set at build time
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Imprime a versão do bonusctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bonusctl version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
