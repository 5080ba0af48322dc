// Command rentctl runs maintenance tasks against the rent database without
// starting the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

func main() {
	_ = godotenv.Load()
	utils.InitLogger("rentctl")

	rootCmd := &cobra.Command{
		Use:          "rentctl",
		Short:        "Rent billing maintenance tool",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("database-url", "", "Postgres URL (defaults to $DATABASE_URL)")

	rootCmd.AddCommand(
		migrateCmd(),
		billingCmd(),
		reportCmd(),
		remindersCmd(),
		seedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
