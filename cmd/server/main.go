package main // Entry point package

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hall-editor",
		Short: "Seat map and shift schedule editor API for hall owners",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; real deployments set the environment directly
			if err := godotenv.Load(); err == nil {
				log.Printf("loaded .env")
			}
		},
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
