package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	flock "github.com/rodneyosodo/flock"
	"github.com/rodneyosodo/flock/cli"
	"github.com/rodneyosodo/flock/pkg/sdk"
)

const defCoordinatorURL = "http://localhost:7070"

func main() {
	coordinatorURL := defCoordinatorURL
	if cfg, err := flock.LoadConfig("flock.toml"); err == nil && cfg.Coordinator.URL != "" {
		coordinatorURL = cfg.Coordinator.URL
	}
	if url := os.Getenv("FLOCK_COORDINATOR_URL"); url != "" {
		coordinatorURL = url
	}

	cli.SetSDK(sdk.NewSDK(sdk.Config{
		CoordinatorURL: coordinatorURL,
	}))

	rootCmd := &cobra.Command{
		Use:   "flock",
		Short: "Flock CLI",
		Long:  `Inspect and follow a flock federated-learning session.`,
	}

	rootCmd.AddCommand(cli.NewSessionCmd())
	rootCmd.AddCommand(cli.NewClientsCmd())
	rootCmd.AddCommand(cli.NewRoundsCmd())
	rootCmd.AddCommand(cli.NewEventsCmd())
	rootCmd.AddCommand(cli.NewWatchCmd())
	rootCmd.AddCommand(cli.NewProvisionCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
