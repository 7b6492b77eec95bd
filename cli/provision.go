package cli

import (
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	flock "github.com/rodneyosodo/flock"
)

const defConfigPath = "flock.toml"

// NewProvisionCmd interactively gathers the broker and coordinator
// settings for a session and writes them to flock.toml.
func NewProvisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Provision session config",
		Long:  `Interactively generate the flock.toml used by the CLI and the demo processes.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := flock.Config{
				Coordinator: flock.CoordinatorConfig{
					URL:     "http://localhost:7070",
					Channel: "demo",
				},
				Broker: flock.BrokerConfig{
					Address: "tcp://localhost:1883",
					QoS:     2,
				},
			}
			qos := strconv.Itoa(cfg.Broker.QoS)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Coordinator URL").
						Value(&cfg.Coordinator.URL),
					huh.NewInput().
						Title("Session channel").
						Value(&cfg.Coordinator.Channel),
					huh.NewInput().
						Title("MQTT broker address").
						Value(&cfg.Broker.Address),
					huh.NewSelect[string]().
						Title("MQTT QoS").
						Options(
							huh.NewOption("0 - at most once", "0"),
							huh.NewOption("1 - at least once", "1"),
							huh.NewOption("2 - exactly once", "2"),
						).
						Value(&qos),
				),
			)
			if err := form.Run(); err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			cfg.Broker.QoS, _ = strconv.Atoi(qos)
			if err := flock.SaveConfig(defConfigPath, cfg); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Successfully wrote "+defConfigPath)
		},
	}
}
