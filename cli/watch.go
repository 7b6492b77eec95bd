package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rodneyosodo/flock/pkg/fl"
)

const watchInterval = time.Second

// NewWatchCmd returns the terminal status display: it tails the
// coordinator's event log and prints one timestamped row per event until
// the session reaches the Done state.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch session",
		Long:  `Follow the coordinator's event log until the session completes.`,
		Run: func(cmd *cobra.Command, args []string) {
			header := color.New(color.FgGreen, color.Bold)
			fmt.Fprintln(cmd.OutOrStdout(), header.Sprint("Federated Learning Server Status"))

			var seen uint64
			ticker := time.NewTicker(watchInterval)
			defer ticker.Stop()

			for {
				page, err := fsdk.ListEvents(seen, 100)
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				for _, e := range page.Events {
					printEvent(cmd, e)
				}
				seen += uint64(len(page.Events))

				session, err := fsdk.GetSession()
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				if session.Phase == fl.PhaseDone {
					logSuccessCmd(*cmd, fmt.Sprintf("Session complete after %d rounds", session.Rounds))

					return
				}

				select {
				case <-cmd.Context().Done():
					return
				case <-ticker.C:
				}
			}
		},
	}
}

func printEvent(cmd *cobra.Command, e fl.Event) {
	cyan := color.New(color.FgCyan)
	magenta := color.New(color.FgMagenta)
	green := color.New(color.FgGreen)
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
		cyan.Sprint(e.Time.Format("15:04:05")),
		magenta.Sprintf("%-12s", e.Label),
		green.Sprint(e.Message))
}
