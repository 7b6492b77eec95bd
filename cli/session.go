// Package cli implements the flock command line: session inspection and
// the terminal status display for a running coordinator.
package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rodneyosodo/flock/pkg/sdk"
)

var (
	defOffset uint64 = 0
	defLimit  uint64 = 10
)

var fsdk sdk.SDK

// SetSDK sets the coordinator SDK instance used by the commands.
func SetSDK(s sdk.SDK) {
	fsdk = s
}

func NewSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "View session",
		Long:  `View the coordinator's current session state.`,
		Run: func(cmd *cobra.Command, args []string) {
			session, err := fsdk.GetSession()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, session)
		},
	}
}

func NewClientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List clients",
		Long:  `List the client agents known to the coordinator.`,
		Run: func(cmd *cobra.Command, args []string) {
			page, err := fsdk.ListClients(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}
}

func NewRoundsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rounds [view <round>]",
		Short: "Round history",
		Long:  `List finished rounds or view one round's record.`,
		Run: func(cmd *cobra.Command, args []string) {
			page, err := fsdk.ListRounds(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view <round>",
		Short: "View round",
		Long:  `View one round's record.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}
			round, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			r, err := fsdk.GetRound(round)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, r)
		},
	}
	cmd.AddCommand(viewCmd)

	return cmd
}

func NewEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List events",
		Long:  `List the coordinator's event log.`,
		Run: func(cmd *cobra.Command, args []string) {
			page, err := fsdk.ListEvents(defOffset, 100)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}
}
