package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rootGrid gridFlags
	playGrid gridFlags
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game, resuming the saved one if you like",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, &playGrid)
	},
}

func runPlay(cmd *cobra.Command, grid *gridFlags) error {
	gridConfig, _, err := grid.resolve(cmd, appConfig)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	sh := &shell{
		in:           newPrompter(cmd.InOrStdin()),
		out:          cmd.OutOrStdout(),
		store:        st,
		config:       appConfig,
		tickInterval: appConfig.TickInterval,
	}
	return sh.run(cmd.Context(), gridConfig)
}

func init() {
	registerGridFlags(playCmd, &playGrid)
}
