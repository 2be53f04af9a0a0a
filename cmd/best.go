package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "List the best completion time of every size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		bestTimes, err := st.BestTimes()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(bestTimes) == 0 {
			fmt.Fprintln(out, "No best time yet")
			return nil
		}

		classes := make([]string, 0, len(bestTimes))
		for class := range bestTimes {
			classes = append(classes, class)
		}
		sort.Strings(classes)

		for _, class := range classes {
			fmt.Fprintf(out, "%-20s %ds\n", class, bestTimes[class])
		}
		return nil
	},
}
