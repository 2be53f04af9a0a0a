package cmd

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/minefield/director/constraint"
	"github.com/they4kman/minefield/director/random"
	"github.com/they4kman/minefield/game"
)

var (
	autoplayGrid  gridFlags
	directorName  string
	numGames      int
	autoplayDelay time.Duration
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Make the computer play",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gridConfig, class, err := autoplayGrid.resolve(cmd, appConfig)
		if err != nil {
			return err
		}
		if numGames < 1 {
			return errors.New("--games must be at least 1")
		}

		out := cmd.OutOrStdout()
		wins := 0
		for i := 0; i < numGames; i++ {
			gameConfig := gridConfig
			if gameConfig.Seed != 0 {
				gameConfig.Seed += int64(i)
			}

			outcome, elapsed, err := autoplayGame(cmd, gameConfig)
			if err != nil {
				return err
			}
			if outcome == game.Won {
				wins++
			}
			fmt.Fprintf(out, "game %d: %s in %ds\n", i+1, outcome, elapsed)
		}

		fmt.Fprintf(out, "%s won %d of %d %s games\n", directorName, wins, numGames, class)
		return nil
	},
}

func autoplayGame(cmd *cobra.Command, gridConfig game.GridConfig) (game.Outcome, uint, error) {
	session, err := game.NewSession(gridConfig)
	if err != nil {
		return game.Ongoing, 0, err
	}

	loop := game.NewLoop(session, appConfig.TickInterval)
	defer loop.Stop()

	director := directors[directorName](gridConfig.Seed)
	outcome, err := game.Autoplay(cmd.Context(), loop, director, autoplayDelay)
	if err != nil {
		return outcome, 0, err
	}

	var elapsed uint
	err = loop.Do(cmd.Context(), func(session *game.Session) {
		elapsed = session.ElapsedTime()
	})

	log.WithFields(logrus.Fields{
		"director": directorName,
		"session":  session.ID(),
		"outcome":  outcome,
	}).Debug("autoplay game ended")
	return outcome, elapsed, err
}

var directors = map[string]func(seed int64) game.Director{
	"random": func(seed int64) game.Director {
		return random.New(seed)
	},
	"constraint": func(seed int64) game.Director {
		return constraint.New(seed)
	},
}

type directorValue string

func newDirectorValue(val string, p *string) *directorValue {
	*p = val
	return (*directorValue)(p)
}

func (directorVal *directorValue) String() string {
	return string(*directorVal)
}

func (directorVal *directorValue) Set(value string) error {
	if _, isValid := directors[value]; isValid {
		*directorVal = directorValue(value)
		return nil
	} else {
		return errors.New("invalid director")
	}
}

func (directorVal *directorValue) Type() string {
	return "director"
}

func init() {
	registerGridFlags(autoplayCmd, &autoplayGrid)

	flags := autoplayCmd.Flags()
	flags.VarP(newDirectorValue("constraint", &directorName), "director", "d", `Computer player.
random: reveals random cells until the game ends
constraint: flags and reveals what the hints prove, guessing only when stuck`)
	flags.IntVarP(&numGames, "games", "n", 1, "Number of games to play")
	flags.DurationVar(&autoplayDelay, "delay", 0, "Pause between moves")
}
