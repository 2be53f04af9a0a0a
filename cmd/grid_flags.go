package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/they4kman/minefield/config"
	"github.com/they4kman/minefield/game"
)

// gridFlags selects the grid of a new game: a named preset, or custom
// dimensions when any of height, width or mines is given.
type gridFlags struct {
	size          string
	height, width uint
	numMines      uint
	seed          int64
}

func registerGridFlags(cmd *cobra.Command, grid *gridFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&grid.size, "size", "s", "small", "Size preset of a new game")
	flags.UintVarP(&grid.height, "height", "H", 0, "Height of a custom game, in cells")
	flags.UintVarP(&grid.width, "width", "W", 0, "Width of a custom game, in cells")
	flags.UintVarP(&grid.numMines, "mines", "m", 0, "Number of mines in a custom game")
	flags.Int64Var(&grid.seed, "seed", 0, "Seed for mine placement (0 picks one from the clock)")
}

// resolve returns the grid configuration and its best-time class
func (grid *gridFlags) resolve(cmd *cobra.Command, cfg config.Config) (game.GridConfig, string, error) {
	flags := cmd.Flags()
	if flags.Changed("height") || flags.Changed("width") || flags.Changed("mines") {
		if grid.height == 0 || grid.width == 0 || grid.numMines == 0 {
			return game.GridConfig{}, "", errors.New("custom games need --height, --width and --mines")
		}
		gridConfig := game.GridConfig{Height: grid.height, Width: grid.width, NumMines: grid.numMines, Seed: grid.seed}
		return gridConfig, cfg.ClassOf(grid.height, grid.width, grid.numMines), nil
	}

	preset, ok := cfg.Preset(grid.size)
	if !ok {
		return game.GridConfig{}, "", errors.Errorf("unknown size %q", grid.size)
	}
	gridConfig := game.GridConfig{Height: preset.Height, Width: preset.Width, NumMines: preset.NumMines, Seed: grid.seed}
	return gridConfig, preset.Name, nil
}
