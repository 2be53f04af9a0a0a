package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/config"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/store"
)

const shellHelp = `Commands:
  r ROW COL   reveal a cell
  f ROW COL   cycle a cell's mark: flag, question, none
  c ROW COL   reveal around a satisfied hint
  p           print the board
  q           quit, offering to save the game
  h           show this help
`

// prompter reads whole lines of player input
type prompter struct {
	scanner *bufio.Scanner
}

func newPrompter(in io.Reader) *prompter {
	return &prompter{scanner: bufio.NewScanner(in)}
}

// line returns the next input line, or false once input is exhausted
func (p *prompter) line() (string, bool) {
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

func (p *prompter) confirm(out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, ok := p.line()
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.ToLower(answer), "y")
}

// shell runs one interactive game in the terminal
type shell struct {
	in    *prompter
	out   io.Writer
	store store.Store

	config       config.Config
	tickInterval time.Duration
}

func (sh *shell) run(ctx context.Context, gridConfig game.GridConfig) error {
	session, err := sh.resume()
	if err != nil {
		return err
	}

	for {
		if session == nil {
			if session, err = game.NewSession(gridConfig); err != nil {
				return err
			}
		}

		finished, playErr := sh.play(ctx, session)
		if playErr != nil || !finished {
			return playErr
		}
		if !sh.in.confirm(sh.out, "Care for another game?") {
			return nil
		}

		// same size as the game just finished, which may have been resumed
		grid := session.Grid()
		gridConfig = game.GridConfig{
			Height:   grid.Height(),
			Width:    grid.Width(),
			NumMines: grid.NumMines(),
			Seed:     nextSeed(gridConfig.Seed),
		}
		session = nil
	}
}

// nextSeed keeps a fixed seed sequence reproducible without replaying the
// same layout
func nextSeed(seed int64) int64 {
	if seed == 0 {
		return 0
	}
	return seed + 1
}

// play runs the command loop for one session. It reports whether the game
// ended, as opposed to the player quitting.
func (sh *shell) play(ctx context.Context, session *game.Session) (bool, error) {
	grid := session.Grid()
	class := sh.config.ClassOf(grid.Height(), grid.Width(), grid.NumMines())

	loop := game.NewLoop(session, sh.tickInterval)
	defer loop.Stop()

	fmt.Fprint(sh.out, shellHelp)
	for {
		if err := sh.printBoard(ctx, loop); err != nil {
			return false, err
		}

		fmt.Fprint(sh.out, "> ")
		line, ok := sh.in.line()
		if !ok {
			return false, sh.quit(ctx, loop)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var action game.Action
		switch fields[0] {
		case "r":
			action = game.Click
		case "f":
			action = game.RightClick
		case "c":
			action = game.MiddleClick
		case "p":
			continue
		case "q":
			return false, sh.quit(ctx, loop)
		case "h":
			fmt.Fprint(sh.out, shellHelp)
			continue
		default:
			fmt.Fprintf(sh.out, "Unknown command %q; h for help\n", fields[0])
			continue
		}

		cell, err := parseCell(fields[1:])
		if err != nil {
			fmt.Fprintln(sh.out, err)
			continue
		}

		outcome, err := loop.Submit(ctx, game.Move{Cell: cell, Action: action})
		switch {
		case errors.Is(err, game.ErrOutOfBounds):
			fmt.Fprintf(sh.out, "%d,%d is off the board\n", cell.Row, cell.Col)
			continue
		case errors.Is(err, game.ErrCellRevealed):
			fmt.Fprintf(sh.out, "%d,%d is already revealed\n", cell.Row, cell.Col)
			continue
		case err != nil:
			return false, err
		}

		if outcome != game.Ongoing {
			return true, sh.finish(ctx, loop, class, outcome)
		}
	}
}

// resume offers the saved game, if any. The saved game is deleted whatever
// the answer, so it can only be resumed once.
func (sh *shell) resume() (*game.Session, error) {
	snapshot, err := sh.store.LoadSnapshot()
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).Warn("discarding unreadable saved game")
		return nil, sh.store.DeleteSnapshot()
	}

	var session *game.Session
	if sh.in.confirm(sh.out, "Continue your saved game?") {
		session, err = snapshot.Restore()
		if err != nil {
			log.WithError(err).Warn("discarding corrupt saved game")
			fmt.Fprintln(sh.out, "The saved game is corrupt; starting a new one")
			session = nil
		}
	}

	if err := sh.store.DeleteSnapshot(); err != nil {
		return nil, err
	}
	return session, nil
}

func (sh *shell) quit(ctx context.Context, loop *game.Loop) error {
	var snapshot *game.Snapshot
	var snapshotErr error
	if err := loop.Do(ctx, func(session *game.Session) {
		snapshot, snapshotErr = session.Snapshot()
	}); err != nil {
		return err
	}
	if errors.Is(snapshotErr, game.ErrNotSavable) {
		return nil
	}
	if snapshotErr != nil {
		return snapshotErr
	}

	if !sh.in.confirm(sh.out, "Save your game?") {
		return nil
	}
	if err := sh.store.SaveSnapshot(snapshot); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Game saved")
	return nil
}

func (sh *shell) finish(ctx context.Context, loop *game.Loop, class string, outcome game.Outcome) error {
	if err := sh.printBoard(ctx, loop); err != nil {
		return err
	}

	var elapsed uint
	if err := loop.Do(ctx, func(session *game.Session) {
		elapsed = session.ElapsedTime()
	}); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"class":   class,
		"outcome": outcome,
		"elapsed": elapsed,
	}).Info("game over")

	if outcome == game.Won {
		fmt.Fprintln(sh.out, "You win!")

		record, err := sh.store.RecordTime(class, elapsed)
		if err != nil {
			return err
		}
		switch {
		case !record.HadPrevious:
			fmt.Fprintf(sh.out, "No best time yet. Your time: %d\n", elapsed)
		case record.IsNewRecord:
			fmt.Fprintf(sh.out, "NEW RECORD! %d\n", elapsed)
		default:
			fmt.Fprintf(sh.out, "Your time: %d; Best time: %d\n", elapsed, record.Previous)
		}
		return nil
	}

	fmt.Fprintln(sh.out, "Game over!")

	best, ok, err := sh.store.BestTime(class)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(sh.out, "Best time for this size: %d\n", best)
	} else {
		fmt.Fprintln(sh.out, "No best time yet")
	}
	return nil
}

func (sh *shell) printBoard(ctx context.Context, loop *game.Loop) error {
	var board string
	if err := loop.Do(ctx, func(session *game.Session) {
		board = renderBoard(session)
	}); err != nil {
		return err
	}
	fmt.Fprint(sh.out, board)
	return nil
}

// renderBoard draws the player's view with row and column numbers. Mines
// are only shown once the game is over.
func renderBoard(session *game.Session) string {
	grid, marks := session.Grid(), session.Marks()

	var out strings.Builder
	fmt.Fprintf(&out, "Mines left: %d  Time: %ds\n", marks.RemainingMineCount(), session.ElapsedTime())

	out.WriteString("    ")
	for col := uint(0); col < grid.Width(); col++ {
		fmt.Fprintf(&out, "%3d", col)
	}
	out.WriteByte('\n')

	for row := uint(0); row < grid.Height(); row++ {
		fmt.Fprintf(&out, "%3d ", row)
		for col := uint(0); col < grid.Width(); col++ {
			fmt.Fprintf(&out, "  %c", cellGlyph(session, game.Cell{Row: row, Col: col}))
		}
		out.WriteByte('\n')
	}
	return out.String()
}

func cellGlyph(session *game.Session, cell game.Cell) byte {
	grid, marks := session.Grid(), session.Marks()
	hint := grid.Hint(cell)

	switch {
	case grid.IsRevealed(cell) && hint == game.Mine:
		return '*'
	case grid.IsRevealed(cell) && hint == game.Empty:
		return '.'
	case grid.IsRevealed(cell):
		return byte('0' + hint)
	case marks.IsFlagged(cell):
		return 'F'
	case marks.IsQuestioned(cell):
		return '?'
	case !session.InProgress() && hint == game.Mine:
		return '*'
	default:
		return '#'
	}
}

func parseCell(args []string) (game.Cell, error) {
	if len(args) != 2 {
		return game.Cell{}, errors.New("expected a row and a column")
	}

	row, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return game.Cell{}, errors.Errorf("bad row %q", args[0])
	}
	col, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return game.Cell{}, errors.Errorf("bad column %q", args[1])
	}
	return game.Cell{Row: uint(row), Col: uint(col)}, nil
}
