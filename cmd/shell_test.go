package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/they4kman/minefield/config"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/store"
)

func openTestStore(t *testing.T) (store.Store, string) {
	t.Helper()

	dir := t.TempDir()
	st, err := store.OpenFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	return st, dir
}

func runTestShell(t *testing.T, st store.Store, input string, gridConfig game.GridConfig) string {
	t.Helper()

	var out bytes.Buffer
	sh := &shell{
		in:           newPrompter(strings.NewReader(input)),
		out:          &out,
		store:        st,
		config:       config.Config{Presets: config.DefaultPresets},
		tickInterval: time.Hour,
	}
	if err := sh.run(context.Background(), gridConfig); err != nil {
		t.Fatalf("shell: %v\n%s", err, out.String())
	}
	return out.String()
}

func assertContains(t *testing.T, out string, expected ...string) {
	t.Helper()
	for _, text := range expected {
		if !strings.Contains(out, text) {
			t.Fatalf("expected output to contain %q:\n%s", text, out)
		}
	}
}

func TestShellWinRecordsBestTime(t *testing.T) {
	st, _ := openTestStore(t)

	// on a 1x2 grid the mine can only go beside the first click
	tiny := game.GridConfig{Height: 1, Width: 2, NumMines: 1, Seed: 1}
	out := runTestShell(t, st, "r 0 0\nf 0 1\n", tiny)
	assertContains(t, out, "You win!", "No best time yet")

	best, ok, err := st.BestTime("custom-1x2-1")
	if err != nil || !ok || best != 0 {
		t.Fatalf("expected a recorded time of 0, got %d %v %v", best, ok, err)
	}

	out = runTestShell(t, st, "r 0 1\nf 0 0\n", tiny)
	assertContains(t, out, "You win!", "Your time: 0; Best time: 0")
}

func TestShellOffersAnotherGame(t *testing.T) {
	st, _ := openTestStore(t)

	// on a 1x2 grid the mine always lands beside the first click
	tiny := game.GridConfig{Height: 1, Width: 2, NumMines: 1, Seed: 1}
	out := runTestShell(t, st, "r 0 0\nf 0 1\ny\nr 0 1\nf 0 0\nn\n", tiny)

	if count := strings.Count(out, "Care for another game?"); count != 2 {
		t.Fatalf("expected to be offered another game twice, got %d:\n%s", count, out)
	}
	if count := strings.Count(out, "You win!"); count != 2 {
		t.Fatalf("expected two wins, got %d:\n%s", count, out)
	}
	assertContains(t, out, "No best time yet", "Your time: 0; Best time: 0")
}

func TestShellLoss(t *testing.T) {
	st, _ := openTestStore(t)

	// three mines on a 2x2 grid: everything but the first click is a mine
	out := runTestShell(t, st, "r 0 0\nr 1 1\n", game.GridConfig{Height: 2, Width: 2, NumMines: 3, Seed: 4})
	assertContains(t, out, "Game over!", "No best time yet", "  *")
}

func TestShellSaveAndResume(t *testing.T) {
	st, _ := openTestStore(t)
	small := game.GridConfig{Height: 9, Width: 9, NumMines: 10, Seed: 3}

	out := runTestShell(t, st, "r 4 4\nq\ny\n", small)
	assertContains(t, out, "Save your game?", "Game saved")
	if _, err := st.LoadSnapshot(); err != nil {
		t.Fatalf("expected a saved game: %v", err)
	}

	out = runTestShell(t, st, "y\nq\nn\n", small)
	assertContains(t, out, "Continue your saved game?", "Save your game?")
	if _, err := st.LoadSnapshot(); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatalf("expected the resumed game to be deleted, got %v", err)
	}
}

func TestShellDeclineResumeDeletesSavedGame(t *testing.T) {
	st, _ := openTestStore(t)
	small := game.GridConfig{Height: 9, Width: 9, NumMines: 10, Seed: 3}

	runTestShell(t, st, "r 4 4\nq\ny\n", small)
	runTestShell(t, st, "n\nq\n", small)

	if _, err := st.LoadSnapshot(); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatalf("expected the declined game to be deleted, got %v", err)
	}
}

func TestShellQuitBeforeFirstMove(t *testing.T) {
	st, _ := openTestStore(t)

	out := runTestShell(t, st, "q\n", game.GridConfig{Height: 9, Width: 9, NumMines: 10})
	if strings.Contains(out, "Save your game?") {
		t.Fatalf("a game without moves cannot be saved:\n%s", out)
	}
	if _, err := st.LoadSnapshot(); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatalf("expected no saved game, got %v", err)
	}
}

func TestShellDiscardsCorruptSavedGame(t *testing.T) {
	st, dir := openTestStore(t)
	path := filepath.Join(dir, "snapshot.yaml")
	if err := os.WriteFile(path, []byte("height: [\n"), 0o666); err != nil {
		t.Fatal(err)
	}

	out := runTestShell(t, st, "q\n", game.GridConfig{Height: 9, Width: 9, NumMines: 10})
	if strings.Contains(out, "Continue your saved game?") {
		t.Fatalf("a corrupt game must not be offered:\n%s", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected the corrupt game to be deleted, got %v", err)
	}
}

func TestShellRejectsBadInput(t *testing.T) {
	st, _ := openTestStore(t)

	out := runTestShell(t, st, "x\nr 9 9\nr a 0\nr 1\nh\np\n", game.GridConfig{Height: 9, Width: 9, NumMines: 10})
	assertContains(t, out,
		`Unknown command "x"`,
		"9,9 is off the board",
		`bad row "a"`,
		"expected a row and a column",
	)
}

func TestRenderBoard(t *testing.T) {
	session, err := (&game.Snapshot{
		Height:         1,
		Width:          5,
		NumMines:       2,
		RemainingMines: 1,
		ElapsedTime:    7,
		Minefield:      []game.HintRow{"9,1,0,1,9"},
		Revealed:       []game.RevealedRow{"0,1,1,1,0"},
		MineLocations:  []game.CellPair{"0,0", "0,4"},
		Flagged:        []game.CellPair{"0,0"},
	}).Restore()
	if err != nil {
		t.Fatal(err)
	}

	expected := "Mines left: 1  Time: 7s\n" +
		"      0  1  2  3  4\n" +
		"  0   F  1  .  1  #\n"
	if board := renderBoard(session); board != expected {
		t.Fatalf("expected\n%s\ngot\n%s", expected, board)
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		args     []string
		expected game.Cell
		ok       bool
	}{
		{[]string{"3", "4"}, game.Cell{Row: 3, Col: 4}, true},
		{[]string{"0", "0"}, game.Cell{}, true},
		{[]string{"3"}, game.Cell{}, false},
		{[]string{"3", "4", "5"}, game.Cell{}, false},
		{[]string{"-1", "4"}, game.Cell{}, false},
		{[]string{"3", "x"}, game.Cell{}, false},
	}

	for _, test := range tests {
		cell, err := parseCell(test.args)
		if (err == nil) != test.ok {
			t.Fatalf("%v: unexpected error %v", test.args, err)
		}
		if test.ok && cell != test.expected {
			t.Fatalf("%v: expected %v, got %v", test.args, test.expected, cell)
		}
	}
}
