package constraint

import (
	"context"
	"testing"
	"time"

	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/util/collections"
)

func restore(t *testing.T, snapshot *game.Snapshot) *game.Session {
	t.Helper()
	session, err := snapshot.Restore()
	if err != nil {
		t.Fatal(err)
	}
	return session
}

func TestFirstMoveIsRandomClick(t *testing.T) {
	session, err := game.NewSession(game.GridConfig{Height: 5, Width: 5, NumMines: 5, Seed: 2})
	if err != nil {
		t.Fatal(err)
	}

	director := New(2)
	director.Init(session)
	moves := director.Act()
	if len(moves) != 1 || moves[0].Action != game.Click {
		t.Fatalf("expected a single click, got %v", moves)
	}
}

func TestActFlagsCertainMine(t *testing.T) {
	session := restore(t, &game.Snapshot{
		Height:         1,
		Width:          3,
		NumMines:       1,
		RemainingMines: 1,
		Minefield:      []game.HintRow{"0,1,9"},
		Revealed:       []game.RevealedRow{"1,1,0"},
		MineLocations:  []game.CellPair{"0,2"},
	})

	director := New(1)
	director.Init(session)
	defer director.End()

	moves := director.Act()
	expected := game.Cell{Row: 0, Col: 2}.Flag()
	if len(moves) != 1 || moves[0] != expected {
		t.Fatalf("expected %v, got %v", expected, moves)
	}
}

func TestActClicksCertainlySafeCells(t *testing.T) {
	// * 1 # #, with the first mine flagged: the hint is satisfied, so its
	// other hidden neighbor is safe
	session := restore(t, &game.Snapshot{
		Height:         1,
		Width:          4,
		NumMines:       2,
		RemainingMines: 1,
		Minefield:      []game.HintRow{"9,1,1,9"},
		Revealed:       []game.RevealedRow{"0,1,0,0"},
		MineLocations:  []game.CellPair{"0,0", "0,3"},
		Flagged:        []game.CellPair{"0,0"},
	})

	director := New(1)
	director.Init(session)
	defer director.End()

	moves := director.Act()
	expected := game.Cell{Row: 0, Col: 2}.Click()
	if len(moves) != 1 || moves[0] != expected {
		t.Fatalf("expected %v, got %v", expected, moves)
	}
}

func TestSimplifySubsetRule(t *testing.T) {
	a, b, c := game.Cell{Row: 0, Col: 0}, game.Cell{Row: 0, Col: 1}, game.Cell{Row: 0, Col: 2}
	observations := []*Observation{
		{numMines: 1, cells: collections.NewSet(a, b)},
		{numMines: 2, cells: collections.NewSet(a, b, c)},
	}

	derived := simplify(observations)
	if len(derived) != 3 {
		t.Fatalf("expected one derived observation, got %v", derived)
	}
	split := derived[2]
	if split.numMines != 1 || !split.cells.Equal(collections.NewSet(c)) {
		t.Fatalf("expected 1 mine in {%v}, got %v", c, split)
	}
}

func TestAutoplayEnds(t *testing.T) {
	wins := 0
	for seed := int64(1); seed <= 20; seed++ {
		session, err := game.NewSession(game.GridConfig{Height: 9, Width: 9, NumMines: 10, Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		loop := game.NewLoop(session, time.Hour)

		outcome, err := game.Autoplay(context.Background(), loop, New(seed), 0)
		loop.Stop()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		switch outcome {
		case game.Won:
			wins++
		case game.Lost:
		default:
			t.Fatalf("seed %d: game did not end, got %v", seed, outcome)
		}
	}
	if wins == 0 {
		t.Fatalf("expected deduction to win at least one beginner game")
	}
}
