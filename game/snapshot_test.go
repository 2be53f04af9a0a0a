package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

func assertSameSession(t *testing.T, expected, actual *Session) {
	t.Helper()

	if expected.id != actual.id {
		t.Errorf("id: expected %s, got %s", expected.id, actual.id)
	}
	if expected.elapsedTime != actual.elapsedTime {
		t.Errorf("elapsed time: expected %d, got %d", expected.elapsedTime, actual.elapsedTime)
	}

	expectedGrid, actualGrid := expected.grid, actual.grid
	if expectedGrid.height != actualGrid.height || expectedGrid.width != actualGrid.width || expectedGrid.numMines != actualGrid.numMines {
		t.Fatalf("dimensions differ")
	}
	if !reflect.DeepEqual(expectedGrid.cells, actualGrid.cells) {
		t.Errorf("cell values differ:\n%v\n%v", expectedGrid.cells, actualGrid.cells)
	}
	if !reflect.DeepEqual(expectedGrid.revealed, actualGrid.revealed) {
		t.Errorf("revealed flags differ")
	}
	if expectedGrid.numRevealed != actualGrid.numRevealed {
		t.Errorf("revealed count: expected %d, got %d", expectedGrid.numRevealed, actualGrid.numRevealed)
	}
	if !sameCells(expectedGrid.mines, actualGrid.mines) {
		t.Errorf("mines: expected %v, got %v", expectedGrid.mines, actualGrid.mines)
	}
	if !sameCells(expected.marks.flagged, actual.marks.flagged) {
		t.Errorf("flagged: expected %v, got %v", expected.marks.flagged, actual.marks.flagged)
	}
	if !sameCells(expected.marks.questioned, actual.marks.questioned) {
		t.Errorf("questioned: expected %v, got %v", expected.marks.questioned, actual.marks.questioned)
	}
}

func TestSnapshotNotSavable(t *testing.T) {
	session, err := NewSession(GridConfig{Height: 4, Width: 4, NumMines: 2, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := session.Snapshot(); !errors.Is(err, ErrNotSavable) {
		t.Fatalf("expected ErrNotSavable before the first move, got %v", err)
	}

	lost := fixedSession(t, 3, 3, Cell{1, 1})
	lost.Reveal(Cell{1, 1})
	if _, err := lost.Snapshot(); !errors.Is(err, ErrNotSavable) {
		t.Fatalf("expected ErrNotSavable after losing, got %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		session, err := NewSession(GridConfig{Height: 9, Width: 9, NumMines: 10, Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := session.Reveal(Cell{4, 4}); err != nil {
			t.Fatal(err)
		}
		session.OnTick()

		var hidden []Cell
		for _, cell := range session.Grid().Cells() {
			if !session.Grid().IsRevealed(cell) {
				hidden = append(hidden, cell)
			}
		}
		session.CycleMark(hidden[0])
		session.CycleMark(hidden[len(hidden)-1])
		session.CycleMark(hidden[1])
		session.CycleMark(hidden[1])

		snapshot, err := session.Snapshot()
		if err != nil {
			t.Fatal(err)
		}
		out, err := snapshot.Serialize()
		if err != nil {
			t.Fatal(err)
		}
		loaded, err := LoadSnapshot(out)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(snapshot, loaded) {
			t.Fatalf("seed %d: yaml round trip changed the snapshot:\n%s", seed, out)
		}

		restored, err := loaded.Restore()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		assertSameSession(t, session, restored)
		if restored.FirstMove() || !restored.InProgress() || restored.Marks().RemainingMineCount() != 8 {
			t.Fatalf("seed %d: unexpected restored state", seed)
		}
	}
}

func TestSnapshotRoundTripEdgeGrids(t *testing.T) {
	nothingRevealed := fixedSession(t, 2, 3, Cell{0, 1})

	allRevealed := fixedSession(t, 3, 3, Cell{0, 0}, Cell{2, 1})
	for _, cell := range allRevealed.grid.Cells() {
		allRevealed.grid.Reveal(cell)
	}

	for name, session := range map[string]*Session{
		"nothing revealed": nothingRevealed,
		"all revealed":     allRevealed,
	} {
		restored, err := encodeSnapshot(session).Restore()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		assertSameSession(t, session, restored)
	}

	if allRevealed.grid.NumRevealed() != allRevealed.grid.NumCells() {
		t.Fatalf("expected every cell revealed")
	}
}

func TestSnapshotWithoutSessionID(t *testing.T) {
	snapshot := validSnapshot()
	snapshot.SessionID = ""

	restored, err := snapshot.Restore()
	if err != nil {
		t.Fatal(err)
	}
	if restored.ID() == uuid.Nil {
		t.Fatalf("expected a fresh id")
	}
}

func TestLoadSnapshotInvalidYAML(t *testing.T) {
	var decodeErr *DecodeError
	if _, err := LoadSnapshot([]byte("height: [")); !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestLoadSnapshotRejectsIncompleteRecords(t *testing.T) {
	encoded, err := validSnapshot().Serialize()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		field  string
		modify func(map[string]interface{})
	}{
		{"missing elapsed time", "elapsed_time", func(record map[string]interface{}) {
			delete(record, "elapsed_time")
		}},
		{"missing remaining mines", "remaining_mines", func(record map[string]interface{}) {
			delete(record, "remaining_mines")
		}},
		{"missing height", "height", func(record map[string]interface{}) {
			delete(record, "height")
		}},
		{"missing flagged list", "flagged", func(record map[string]interface{}) {
			delete(record, "flagged")
		}},
		{"null minefield", "minefield", func(record map[string]interface{}) {
			record["minefield"] = nil
		}},
		{"unknown key", "snapshot", func(record map[string]interface{}) {
			record["bogus_field"] = 42
		}},
		{"negative elapsed time", "snapshot", func(record map[string]interface{}) {
			record["elapsed_time"] = -3
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record := make(map[string]interface{})
			if err := yaml.Unmarshal(encoded, &record); err != nil {
				t.Fatal(err)
			}
			test.modify(record)
			in, err := yaml.Marshal(record)
			if err != nil {
				t.Fatal(err)
			}

			snapshot, err := LoadSnapshot(in)
			if snapshot != nil {
				t.Fatalf("expected no snapshot from:\n%s", in)
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %T: %v", err, err)
			}
			if decodeErr.Field != test.field {
				t.Fatalf("expected field %q, got %q (%v)", test.field, decodeErr.Field, err)
			}
		})
	}
}

func TestLoadSnapshotSessionIsOptional(t *testing.T) {
	snapshot := validSnapshot()
	snapshot.SessionID = ""
	snapshot.Flagged = []CellPair{}
	snapshot.Questioned = []CellPair{}
	encoded, err := snapshot.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadSnapshot(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snapshot, loaded) {
		t.Fatalf("expected %+v, got %+v", snapshot, loaded)
	}
}

// validSnapshot is a 3x3 game with one mine in the top right corner and
// only the mine's column hidden.
//
//	0 1 *
//	0 1 1
//	0 0 0
func validSnapshot() *Snapshot {
	return &Snapshot{
		SessionID:      "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Height:         3,
		Width:          3,
		NumMines:       1,
		RemainingMines: 1,
		ElapsedTime:    12,
		Minefield:      []HintRow{"0,1,9", "0,1,1", "0,0,0"},
		Revealed:       []RevealedRow{"1,1,0", "1,1,1", "1,1,1"},
		MineLocations:  []CellPair{"0,2"},
	}
}

func TestRestoreValidSnapshot(t *testing.T) {
	session, err := validSnapshot().Restore()
	if err != nil {
		t.Fatal(err)
	}
	if session.Grid().NumRevealed() != 8 || session.ElapsedTime() != 12 || !session.CanSave() {
		t.Fatalf("unexpected restored state")
	}
	if !session.Grid().IsMine(Cell{0, 2}) || session.Grid().Hint(Cell{1, 2}) != Number1 {
		t.Fatalf("unexpected restored grid:\n%s", session.Grid())
	}
}

func TestRestoreRejects(t *testing.T) {
	const (
		decodeError = iota
		mismatchError
	)

	tests := []struct {
		name   string
		modify func(*Snapshot)
		kind   int
	}{
		{"empty grid", func(s *Snapshot) { s.Height = 0 }, decodeError},
		{"too many mines", func(s *Snapshot) { s.NumMines = 9 }, decodeError},
		{"bad session id", func(s *Snapshot) { s.SessionID = "nope" }, decodeError},
		{"missing minefield row", func(s *Snapshot) { s.Minefield = s.Minefield[:2] }, decodeError},
		{"long minefield row", func(s *Snapshot) { s.Minefield[1] = "0,1,1,0" }, decodeError},
		{"cell value out of range", func(s *Snapshot) { s.Minefield[2] = "0,0,10" }, decodeError},
		{"negative cell value", func(s *Snapshot) { s.Minefield[2] = "0,-1,0" }, decodeError},
		{"missing revealed row", func(s *Snapshot) { s.Revealed = nil }, decodeError},
		{"revealed flag not binary", func(s *Snapshot) { s.Revealed[0] = "1,2,0" }, decodeError},
		{"missing mine location", func(s *Snapshot) { s.MineLocations = nil }, mismatchError},
		{"mine location outside grid", func(s *Snapshot) { s.MineLocations = []CellPair{"3,0"} }, mismatchError},
		{"mine location not a mine", func(s *Snapshot) { s.MineLocations = []CellPair{"0,1"} }, decodeError},
		{"minefield holds extra mine", func(s *Snapshot) { s.Minefield[2] = "0,0,9" }, mismatchError},
		{"inconsistent hint", func(s *Snapshot) { s.Minefield[1] = "0,2,1" }, decodeError},
		{"malformed pair", func(s *Snapshot) { s.MineLocations = []CellPair{"0;2"} }, decodeError},
		{"flag on revealed cell", func(s *Snapshot) {
			s.Flagged = []CellPair{"0,0"}
			s.RemainingMines = 0
		}, decodeError},
		{"flag outside grid", func(s *Snapshot) { s.Flagged = []CellPair{"0,3"} }, mismatchError},
		{"duplicate flag", func(s *Snapshot) {
			s.Flagged = []CellPair{"0,2", "0,2"}
			s.RemainingMines = -1
		}, decodeError},
		{"flagged and questioned", func(s *Snapshot) {
			s.Flagged = []CellPair{"0,2"}
			s.Questioned = []CellPair{"0,2"}
			s.RemainingMines = 0
		}, decodeError},
		{"question on revealed cell", func(s *Snapshot) { s.Questioned = []CellPair{"2,2"} }, decodeError},
		{"wrong remaining count", func(s *Snapshot) { s.RemainingMines = 0 }, decodeError},
		{"flags already win", func(s *Snapshot) {
			s.Flagged = []CellPair{"0,2"}
			s.RemainingMines = 0
		}, decodeError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			snapshot := validSnapshot()
			test.modify(snapshot)

			session, err := snapshot.Restore()
			if session != nil {
				t.Fatalf("expected no session")
			}

			var decodeErr *DecodeError
			var mismatchErr *MineCountMismatchError
			switch test.kind {
			case decodeError:
				if !errors.As(err, &decodeErr) {
					t.Fatalf("expected DecodeError, got %T: %v", err, err)
				}
			case mismatchError:
				if !errors.As(err, &mismatchErr) {
					t.Fatalf("expected MineCountMismatchError, got %T: %v", err, err)
				}
			}
		})
	}
}
