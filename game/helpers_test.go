package game

import "testing"

// fixedGrid returns a populated grid with mines at the given cells
func fixedGrid(t *testing.T, height, width uint, mines ...Cell) *Grid {
	t.Helper()
	if err := validateDimensions(height, width, uint(len(mines))); err != nil {
		t.Fatalf("fixed grid: %v", err)
	}

	grid := newGrid(height, width, uint(len(mines)))
	grid.rand = newRand(1)
	grid.placeMinesAt(mines)
	grid.ComputeHints()
	return grid
}

// fixedSession returns a session past its first move, with mines at the
// given cells and nothing revealed
func fixedSession(t *testing.T, height, width uint, mines ...Cell) *Session {
	t.Helper()
	session := newSession(fixedGrid(t, height, width, mines...), NewMarks(uint(len(mines))))
	session.firstMove = false
	return session
}

func isStrictlySorted(cells []Cell) bool {
	for i := 1; i < len(cells); i++ {
		if !cells[i-1].Less(cells[i]) {
			return false
		}
	}
	return true
}

func sameCells(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
