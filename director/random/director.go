package random

import (
	"math/rand"
	"time"

	"github.com/they4kman/minefield/game"
)

// Director clicks hidden, unflagged cells in a shuffled order
type Director struct {
	session *game.Session
	rand    *rand.Rand
	cells   []game.Cell
}

// New returns a director shuffling with seed; zero seeds from the clock
func New(seed int64) *Director {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Director{rand: rand.New(rand.NewSource(seed))}
}

func (director *Director) Init(session *game.Session) {
	if director.rand == nil {
		director.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	director.session = session
	director.cells = session.Grid().Cells()
	director.rand.Shuffle(len(director.cells), func(i, j int) {
		director.cells[i], director.cells[j] = director.cells[j], director.cells[i]
	})
}

func (director *Director) Act() []game.Move {
	grid, marks := director.session.Grid(), director.session.Marks()

	for _, cell := range director.cells {
		if !grid.IsRevealed(cell) && !marks.IsFlagged(cell) {
			return []game.Move{cell.Click()}
		}
	}
	return nil
}

// Rand exposes the director's source, for callers breaking ties the same way
func (director *Director) Rand() *rand.Rand {
	return director.rand
}

func (director *Director) End() {
	director.session = nil
	director.cells = nil
}
