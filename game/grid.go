package game

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("pkg", "game")

type GridConfig struct {
	Height, Width uint // in number of cells
	NumMines      uint

	// Seed for mine placement; zero seeds from the clock
	Seed int64
}

// Grid owns the mine layout, hint numbers and revealed flags of one game.
// Mines are placed lazily, on the first reveal, so the opening cell is never
// a mine.
type Grid struct {
	height, width uint
	numMines      uint

	cells    [][]CellValue
	revealed [][]bool

	// sorted row-major, len == numMines once populated
	mines       []Cell
	populated   bool
	numRevealed uint

	rand *rand.Rand
}

// NewGrid returns an unpopulated grid. It fails with a *ConfigurationError
// when the dimensions are empty or leave no mine-free cell.
func NewGrid(config GridConfig) (*Grid, error) {
	if err := validateDimensions(config.Height, config.Width, config.NumMines); err != nil {
		return nil, err
	}

	grid := newGrid(config.Height, config.Width, config.NumMines)
	grid.rand = newRand(config.Seed)
	return grid, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newGrid(height, width, numMines uint) *Grid {
	grid := &Grid{
		height:   height,
		width:    width,
		numMines: numMines,
		cells:    make([][]CellValue, height),
		revealed: make([][]bool, height),
	}
	for row := uint(0); row < height; row++ {
		grid.cells[row] = make([]CellValue, width)
		grid.revealed[row] = make([]bool, width)
	}
	return grid
}

func (grid *Grid) Height() uint {
	return grid.height
}

func (grid *Grid) Width() uint {
	return grid.width
}

func (grid *Grid) NumMines() uint {
	return grid.numMines
}

func (grid *Grid) NumCells() uint {
	return grid.height * grid.width
}

func (grid *Grid) NumRevealed() uint {
	return grid.numRevealed
}

// Populated reports whether mines have been placed and hints computed
func (grid *Grid) Populated() bool {
	return grid.populated
}

func (grid *Grid) Contains(cell Cell) bool {
	return cell.Row < grid.height && cell.Col < grid.width
}

// Cells returns every cell of the grid in row-major order
func (grid *Grid) Cells() []Cell {
	cells := make([]Cell, 0, grid.NumCells())
	for row := uint(0); row < grid.height; row++ {
		for col := uint(0); col < grid.width; col++ {
			cells = append(cells, Cell{row, col})
		}
	}
	return cells
}

// Neighbors returns the up to 8 cells touching cell, in row-major order.
func (grid *Grid) Neighbors(cell Cell) []Cell {
	neighbors := make([]Cell, 0, 8)

	isAtTopBorder := cell.Row < 1
	isAtBottomBorder := cell.Row >= grid.height-1
	isAtLeftBorder := cell.Col < 1
	isAtRightBorder := cell.Col >= grid.width-1

	if !isAtTopBorder {
		if !isAtLeftBorder {
			neighbors = append(neighbors, Cell{cell.Row - 1, cell.Col - 1})
		}
		neighbors = append(neighbors, Cell{cell.Row - 1, cell.Col})
		if !isAtRightBorder {
			neighbors = append(neighbors, Cell{cell.Row - 1, cell.Col + 1})
		}
	}

	if !isAtLeftBorder {
		neighbors = append(neighbors, Cell{cell.Row, cell.Col - 1})
	}
	if !isAtRightBorder {
		neighbors = append(neighbors, Cell{cell.Row, cell.Col + 1})
	}

	if !isAtBottomBorder {
		if !isAtLeftBorder {
			neighbors = append(neighbors, Cell{cell.Row + 1, cell.Col - 1})
		}
		neighbors = append(neighbors, Cell{cell.Row + 1, cell.Col})
		if !isAtRightBorder {
			neighbors = append(neighbors, Cell{cell.Row + 1, cell.Col + 1})
		}
	}

	return neighbors
}

// Populate places the mines away from excluded and computes every hint.
func (grid *Grid) Populate(excluded Cell) error {
	if err := grid.PlaceMines(excluded); err != nil {
		return err
	}
	grid.ComputeHints()
	return nil
}

// PlaceMines picks numMines distinct cells other than excluded by rejection
// sampling. It may only run once per grid.
func (grid *Grid) PlaceMines(excluded Cell) error {
	if grid.populated {
		return ErrMinesPlaced
	}
	if !grid.Contains(excluded) {
		return ErrOutOfBounds
	}

	mines := make([]Cell, 0, grid.numMines)
	for uint(len(mines)) < grid.numMines {
		cell := Cell{
			Row: uint(grid.rand.Intn(int(grid.height))),
			Col: uint(grid.rand.Intn(int(grid.width))),
		}
		if cell == excluded || grid.cells[cell.Row][cell.Col] == Mine {
			continue
		}

		grid.cells[cell.Row][cell.Col] = Mine
		mines = append(mines, cell)
	}

	grid.setMineLocations(mines)

	log.WithFields(logrus.Fields{
		"height":   grid.height,
		"width":    grid.width,
		"mines":    grid.numMines,
		"excluded": excluded,
	}).Debug("placed mines")

	return nil
}

// placeMinesAt lays out mines at fixed cells, for restored games and tests
func (grid *Grid) placeMinesAt(mines []Cell) {
	for _, cell := range mines {
		grid.cells[cell.Row][cell.Col] = Mine
	}
	grid.setMineLocations(append([]Cell(nil), mines...))
}

func (grid *Grid) setMineLocations(mines []Cell) {
	sort.Slice(mines, func(i, j int) bool {
		return mines[i].Less(mines[j])
	})
	grid.mines = mines
	grid.populated = true
}

// ComputeHints stores, for every non-mine cell, the number of adjacent mines.
func (grid *Grid) ComputeHints() {
	for _, cell := range grid.Cells() {
		if grid.cells[cell.Row][cell.Col] == Mine {
			continue
		}
		grid.cells[cell.Row][cell.Col] = grid.countMines(grid.Neighbors(cell))
	}
}

func (grid *Grid) countMines(cells []Cell) CellValue {
	count := Empty
	for _, cell := range cells {
		if grid.cells[cell.Row][cell.Col] == Mine {
			count++
		}
	}
	return count
}

// MineLocations returns a copy of the sorted mine positions
func (grid *Grid) MineLocations() []Cell {
	return append([]Cell(nil), grid.mines...)
}

func (grid *Grid) IsMine(cell Cell) bool {
	return grid.Contains(cell) && grid.cells[cell.Row][cell.Col] == Mine
}

// Hint returns the adjacent mine count of cell, or Mine. Cells outside the
// grid read as Empty.
func (grid *Grid) Hint(cell Cell) CellValue {
	if !grid.Contains(cell) {
		return Empty
	}
	return grid.cells[cell.Row][cell.Col]
}

func (grid *Grid) IsRevealed(cell Cell) bool {
	return grid.Contains(cell) && grid.revealed[cell.Row][cell.Col]
}

// Reveal uncovers a single cell, without cascading. It reports whether the
// cell was previously hidden.
func (grid *Grid) Reveal(cell Cell) (bool, error) {
	if !grid.Contains(cell) {
		return false, ErrOutOfBounds
	}
	if grid.revealed[cell.Row][cell.Col] {
		return false, nil
	}

	grid.revealed[cell.Row][cell.Col] = true
	grid.numRevealed++
	return true, nil
}

// FloodReveal uncovers cell and, when it holds no adjacent mines, cascades
// through its neighbors, continuing from every empty cell reached. Called on
// a hint cell it reveals only that cell, never its neighbors. It returns the
// newly revealed cells in visit order.
func (grid *Grid) FloodReveal(cell Cell) ([]Cell, error) {
	return grid.floodReveal(cell, nil)
}

// floodReveal is FloodReveal leaving alone any cell for which skip is true
func (grid *Grid) floodReveal(origin Cell, skip func(Cell) bool) ([]Cell, error) {
	if !grid.Contains(origin) {
		return nil, ErrOutOfBounds
	}

	var revealed []Cell
	visit := func(cell Cell) bool {
		if grid.revealed[cell.Row][cell.Col] || (skip != nil && skip(cell)) {
			return false
		}
		grid.Reveal(cell)
		revealed = append(revealed, cell)
		return grid.cells[cell.Row][cell.Col] == Empty
	}

	isOriginRevealed := grid.revealed[origin.Row][origin.Col]
	if !isOriginRevealed && !visit(origin) {
		return revealed, nil
	}
	if grid.cells[origin.Row][origin.Col] != Empty {
		return revealed, nil
	}

	flood(origin, visit, grid.Neighbors)
	return revealed, nil
}

// String dumps the grid as seen by the player: '#' hidden, '.' empty, digits
// for hints and '*' for a revealed mine.
func (grid *Grid) String() string {
	var out strings.Builder
	for row := uint(0); row < grid.height; row++ {
		for col := uint(0); col < grid.width; col++ {
			out.WriteByte(grid.glyph(Cell{row, col}))
		}
		out.WriteByte('\n')
	}
	return out.String()
}

func (grid *Grid) glyph(cell Cell) byte {
	switch value := grid.cells[cell.Row][cell.Col]; {
	case !grid.revealed[cell.Row][cell.Col]:
		return '#'
	case value == Mine:
		return '*'
	case value == Empty:
		return '.'
	default:
		return byte('0' + value)
	}
}
