package game

import "sort"

// Marks keeps the player's flags and question marks, each sorted row-major
// like Grid.MineLocations, so a win is a plain element-wise comparison.
type Marks struct {
	numMines   uint
	flagged    []Cell
	questioned []Cell
}

func NewMarks(numMines uint) *Marks {
	return &Marks{numMines: numMines}
}

// RemainingMineCount is the number of mines minus the number of flags. It
// goes negative when the player places more flags than there are mines.
func (marks *Marks) RemainingMineCount() int {
	return int(marks.numMines) - len(marks.flagged)
}

func (marks *Marks) Flagged() []Cell {
	return append([]Cell(nil), marks.flagged...)
}

func (marks *Marks) Questioned() []Cell {
	return append([]Cell(nil), marks.questioned...)
}

func (marks *Marks) IsFlagged(cell Cell) bool {
	_, found := search(marks.flagged, cell)
	return found
}

func (marks *Marks) IsQuestioned(cell Cell) bool {
	_, found := search(marks.questioned, cell)
	return found
}

// Flag inserts cell into the flagged list. The caller guarantees cell is not
// revealed.
func (marks *Marks) Flag(cell Cell) error {
	if marks.IsFlagged(cell) || marks.IsQuestioned(cell) {
		return ErrAlreadyMarked
	}
	marks.flagged = insert(marks.flagged, cell)
	return nil
}

// Unflag moves cell from the flagged list to the questioned list.
func (marks *Marks) Unflag(cell Cell) error {
	flagged, err := remove(marks.flagged, cell, Flagged)
	if err != nil {
		return err
	}
	marks.flagged = flagged
	marks.questioned = insert(marks.questioned, cell)
	return nil
}

func (marks *Marks) ClearQuestion(cell Cell) error {
	questioned, err := remove(marks.questioned, cell, Questioned)
	if err != nil {
		return err
	}
	marks.questioned = questioned
	return nil
}

// Drop removes whatever mark cell carries, if any. It reports whether a mark
// was removed.
func (marks *Marks) Drop(cell Cell) bool {
	if idx, found := search(marks.flagged, cell); found {
		marks.flagged = append(marks.flagged[:idx], marks.flagged[idx+1:]...)
		return true
	}
	if idx, found := search(marks.questioned, cell); found {
		marks.questioned = append(marks.questioned[:idx], marks.questioned[idx+1:]...)
		return true
	}
	return false
}

// CheckWin reports whether the flags are exactly the given sorted mine list
func (marks *Marks) CheckWin(mines []Cell) bool {
	if len(marks.flagged) != len(mines) {
		return false
	}
	for i, cell := range marks.flagged {
		if cell != mines[i] {
			return false
		}
	}
	return true
}

// search returns the position of cell in the sorted list, or where it would
// be inserted, and whether it is present.
func search(cells []Cell, cell Cell) (int, bool) {
	idx := sort.Search(len(cells), func(i int) bool {
		return !cells[i].Less(cell)
	})
	return idx, idx < len(cells) && cells[idx] == cell
}

func insert(cells []Cell, cell Cell) []Cell {
	idx, _ := search(cells, cell)
	cells = append(cells, Cell{})
	copy(cells[idx+1:], cells[idx:])
	cells[idx] = cell
	return cells
}

func remove(cells []Cell, cell Cell, kind MarkKind) ([]Cell, error) {
	idx, found := search(cells, cell)
	if !found {
		return cells, &MarkNotFoundError{Cell: cell, Kind: kind}
	}
	return append(cells[:idx], cells[idx+1:]...), nil
}
