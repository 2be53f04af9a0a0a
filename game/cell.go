package game

import "fmt"

// Cell addresses one grid position. Cells order row-major: by Row, then Col.
type Cell struct {
	Row, Col uint
}

func (cell Cell) String() string {
	return fmt.Sprintf("Cell(%v, %v)", cell.Row, cell.Col)
}

// Less reports whether cell sorts before other
func (cell Cell) Less(other Cell) bool {
	if cell.Row != other.Row {
		return cell.Row < other.Row
	}
	return cell.Col < other.Col
}

// Move is a single player (or director) interaction with a cell
type Move struct {
	Cell   Cell
	Action Action
}

func (move Move) String() string {
	return fmt.Sprintf("%s %s", move.Action, move.Cell)
}

func (cell Cell) Click() Move {
	return Move{Cell: cell, Action: Click}
}

func (cell Cell) RightClick() Move {
	return Move{Cell: cell, Action: RightClick}
}

func (cell Cell) MiddleClick() Move {
	return Move{Cell: cell, Action: MiddleClick}
}

func (cell Cell) Flag() Move {
	return Move{Cell: cell, Action: Flag}
}
