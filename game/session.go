package game

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session exclusively owns one Grid and one Marks, and is the only place
// game events mutate them.
type Session struct {
	id uuid.UUID

	grid  *Grid
	marks *Marks

	elapsedTime uint // in whole seconds
	firstMove   bool
	inProgress  bool
	outcome     Outcome
}

func NewSession(config GridConfig) (*Session, error) {
	grid, err := NewGrid(config)
	if err != nil {
		return nil, err
	}
	return newSession(grid, NewMarks(config.NumMines)), nil
}

func newSession(grid *Grid, marks *Marks) *Session {
	return &Session{
		id:         uuid.New(),
		grid:       grid,
		marks:      marks,
		firstMove:  true,
		inProgress: true,
		outcome:    Ongoing,
	}
}

func (session *Session) ID() uuid.UUID {
	return session.id
}

func (session *Session) Grid() *Grid {
	return session.grid
}

func (session *Session) Marks() *Marks {
	return session.marks
}

func (session *Session) ElapsedTime() uint {
	return session.elapsedTime
}

func (session *Session) FirstMove() bool {
	return session.firstMove
}

func (session *Session) InProgress() bool {
	return session.inProgress
}

func (session *Session) Outcome() Outcome {
	return session.outcome
}

// CanSave reports whether a snapshot may be taken: after the first move and
// before the game ends.
func (session *Session) CanSave() bool {
	return !session.firstMove && session.inProgress
}

func (session *Session) logger() *logrus.Entry {
	return log.WithField("session", session.id)
}

// OnFirstReveal populates the grid around cell. It runs once per game.
func (session *Session) OnFirstReveal(cell Cell) error {
	if !session.firstMove {
		return ErrMinesPlaced
	}
	if err := session.grid.Populate(cell); err != nil {
		return err
	}
	session.firstMove = false

	session.logger().WithField("cell", cell).Debug("first reveal")
	return nil
}

// OnTick advances the clock by one second while the game is running
func (session *Session) OnTick() {
	if session.firstMove || !session.inProgress {
		return
	}
	session.elapsedTime++
}

// OnTerminal ends the game with outcome. Later calls keep the first outcome.
func (session *Session) OnTerminal(outcome Outcome) Outcome {
	if !session.inProgress {
		return session.outcome
	}
	session.inProgress = false
	session.outcome = outcome

	session.logger().WithFields(logrus.Fields{
		"outcome": outcome,
		"elapsed": session.elapsedTime,
	}).Debug("game ended")
	return outcome
}

func (session *Session) checkPlayable(cell Cell) error {
	if !session.inProgress {
		return ErrGameOver
	}
	if !session.grid.Contains(cell) {
		return ErrOutOfBounds
	}
	return nil
}

// Apply dispatches a move to the matching event handler
func (session *Session) Apply(move Move) (Outcome, error) {
	switch move.Action {
	case Click:
		return session.Reveal(move.Cell)
	case RightClick:
		return session.CycleMark(move.Cell)
	case MiddleClick:
		return session.Chord(move.Cell)
	case Flag:
		return session.Flag(move.Cell)
	}
	return session.outcome, nil
}

// Reveal handles a left click. The first one places the mines. Flagged and
// already revealed cells are left alone; a mine loses the game; an empty
// cell flood-reveals its surroundings.
func (session *Session) Reveal(cell Cell) (Outcome, error) {
	if err := session.checkPlayable(cell); err != nil {
		return session.outcome, err
	}
	if session.firstMove {
		if err := session.OnFirstReveal(cell); err != nil {
			return session.outcome, err
		}
	}
	return session.reveal(cell)
}

func (session *Session) reveal(cell Cell) (Outcome, error) {
	grid := session.grid
	if session.marks.IsFlagged(cell) || grid.IsRevealed(cell) {
		return session.outcome, nil
	}

	if grid.IsMine(cell) {
		if _, err := grid.Reveal(cell); err != nil {
			return session.outcome, err
		}
		session.marks.Drop(cell)
		return session.OnTerminal(Lost), nil
	}

	revealed, err := grid.floodReveal(cell, session.marks.IsFlagged)
	if err != nil {
		return session.outcome, err
	}
	for _, revealedCell := range revealed {
		session.marks.Drop(revealedCell)
	}
	return session.outcome, nil
}

// CycleMark handles a right click: unmarked -> flagged -> questioned ->
// unmarked.
func (session *Session) CycleMark(cell Cell) (Outcome, error) {
	if err := session.checkPlayable(cell); err != nil {
		return session.outcome, err
	}
	if session.grid.IsRevealed(cell) {
		return session.outcome, ErrCellRevealed
	}

	marks := session.marks
	var err error
	switch {
	case marks.IsFlagged(cell):
		err = marks.Unflag(cell)
	case marks.IsQuestioned(cell):
		err = marks.ClearQuestion(cell)
	default:
		err = marks.Flag(cell)
	}
	if err != nil {
		return session.outcome, err
	}
	return session.checkWin(), nil
}

// Flag flags cell whatever its current mark
func (session *Session) Flag(cell Cell) (Outcome, error) {
	if err := session.checkPlayable(cell); err != nil {
		return session.outcome, err
	}
	if session.grid.IsRevealed(cell) {
		return session.outcome, ErrCellRevealed
	}

	marks := session.marks
	if marks.IsFlagged(cell) {
		return session.outcome, nil
	}
	if marks.IsQuestioned(cell) {
		if err := marks.ClearQuestion(cell); err != nil {
			return session.outcome, err
		}
	}
	if err := marks.Flag(cell); err != nil {
		return session.outcome, err
	}
	return session.checkWin(), nil
}

func (session *Session) checkWin() Outcome {
	if session.grid.Populated() && session.marks.CheckWin(session.grid.mines) {
		return session.OnTerminal(Won)
	}
	return session.outcome
}

// Chord handles a middle click on a revealed hint: when as many neighbors
// are flagged as the hint says, every other hidden neighbor is revealed.
func (session *Session) Chord(cell Cell) (Outcome, error) {
	if err := session.checkPlayable(cell); err != nil {
		return session.outcome, err
	}

	grid := session.grid
	if !grid.IsRevealed(cell) || grid.IsMine(cell) {
		return session.outcome, nil
	}

	neighbors := grid.Neighbors(cell)
	numFlaggedNeighbors := Empty
	for _, neighbor := range neighbors {
		if session.marks.IsFlagged(neighbor) {
			numFlaggedNeighbors++
		}
	}
	if numFlaggedNeighbors != grid.Hint(cell) {
		return session.outcome, nil
	}

	for _, neighbor := range neighbors {
		outcome, err := session.reveal(neighbor)
		if err != nil || outcome != Ongoing {
			return outcome, err
		}
	}
	return session.outcome, nil
}
