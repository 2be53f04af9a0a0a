package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds   = errors.New("cell is outside the grid")
	ErrAlreadyMarked = errors.New("cell is already marked")
	ErrCellRevealed  = errors.New("cell is already revealed")
	ErrMinesPlaced   = errors.New("mines have already been placed")
	ErrGameOver      = errors.New("game is not in progress")
	ErrNotSavable    = errors.New("game cannot be saved before the first move or after it ended")
	ErrLoopStopped   = errors.New("game loop is stopped")
)

// ConfigurationError reports grid dimensions that cannot host a game.
type ConfigurationError struct {
	Height, Width, NumMines uint
	Reason                  string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid grid %dx%d with %d mines: %s", err.Height, err.Width, err.NumMines, err.Reason)
}

func validateDimensions(height, width, numMines uint) error {
	switch {
	case height == 0 || width == 0:
		return &ConfigurationError{height, width, numMines, "dimensions must be positive"}
	case numMines >= height*width:
		return &ConfigurationError{height, width, numMines, "mines must leave at least one free cell"}
	}
	return nil
}

type MarkKind int

const (
	Flagged MarkKind = iota
	Questioned
)

func (kind MarkKind) String() string {
	if kind == Questioned {
		return "questioned"
	}
	return "flagged"
}

// MarkNotFoundError is returned when removing a mark that was never placed.
type MarkNotFoundError struct {
	Cell Cell
	Kind MarkKind
}

func (err *MarkNotFoundError) Error() string {
	return fmt.Sprintf("%s is not %s", err.Cell, err.Kind)
}

// DecodeError reports a malformed snapshot record. Index is the row or pair
// position within Field, or -1 for scalar fields.
type DecodeError struct {
	Field  string
	Index  int
	Reason string
	Err    error
}

func (err *DecodeError) Error() string {
	location := err.Field
	if err.Index >= 0 {
		location = fmt.Sprintf("%s[%d]", err.Field, err.Index)
	}
	if err.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", location, err.Reason, err.Err)
	}
	return fmt.Sprintf("decode %s: %s", location, err.Reason)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

// MineCountMismatchError reports a snapshot whose mine or mark data
// contradicts its declared dimensions.
type MineCountMismatchError struct {
	Field            string
	Expected, Actual int
	Cell             *Cell
}

func (err *MineCountMismatchError) Error() string {
	if err.Cell != nil {
		return fmt.Sprintf("%s holds %s outside the grid", err.Field, err.Cell)
	}
	return fmt.Sprintf("%s holds %d cells, expected %d", err.Field, err.Actual, err.Expected)
}
