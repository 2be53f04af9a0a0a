package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// HintRow is one grid row of cell values, e.g. "0,1,9,1".
type HintRow string

// RevealedRow is one grid row of revealed flags, e.g. "1,1,0,0".
type RevealedRow string

// CellPair is a "row,col" coordinate.
type CellPair string

// Snapshot is the flat, storable record of a game in progress.
type Snapshot struct {
	SessionID string `yaml:"session,omitempty"`

	Height         uint `yaml:"height"`
	Width          uint `yaml:"width"`
	NumMines       uint `yaml:"num_mines"`
	RemainingMines int  `yaml:"remaining_mines"`
	ElapsedTime    uint `yaml:"elapsed_time"`

	Minefield     []HintRow     `yaml:"minefield"`
	Revealed      []RevealedRow `yaml:"revealed"`
	MineLocations []CellPair    `yaml:"mine_locations"`
	Flagged       []CellPair    `yaml:"flagged"`
	Questioned    []CellPair    `yaml:"questioned"`
}

// Snapshot encodes the session for saving. Only games past their first move
// and not yet ended can be saved.
func (session *Session) Snapshot() (*Snapshot, error) {
	if !session.CanSave() {
		return nil, ErrNotSavable
	}
	return encodeSnapshot(session), nil
}

func encodeSnapshot(session *Session) *Snapshot {
	grid := session.grid
	snapshot := &Snapshot{
		SessionID:      session.id.String(),
		Height:         grid.height,
		Width:          grid.width,
		NumMines:       grid.numMines,
		RemainingMines: session.marks.RemainingMineCount(),
		ElapsedTime:    session.elapsedTime,
		Minefield:      make([]HintRow, grid.height),
		Revealed:       make([]RevealedRow, grid.height),
		MineLocations:  encodePairs(grid.mines),
		Flagged:        encodePairs(session.marks.flagged),
		Questioned:     encodePairs(session.marks.questioned),
	}

	for row := uint(0); row < grid.height; row++ {
		snapshot.Minefield[row] = encodeHintRow(grid.cells[row])
		snapshot.Revealed[row] = encodeRevealedRow(grid.revealed[row])
	}
	return snapshot
}

// Serialize renders the snapshot as YAML
func (snapshot *Snapshot) Serialize() ([]byte, error) {
	return yaml.Marshal(snapshot)
}

// snapshotRecord mirrors Snapshot with every field optional, so that a
// missing key can be told apart from a zero value.
type snapshotRecord struct {
	SessionID *string `yaml:"session"`

	Height         *uint `yaml:"height"`
	Width          *uint `yaml:"width"`
	NumMines       *uint `yaml:"num_mines"`
	RemainingMines *int  `yaml:"remaining_mines"`
	ElapsedTime    *uint `yaml:"elapsed_time"`

	Minefield     *[]HintRow     `yaml:"minefield"`
	Revealed      *[]RevealedRow `yaml:"revealed"`
	MineLocations *[]CellPair    `yaml:"mine_locations"`
	Flagged       *[]CellPair    `yaml:"flagged"`
	Questioned    *[]CellPair    `yaml:"questioned"`
}

// LoadSnapshot parses a YAML snapshot. Unknown keys and missing keys (other
// than the optional session id) are rejected with a *DecodeError.
func LoadSnapshot(in []byte) (*Snapshot, error) {
	var record snapshotRecord
	if err := yaml.UnmarshalStrict(in, &record); err != nil {
		return nil, &DecodeError{Field: "snapshot", Index: -1, Reason: "invalid yaml", Err: err}
	}

	required := []struct {
		field   string
		present bool
	}{
		{"height", record.Height != nil},
		{"width", record.Width != nil},
		{"num_mines", record.NumMines != nil},
		{"remaining_mines", record.RemainingMines != nil},
		{"elapsed_time", record.ElapsedTime != nil},
		{"minefield", record.Minefield != nil},
		{"revealed", record.Revealed != nil},
		{"mine_locations", record.MineLocations != nil},
		{"flagged", record.Flagged != nil},
		{"questioned", record.Questioned != nil},
	}
	for _, key := range required {
		if !key.present {
			return nil, &DecodeError{Field: key.field, Index: -1, Reason: "missing"}
		}
	}

	snapshot := &Snapshot{
		Height:         *record.Height,
		Width:          *record.Width,
		NumMines:       *record.NumMines,
		RemainingMines: *record.RemainingMines,
		ElapsedTime:    *record.ElapsedTime,
		Minefield:      *record.Minefield,
		Revealed:       *record.Revealed,
		MineLocations:  *record.MineLocations,
		Flagged:        *record.Flagged,
		Questioned:     *record.Questioned,
	}
	if record.SessionID != nil {
		snapshot.SessionID = *record.SessionID
	}
	return snapshot, nil
}

// Restore decodes the snapshot into a running session, keeping the saved
// session id when there is one. Any inconsistency, including a game that is
// already won, fails the whole decode with a *DecodeError or
// *MineCountMismatchError.
func (snapshot *Snapshot) Restore() (*Session, error) {
	height, width, numMines := snapshot.Height, snapshot.Width, snapshot.NumMines
	if err := validateDimensions(height, width, numMines); err != nil {
		return nil, &DecodeError{Field: "header", Index: -1, Reason: "invalid dimensions", Err: err}
	}

	id := uuid.New()
	if snapshot.SessionID != "" {
		parsed, err := uuid.Parse(snapshot.SessionID)
		if err != nil {
			return nil, &DecodeError{Field: "session", Index: -1, Reason: "invalid id", Err: err}
		}
		id = parsed
	}

	grid := newGrid(height, width, numMines)
	grid.rand = newRand(0)

	if err := snapshot.decodeMinefield(grid); err != nil {
		return nil, err
	}
	if err := snapshot.decodeRevealed(grid); err != nil {
		return nil, err
	}
	if err := snapshot.decodeMineLocations(grid); err != nil {
		return nil, err
	}
	if err := checkHints(grid); err != nil {
		return nil, err
	}

	marks, err := snapshot.decodeMarks(grid)
	if err != nil {
		return nil, err
	}
	if remaining := marks.RemainingMineCount(); remaining != snapshot.RemainingMines {
		return nil, &DecodeError{
			Field:  "remaining_mines",
			Index:  -1,
			Reason: fmt.Sprintf("is %d, flags leave %d", snapshot.RemainingMines, remaining),
		}
	}
	if marks.CheckWin(grid.mines) {
		return nil, &DecodeError{Field: "flagged", Index: -1, Reason: "flags cover every mine of a won game"}
	}

	session := newSession(grid, marks)
	session.id = id
	session.firstMove = false
	session.elapsedTime = snapshot.ElapsedTime
	return session, nil
}

func (snapshot *Snapshot) decodeMinefield(grid *Grid) error {
	if uint(len(snapshot.Minefield)) != grid.height {
		return &DecodeError{
			Field:  "minefield",
			Index:  -1,
			Reason: fmt.Sprintf("has %d rows, expected %d", len(snapshot.Minefield), grid.height),
		}
	}
	for row, encoded := range snapshot.Minefield {
		values, err := encoded.decode(grid.width)
		if err != nil {
			return &DecodeError{Field: "minefield", Index: row, Reason: "bad row", Err: err}
		}
		grid.cells[row] = values
	}
	return nil
}

func (snapshot *Snapshot) decodeRevealed(grid *Grid) error {
	if uint(len(snapshot.Revealed)) != grid.height {
		return &DecodeError{
			Field:  "revealed",
			Index:  -1,
			Reason: fmt.Sprintf("has %d rows, expected %d", len(snapshot.Revealed), grid.height),
		}
	}
	for row, encoded := range snapshot.Revealed {
		flags, err := encoded.decode(grid.width)
		if err != nil {
			return &DecodeError{Field: "revealed", Index: row, Reason: "bad row", Err: err}
		}
		grid.revealed[row] = flags
		for _, isRevealed := range flags {
			if isRevealed {
				grid.numRevealed++
			}
		}
	}
	return nil
}

func (snapshot *Snapshot) decodeMineLocations(grid *Grid) error {
	mines, err := decodePairs("mine_locations", snapshot.MineLocations, grid)
	if err != nil {
		return err
	}
	if uint(len(mines)) != grid.numMines {
		return &MineCountMismatchError{Field: "mine_locations", Expected: int(grid.numMines), Actual: len(mines)}
	}

	numMineCells := 0
	for _, cell := range grid.Cells() {
		if grid.cells[cell.Row][cell.Col] == Mine {
			numMineCells++
		}
	}
	if uint(numMineCells) != grid.numMines {
		return &MineCountMismatchError{Field: "minefield", Expected: int(grid.numMines), Actual: numMineCells}
	}

	for i, cell := range mines {
		if grid.cells[cell.Row][cell.Col] != Mine {
			return &DecodeError{Field: "mine_locations", Index: i, Reason: fmt.Sprintf("%s is not a mine in minefield", cell)}
		}
	}

	grid.mines = mines
	grid.populated = true
	return nil
}

func checkHints(grid *Grid) error {
	for _, cell := range grid.Cells() {
		value := grid.cells[cell.Row][cell.Col]
		if value == Mine {
			continue
		}
		if expected := grid.countMines(grid.Neighbors(cell)); value != expected {
			return &DecodeError{
				Field:  "minefield",
				Index:  int(cell.Row),
				Reason: fmt.Sprintf("hint at column %d is %d, neighbors hold %d mines", cell.Col, value, expected),
			}
		}
	}
	return nil
}

func (snapshot *Snapshot) decodeMarks(grid *Grid) (*Marks, error) {
	flagged, err := decodePairs("flagged", snapshot.Flagged, grid)
	if err != nil {
		return nil, err
	}
	questioned, err := decodePairs("questioned", snapshot.Questioned, grid)
	if err != nil {
		return nil, err
	}

	for i, cell := range flagged {
		if grid.IsRevealed(cell) {
			return nil, &DecodeError{Field: "flagged", Index: i, Reason: fmt.Sprintf("%s is revealed", cell)}
		}
	}
	for i, cell := range questioned {
		if grid.IsRevealed(cell) {
			return nil, &DecodeError{Field: "questioned", Index: i, Reason: fmt.Sprintf("%s is revealed", cell)}
		}
		if _, isFlagged := search(flagged, cell); isFlagged {
			return nil, &DecodeError{Field: "questioned", Index: i, Reason: fmt.Sprintf("%s is also flagged", cell)}
		}
	}

	marks := NewMarks(grid.numMines)
	marks.flagged = flagged
	marks.questioned = questioned
	return marks, nil
}

// decodePairs parses a strictly sorted list of in-bounds coordinates
func decodePairs(field string, pairs []CellPair, grid *Grid) ([]Cell, error) {
	cells := make([]Cell, 0, len(pairs))
	for i, pair := range pairs {
		cell, err := pair.decode()
		if err != nil {
			return nil, &DecodeError{Field: field, Index: i, Reason: "bad pair", Err: err}
		}
		if !grid.Contains(cell) {
			return nil, &MineCountMismatchError{Field: field, Cell: &cell}
		}
		if i > 0 && !cells[i-1].Less(cell) {
			return nil, &DecodeError{Field: field, Index: i, Reason: "not in strictly ascending order"}
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

func encodeHintRow(values []CellValue) HintRow {
	tokens := make([]string, len(values))
	for i, value := range values {
		tokens[i] = strconv.Itoa(int(value))
	}
	return HintRow(strings.Join(tokens, ","))
}

func (row HintRow) decode(width uint) ([]CellValue, error) {
	numbers, err := parseFields(string(row), int(width))
	if err != nil {
		return nil, err
	}
	values := make([]CellValue, width)
	for i, number := range numbers {
		if number > uint64(Mine) {
			return nil, fmt.Errorf("value %d out of range at column %d", number, i)
		}
		values[i] = CellValue(number)
	}
	return values, nil
}

func encodeRevealedRow(flags []bool) RevealedRow {
	tokens := make([]string, len(flags))
	for i, isRevealed := range flags {
		if isRevealed {
			tokens[i] = "1"
		} else {
			tokens[i] = "0"
		}
	}
	return RevealedRow(strings.Join(tokens, ","))
}

func (row RevealedRow) decode(width uint) ([]bool, error) {
	numbers, err := parseFields(string(row), int(width))
	if err != nil {
		return nil, err
	}
	flags := make([]bool, width)
	for i, number := range numbers {
		switch number {
		case 0:
		case 1:
			flags[i] = true
		default:
			return nil, fmt.Errorf("flag %d is neither 0 nor 1 at column %d", number, i)
		}
	}
	return flags, nil
}

func encodePairs(cells []Cell) []CellPair {
	pairs := make([]CellPair, len(cells))
	for i, cell := range cells {
		pairs[i] = CellPair(fmt.Sprintf("%d,%d", cell.Row, cell.Col))
	}
	return pairs
}

func (pair CellPair) decode() (Cell, error) {
	numbers, err := parseFields(string(pair), 2)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Row: uint(numbers[0]), Col: uint(numbers[1])}, nil
}

func parseFields(record string, count int) ([]uint64, error) {
	tokens := strings.Split(record, ",")
	if len(tokens) != count {
		return nil, fmt.Errorf("%d fields, expected %d", len(tokens), count)
	}

	numbers := make([]uint64, count)
	for i, token := range tokens {
		number, err := strconv.ParseUint(strings.TrimSpace(token), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("field %d: %q is not a non-negative integer", i, token)
		}
		numbers[i] = number
	}
	return numbers, nil
}
