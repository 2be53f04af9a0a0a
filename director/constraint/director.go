package constraint

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/director/random"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/util/collections"
)

var log = logrus.WithField("pkg", "director/constraint")

// Director deduces safe cells and mines from revealed hints, guesses the
// least likely mine when stuck, and falls back to random clicks.
type Director struct {
	session *game.Session
	random  *random.Director
}

func New(seed int64) *Director {
	return &Director{random: random.New(seed)}
}

// Observation states that numMines of cells are mines
type Observation struct {
	origin   *game.Cell
	numMines int
	cells    collections.Set[game.Cell]
}

func (observation Observation) String() string {
	cells := sortedCells(observation.cells)
	cellsRepr := make([]string, len(cells))
	for i, cell := range cells {
		cellsRepr[i] = fmt.Sprintf("(%d, %d)", cell.Row, cell.Col)
	}

	originRepr := "?"
	if observation.origin != nil {
		originRepr = fmt.Sprintf("(%d, %d)", observation.origin.Row, observation.origin.Col)
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, strings.Join(cellsRepr, ", "))
}

func (observation Observation) MineProbability() float32 {
	return float32(observation.numMines) / float32(len(observation.cells))
}

func (director *Director) Init(session *game.Session) {
	if director.random == nil {
		director.random = random.New(0)
	}
	director.session = session
	director.random.Init(session)
}

func (director *Director) Act() []game.Move {
	if director.session.FirstMove() {
		return director.random.Act()
	}

	observations := director.observe()

	actors := []func([]*Observation) []game.Move{
		director.actDeliberate,
		func(observations []*Observation) []game.Move {
			return director.actDeliberate(simplify(observations))
		},
		director.actExhaustive,
		director.actLowestProbability,
	}
	for _, actor := range actors {
		if moves := actor(observations); len(moves) > 0 {
			return moves
		}
	}

	return director.random.Act()
}

func (director *Director) End() {
	director.random.End()
	director.session = nil
}

// observe builds one observation per revealed hint that still touches hidden,
// unflagged cells
func (director *Director) observe() []*Observation {
	grid, marks := director.session.Grid(), director.session.Marks()

	var observations []*Observation
	for _, cell := range grid.Cells() {
		if !grid.IsRevealed(cell) || grid.IsMine(cell) || grid.Hint(cell) == game.Empty {
			continue
		}

		origin := cell
		observation := &Observation{
			origin:   &origin,
			numMines: int(grid.Hint(cell)),
			cells:    make(collections.Set[game.Cell]),
		}
		for _, neighbor := range grid.Neighbors(cell) {
			switch {
			case grid.IsRevealed(neighbor):
			case marks.IsFlagged(neighbor):
				observation.numMines--
			default:
				observation.cells.Add(neighbor)
			}
		}

		if observation.cells.Len() > 0 {
			observations = append(observations, observation)
		}
	}
	return observations
}

func (director *Director) actDeliberate(observations []*Observation) []game.Move {
	mines := make(collections.Set[game.Cell])
	safe := make(collections.Set[game.Cell])

	for _, observation := range observations {
		switch observation.numMines {
		case observation.cells.Len():
			for cell := range observation.cells {
				mines.Add(cell)
			}
		case 0:
			for cell := range observation.cells {
				safe.Add(cell)
			}
		}
	}

	var moves []game.Move
	for _, cell := range sortedCells(safe) {
		moves = append(moves, cell.Click())
	}
	for _, cell := range sortedCells(mines.Difference(safe)) {
		moves = append(moves, cell.Flag())
	}

	if len(moves) > 0 {
		log.WithFields(logrus.Fields{
			"safe":  safe.Len(),
			"mines": mines.Len(),
		}).Debug("deliberate moves")
	}
	return moves
}

// actExhaustive settles the endgame: when the unflagged mines equal the
// hidden, unflagged cells, every one of them is a mine; when no mines remain,
// every one is safe.
func (director *Director) actExhaustive(_ []*Observation) []game.Move {
	grid, marks := director.session.Grid(), director.session.Marks()

	var unknown []game.Cell
	for _, cell := range grid.Cells() {
		if !grid.IsRevealed(cell) && !marks.IsFlagged(cell) {
			unknown = append(unknown, cell)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	var moves []game.Move
	switch marks.RemainingMineCount() {
	case len(unknown):
		for _, cell := range unknown {
			moves = append(moves, cell.Flag())
		}
	case 0:
		for _, cell := range unknown {
			moves = append(moves, cell.Click())
		}
	}
	return moves
}

func (director *Director) actLowestProbability(observations []*Observation) []game.Move {
	lowestProbability := float32(math.Inf(1))
	cellProbabilities := make(map[game.Cell]float32)

	for _, observation := range observations {
		probability := observation.MineProbability()

		for cell := range observation.cells {
			pastProbability, hasPastProbability := cellProbabilities[cell]
			if !hasPastProbability || probability < pastProbability {
				cellProbabilities[cell] = probability
			}
			if probability < lowestProbability {
				lowestProbability = probability
			}
		}
	}

	if len(cellProbabilities) == 0 {
		return nil
	}

	lowestProbabilityCells := make(collections.Set[game.Cell])
	for cell, probability := range cellProbabilities {
		if probability <= lowestProbability {
			lowestProbabilityCells.Add(cell)
		}
	}

	candidates := sortedCells(lowestProbabilityCells)
	director.random.Rand().Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	log.WithFields(logrus.Fields{
		"probability": lowestProbability,
		"candidates":  len(candidates),
	}).Debug("guessing")

	return []game.Move{candidates[0].Click()}
}

// simplify derives new observations from pairs where one observation's cells
// are a subset of another's: the difference holds the difference in mines.
func simplify(observations []*Observation) []*Observation {
	derived := append([]*Observation(nil), observations...)

	for _, observation := range observations {
		for _, other := range observations {
			if observation == other || observation.cells.Len() >= other.cells.Len() {
				continue
			}
			if !observation.cells.IsSubsetOf(other.cells) {
				continue
			}

			splitObs := &Observation{
				numMines: other.numMines - observation.numMines,
				cells:    other.cells.Difference(observation.cells),
			}
			if !containsObservation(derived, splitObs) {
				derived = append(derived, splitObs)
			}
		}
	}
	return derived
}

func containsObservation(observations []*Observation, observation *Observation) bool {
	for _, other := range observations {
		if other.numMines == observation.numMines && other.cells.Equal(observation.cells) {
			return true
		}
	}
	return false
}

func sortedCells(set collections.Set[game.Cell]) []game.Cell {
	cells := set.Slice()
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Less(cells[j])
	})
	return cells
}
