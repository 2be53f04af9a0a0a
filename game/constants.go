package game

// CellValue is the content of a grid cell: a hint count (0-8) or a mine.
type CellValue uint8

const (
	Empty CellValue = iota
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Mine
)

type Outcome int

const (
	Ongoing Outcome = iota
	Won
	Lost
)

func (outcome Outcome) String() string {
	switch outcome {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "ongoing"
	}
}

type Action int

const (
	Click Action = iota
	RightClick
	MiddleClick
	// Flag places a flag regardless of the current mark, used by directors
	Flag
)

func (action Action) String() string {
	switch action {
	case Click:
		return "click"
	case RightClick:
		return "right-click"
	case MiddleClick:
		return "middle-click"
	case Flag:
		return "flag"
	default:
		return "unknown"
	}
}
