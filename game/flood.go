package game

import "github.com/gammazero/deque"

type neighborGetter func(Cell) []Cell

// visitor is called once per candidate cell and reports whether the flood
// should continue outward from it.
type visitor func(Cell) bool

// flood runs a breadth-first traversal from origin over an explicit work
// list. visit must mark cells so it never accepts the same cell twice.
func flood(origin Cell, visit visitor, getNeighbors neighborGetter) {
	var visitQueue deque.Deque[Cell]
	visitQueue.PushBack(origin)

	for visitQueue.Len() > 0 {
		cell := visitQueue.PopFront()

		for _, neighbor := range getNeighbors(cell) {
			if visit(neighbor) {
				visitQueue.PushBack(neighbor)
			}
		}
	}
}
