package pathfind

import "github.com/talgya/landmass/internal/grid"

type frontierItem struct {
	tile     grid.Coord
	priority float64
}

// less orders by priority, then y, then x.
func (a frontierItem) less(b frontierItem) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.tile.Y != b.tile.Y {
		return a.tile.Y < b.tile.Y
	}
	return a.tile.X < b.tile.X
}

// frontierQueue is a min-heap for container/heap.
type frontierQueue []frontierItem

func (q frontierQueue) Len() int { return len(q) }

func (q frontierQueue) Less(i, j int) bool { return q[i].less(q[j]) }

func (q frontierQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontierQueue) Push(x any) {
	*q = append(*q, x.(frontierItem))
}

func (q *frontierQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
