// Package pathfinding implements A* routing across a battle map, respecting
// terrain costs and unit-type movement restrictions.
package pathfinding

import (
	"container/heap"
	"math"

	"github.com/nstehr/vimy-core/battlemap"
	"github.com/nstehr/vimy-core/hex"
)

type node struct {
	coord hex.Coord
	fCost float32
}

type openSet []node

func (s openSet) Len() int { return len(s) }

func (s openSet) Less(i, j int) bool { return s[i].fCost < s[j].fCost }

func (s openSet) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s *openSet) Push(x any) { *s = append(*s, x.(node)) }

func (s *openSet) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	*s = old[:n-1]
	return item
}

// FindPath runs A* from start to goal over m, returning the hex path
// (inclusive of both endpoints) or nil if no path exists. isCavalry
// restricts movement through terrain impassable to mounted units.
func FindPath(m *battlemap.Map, start, goal hex.Coord, isCavalry bool) []hex.Coord {
	if start == goal {
		return []hex.Coord{start}
	}

	open := &openSet{}
	heap.Init(open)
	cameFrom := make(map[hex.Coord]hex.Coord)
	gScores := make(map[hex.Coord]float32)

	gScores[start] = 0.0
	heap.Push(open, node{coord: start, fCost: float32(start.Distance(goal))})

	for open.Len() > 0 {
		current := heap.Pop(open).(node)

		if current.coord == goal {
			return reconstructPath(cameFrom, current.coord)
		}

		currentG, ok := gScores[current.coord]
		if !ok {
			currentG = float32(math.Inf(1))
		}

		for _, neighbor := range current.coord.Neighbors() {
			h := m.GetHex(neighbor)
			if h == nil {
				continue
			}

			if isCavalry && h.Terrain.ImpassableForCavalry() {
				continue
			}
			if !isCavalry && h.Terrain.ImpassableForInfantry() {
				continue
			}

			moveCost := h.TotalMovementCost()
			if math.IsInf(float64(moveCost), 1) {
				continue
			}

			tentativeG := currentG + moveCost
			neighborG, ok := gScores[neighbor]
			if !ok {
				neighborG = float32(math.Inf(1))
			}

			if tentativeG < neighborG {
				cameFrom[neighbor] = current.coord
				gScores[neighbor] = tentativeG
				fCost := tentativeG + float32(neighbor.Distance(goal))
				heap.Push(open, node{coord: neighbor, fCost: fCost})
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom map[hex.Coord]hex.Coord, current hex.Coord) []hex.Coord {
	path := []hex.Coord{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost sums the movement cost of every hex in path.
func PathCost(m *battlemap.Map, path []hex.Coord) float32 {
	var total float32
	for _, coord := range path {
		h := m.GetHex(coord)
		if h == nil {
			continue
		}
		total += h.TotalMovementCost()
	}
	return total
}
