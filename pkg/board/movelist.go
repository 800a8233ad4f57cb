package board

import (
	"container/heap"
	"fmt"
)

// MoveList is a move priority queue for move ordering during search: the
// move picker stages TT move, killers, then history-ordered remainder by
// pushing moves in with a priority function and draining highest-first.
// Grounded on the same container/heap technique the teacher uses for its
// own chess MoveList.
type MoveList struct {
	h moveHeap
}

// NewMoveList returns a new move list ordered highest-score first. Ties
// preserve insertion order.
func NewMoveList(moves []ScoredMove) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m.Move, val: m.Score, seq: i}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next returns the next move, the highest-priority move remaining.
func (ml *MoveList) Next() (Move, bool) {
	if ml.Size() == 0 {
		return Move(0), false
	}
	e := heap.Pop(&ml.h).(elm)
	return e.m, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   Move
	val int16
	seq int
}

type moveHeap []elm

func (h moveHeap) Len() int { return len(h) }

func (h moveHeap) Less(i, j int) bool {
	if h[i].val != h[j].val {
		return h[i].val > h[j].val
	}
	return h[i].seq < h[j].seq
}

func (h moveHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *moveHeap) Push(x interface{}) {
	*h = append(*h, x.(elm))
}

func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
