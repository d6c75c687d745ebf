package signal

import (
	"math"
	"sync"
)

// Interpretation defines how channels are mapped when number of channels
// changes.
type Interpretation int

const (
	// Speakers uses standard layouts for mono, stereo, quad and 5.1 and
	// falls back to Discrete for the rest.
	Speakers Interpretation = iota
	// Discrete maps channel i to channel i. Up-mix fills extra channels
	// with silence, down-mix drops channels that don't fit.
	Discrete
)

// Standard speaker layouts.
const (
	Mono      = 1
	Stereo    = 2
	Quad      = 4
	Surround6 = 6
)

// Channel positions in speaker layouts.
const (
	left = iota
	right
	center
	lfe
	surroundLeft
	surroundRight
)

// Quad layout positions.
const (
	quadLeft = iota
	quadRight
	quadSurroundLeft
	quadSurroundRight
)

var sqrtHalf = math.Sqrt(0.5)

type matrixKey struct {
	interpretation Interpretation
	from           int
	to             int
}

var matrices = struct {
	sync.RWMutex
	m map[matrixKey][][]float64
}{
	m: map[matrixKey][][]float64{},
}

// Matrix returns gains to mix a signal with from channels into to channels.
// Result has to rows, each row has from columns. Matrices are cached
// internally, returned value must not be modified.
func Matrix(interpretation Interpretation, from, to int) [][]float64 {
	key := matrixKey{interpretation: interpretation, from: from, to: to}
	matrices.RLock()
	m, ok := matrices.m[key]
	matrices.RUnlock()
	if ok {
		return m
	}

	matrices.Lock()
	defer matrices.Unlock()
	if m, ok := matrices.m[key]; ok {
		return m
	}
	m = newMatrix(interpretation, from, to)
	matrices.m[key] = m
	return m
}

func newMatrix(interpretation Interpretation, from, to int) [][]float64 {
	m := make([][]float64, to)
	for i := range m {
		m[i] = make([]float64, from)
	}
	if interpretation == Speakers && isLayout(from) && isLayout(to) && from != to {
		speakers(m, from, to)
		return m
	}
	for i := 0; i < from && i < to; i++ {
		m[i][i] = 1
	}
	return m
}

func isLayout(n int) bool {
	switch n {
	case Mono, Stereo, Quad, Surround6:
		return true
	}
	return false
}

// speakers fills matrix with gains of standard up-mix and down-mix rules.
func speakers(m [][]float64, from, to int) {
	switch from {
	case Mono:
		switch to {
		case Stereo, Quad:
			m[left][0] = 1
			m[right][0] = 1
		case Surround6:
			m[center][0] = 1
		}
	case Stereo:
		switch to {
		case Mono:
			m[0][left] = 0.5
			m[0][right] = 0.5
		case Quad, Surround6:
			m[left][left] = 1
			m[right][right] = 1
		}
	case Quad:
		switch to {
		case Mono:
			for i := range m[0] {
				m[0][i] = 0.25
			}
		case Stereo:
			m[left][quadLeft] = 0.5
			m[left][quadSurroundLeft] = 0.5
			m[right][quadRight] = 0.5
			m[right][quadSurroundRight] = 0.5
		case Surround6:
			m[left][quadLeft] = 1
			m[right][quadRight] = 1
			m[surroundLeft][quadSurroundLeft] = 1
			m[surroundRight][quadSurroundRight] = 1
		}
	case Surround6:
		switch to {
		case Mono:
			m[0][left] = sqrtHalf
			m[0][right] = sqrtHalf
			m[0][center] = 1
			m[0][surroundLeft] = 0.5
			m[0][surroundRight] = 0.5
		case Stereo:
			m[left][left] = 1
			m[left][center] = sqrtHalf
			m[left][surroundLeft] = sqrtHalf
			m[right][right] = 1
			m[right][center] = sqrtHalf
			m[right][surroundRight] = sqrtHalf
		case Quad:
			m[quadLeft][left] = 1
			m[quadLeft][center] = sqrtHalf
			m[quadRight][right] = 1
			m[quadRight][center] = sqrtHalf
			m[quadSurroundLeft][surroundLeft] = 1
			m[quadSurroundRight][surroundRight] = 1
		}
	}
}
