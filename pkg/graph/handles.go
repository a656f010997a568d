package graph

import (
	"math"
	"sort"
)

// Handle is one of the four fixed connection points on a node.
type Handle string

const (
	HandleLeft   Handle = "left"
	HandleRight  Handle = "right"
	HandleTop    Handle = "top"
	HandleBottom Handle = "bottom"
)

// HandleOffset is the distance from a node's center to each handle anchor.
const HandleOffset = 90.0

// Handles lists every handle in inference iteration order.
var Handles = []Handle{HandleLeft, HandleRight, HandleTop, HandleBottom}

func (h Handle) Valid() bool {
	switch h {
	case HandleLeft, HandleRight, HandleTop, HandleBottom:
		return true
	}
	return false
}

// Anchor returns the handle's anchor point for a node centered at center.
func (h Handle) Anchor(center Position) Position {
	switch h {
	case HandleLeft:
		return Position{X: center.X - HandleOffset, Y: center.Y}
	case HandleRight:
		return Position{X: center.X + HandleOffset, Y: center.Y}
	case HandleTop:
		return Position{X: center.X, Y: center.Y - HandleOffset}
	case HandleBottom:
		return Position{X: center.X, Y: center.Y + HandleOffset}
	}
	return center
}

// HandlePair is a candidate (source, target) handle choice.
type HandlePair struct {
	Source   Handle
	Target   Handle
	Distance float64
}

// RankHandlePairs returns all 16 source/target handle pairs ordered by the
// distance between their anchors. Equal distances keep iteration order
// (source handle major, target handle minor).
func RankHandlePairs(source, target Position) []HandlePair {
	pairs := make([]HandlePair, 0, len(Handles)*len(Handles))
	for _, sh := range Handles {
		sa := sh.Anchor(source)
		for _, th := range Handles {
			ta := th.Anchor(target)
			pairs = append(pairs, HandlePair{
				Source:   sh,
				Target:   th,
				Distance: math.Hypot(ta.X-sa.X, ta.Y-sa.Y),
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Distance < pairs[j].Distance
	})
	return pairs
}

// NearestHandles returns the closest handle pair between two node centers.
func NearestHandles(source, target Position) (Handle, Handle) {
	best := RankHandlePairs(source, target)[0]
	return best.Source, best.Target
}
