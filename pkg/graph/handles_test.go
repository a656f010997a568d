package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestHandles(t *testing.T) {
	tests := []struct {
		name           string
		source, target Position
		expectedSource Handle
		expectedTarget Handle
	}{
		{"target to the right", Position{0, 0}, Position{200, 0}, HandleRight, HandleLeft},
		{"target to the left", Position{200, 0}, Position{0, 0}, HandleLeft, HandleRight},
		{"target below", Position{0, 0}, Position{0, 400}, HandleBottom, HandleTop},
		{"target above", Position{0, 400}, Position{0, 0}, HandleTop, HandleBottom},
		{"mostly right, slightly down", Position{0, 0}, Position{400, 50}, HandleRight, HandleLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, th := NearestHandles(tt.source, tt.target)
			assert.Equal(t, tt.expectedSource, sh)
			assert.Equal(t, tt.expectedTarget, th)
		})
	}
}

func TestNearestHandlesDeterministic(t *testing.T) {
	a, b := Position{0, 0}, Position{200, 0}
	sh, th := NearestHandles(a, b)
	for i := 0; i < 100; i++ {
		s, tg := NearestHandles(a, b)
		require.Equal(t, sh, s)
		require.Equal(t, th, tg)
	}
}

func TestRankHandlePairs(t *testing.T) {
	pairs := RankHandlePairs(Position{0, 0}, Position{200, 0})
	require.Len(t, pairs, 16)
	assert.InDelta(t, 20.0, pairs[0].Distance, 1e-9)
	for i := 1; i < len(pairs); i++ {
		assert.LessOrEqual(t, pairs[i-1].Distance, pairs[i].Distance)
	}
}

func TestRankHandlePairsTieKeepsIterationOrder(t *testing.T) {
	// Same center: left/left, right/right, top/top and bottom/bottom are all 0 apart.
	pairs := RankHandlePairs(Position{0, 0}, Position{0, 0})
	assert.Equal(t, HandlePair{Source: HandleLeft, Target: HandleLeft}, pairs[0])
	assert.Equal(t, HandlePair{Source: HandleRight, Target: HandleRight}, pairs[1])
}

func TestHandleAnchor(t *testing.T) {
	c := Position{X: 10, Y: 20}
	assert.Equal(t, Position{X: -80, Y: 20}, HandleLeft.Anchor(c))
	assert.Equal(t, Position{X: 100, Y: 20}, HandleRight.Anchor(c))
	assert.Equal(t, Position{X: 10, Y: -70}, HandleTop.Anchor(c))
	assert.Equal(t, Position{X: 10, Y: 110}, HandleBottom.Anchor(c))
	assert.False(t, Handle("middle").Valid())
}
