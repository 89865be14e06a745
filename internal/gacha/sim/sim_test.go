package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeededRNG(1))
	require.NoError(t, err)
	assert.False(t, got)

	got, err = Draw(1, NewSeededRNG(1))
	require.NoError(t, err)
	assert.True(t, got)

	_, err = Draw(-0.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
	_, err = Draw(1.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
}

func TestPitySystemForcesHit(t *testing.T) {
	ps := NewPitySystem(10, NewSeededRNG(42))
	for i := 0; i < 9; i++ {
		hit, err := ps.Draw(0)
		require.NoError(t, err)
		require.False(t, hit, "draw %d", i)
	}
	hit, err := ps.Draw(0)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Zero(t, ps.Count)
}

func TestSoftPityRejectsBadConfig(t *testing.T) {
	_, err := NewSoftPitySystem(80, &SoftPity{StartAt: 79, TargetProb: 0.5}, nil)
	assert.ErrorIs(t, err, ErrSoftPityConfig)
	_, err = NewSoftPitySystem(80, &SoftPity{StartAt: 60, TargetProb: 1}, nil)
	assert.ErrorIs(t, err, ErrSoftPityConfig)
}

func TestSoftPityRamp(t *testing.T) {
	sp, err := NewSoftPitySystem(80, &SoftPity{StartAt: 60, TargetProb: 0.5}, NewSeededRNG(1))
	require.NoError(t, err)

	sp.Count = 10
	assert.Equal(t, 0.008, sp.effectiveProb(0.008))
	sp.Count = 79
	assert.Equal(t, 1.0, sp.effectiveProb(0.008))
	sp.Count = 70
	p := sp.effectiveProb(0.008)
	assert.Greater(t, p, 0.008)
	assert.Less(t, p, 0.5)
}

func TestBannerGuaranteeAfterOff(t *testing.T) {
	sp, err := NewSoftPitySystem(1, nil, NewSeededRNG(7))
	require.NoError(t, err)
	// every draw hits and every 50-50 is lost unless guaranteed
	b := NewBannerSystem(sp, []float64{0.999999}, 1)

	first, err := b.Draw(0)
	require.NoError(t, err)
	assert.True(t, first.Hit)
	assert.False(t, first.IsUp)
	assert.True(t, first.GuaranteedNext)

	second, err := b.Draw(0)
	require.NoError(t, err)
	assert.True(t, second.IsUp)
	assert.False(t, b.GuaranteedNext)
}

func TestRunMonteCarloHardPityOnly(t *testing.T) {
	stats, err := RunMonteCarlo(context.Background(), Params{PBase: 0, Pity: 80}, GoalGold, 3, 50, NewSeededRNG(3))
	require.NoError(t, err)
	assert.Equal(t, 80.0, stats.Mean)
	assert.Zero(t, stats.StdDev)
	assert.Equal(t, 0.5, stats.Luck(80))
	assert.Equal(t, 1.0, stats.Luck(10))
	assert.Equal(t, 0.0, stats.Luck(90))
}

func TestRunMonteCarloDeterministic(t *testing.T) {
	p := Params{PBase: 0.008, Pity: 80, Soft: &SoftPity{StartAt: 65, TargetProb: 0.6}, OffProbs: []float64{0.5}}
	a, err := RunMonteCarlo(context.Background(), p, GoalUp, 2, 200, NewSeededRNG(9))
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), p, GoalUp, 2, 200, NewSeededRNG(9))
	require.NoError(t, err)
	assert.Equal(t, a.Mean, b.Mean)
	assert.Greater(t, a.Mean, 40.0)
	assert.Less(t, a.Mean, 120.0)
}

func TestRunMonteCarloCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunMonteCarlo(ctx, Params{PBase: 0, Pity: 80}, GoalGold, 1_000_000, 1, NewSeededRNG(1))
	require.ErrorIs(t, err, context.Canceled)
}
