package syncclient

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	currentTime float64
	seeks       []float64
	plays       int
	pauses      int
}

func (p *fakePlayer) Play()                { p.plays++ }
func (p *fakePlayer) Pause()               { p.pauses++ }
func (p *fakePlayer) SeekTo(s float64)     { p.seeks = append(p.seeks, s); p.currentTime = s }
func (p *fakePlayer) CurrentTime() float64 { return p.currentTime }

func newTestReconciler(player *fakePlayer) *Reconciler {
	return NewReconciler(player, slog.Default())
}

func TestRemotePlayWithinTolerance(t *testing.T) {
	player := &fakePlayer{currentTime: 10.5}
	r := newTestReconciler(player)

	r.ApplyRemotePlay(12.0)

	assert.Empty(t, player.seeks, "drift of 1.5s must not reposition")
	assert.Equal(t, 1, player.plays)

	// the resulting native event is the echo of the instruction
	assert.False(t, r.OnNativePlay(), "echo must be suppressed")
	// the next native play is a genuine local action
	assert.True(t, r.OnNativePlay())
}

func TestRemotePlayAboveTolerance(t *testing.T) {
	player := &fakePlayer{currentTime: 0}
	r := newTestReconciler(player)

	r.ApplyRemotePlay(12.5)

	require.Equal(t, []float64{12.5}, player.seeks, "drift of 12.5s must reposition first")
	assert.Equal(t, 1, player.plays)
	assert.False(t, r.OnNativePlay())
}

func TestRemotePauseMatchingStateKeepsGuardClear(t *testing.T) {
	player := &fakePlayer{currentTime: 30}
	r := newTestReconciler(player)

	// player is already paused, so the verb is redundant
	r.ApplyRemotePause(30.5)

	assert.Zero(t, player.pauses)
	assert.Empty(t, player.seeks)
	// the guard was never armed, a later local pause must be emitted
	assert.True(t, r.OnNativePause())
}

func TestRemoteSeekDoesNotChangeVerb(t *testing.T) {
	player := &fakePlayer{currentTime: 5}
	r := newTestReconciler(player)

	r.ApplyRemoteSeek(120)

	assert.Equal(t, []float64{120}, player.seeks)
	assert.Zero(t, player.plays)
	assert.Zero(t, player.pauses)
	assert.True(t, r.OnNativePlay(), "seek must not arm the guard")
}

func TestRemoteEventsQueueWhileApplying(t *testing.T) {
	player := &fakePlayer{currentTime: 0}
	r := newTestReconciler(player)

	r.ApplyRemotePlay(100)
	require.Equal(t, 1, player.plays)

	// these arrive before the widget confirms the play
	r.ApplyRemoteSeek(200)
	r.ApplyRemotePause(201)
	assert.Equal(t, []float64{100}, player.seeks, "queued events must not interleave")
	assert.Zero(t, player.pauses)

	// widget confirms: echo suppressed, then the queue drains in order
	assert.False(t, r.OnNativePlay())
	assert.Equal(t, []float64{100, 200}, player.seeks)
	assert.Equal(t, 1, player.pauses)

	assert.False(t, r.OnNativePause(), "drained pause echo must be suppressed too")
	assert.True(t, r.OnNativePause(), "guard must be clear after the queue empties")
}

func TestBootstrapPlaying(t *testing.T) {
	player := &fakePlayer{currentTime: 0}
	r := newTestReconciler(player)

	r.Bootstrap(Snapshot{IsPlaying: true, CurrentTime: 42})

	assert.Equal(t, []float64{42}, player.seeks)
	assert.Equal(t, 1, player.plays)
	assert.False(t, r.OnNativePlay())
}

func TestBootstrapPaused(t *testing.T) {
	player := &fakePlayer{currentTime: 0}
	r := newTestReconciler(player)

	r.Bootstrap(Snapshot{IsPlaying: false, CurrentTime: 42})

	assert.Equal(t, []float64{42}, player.seeks)
	assert.Zero(t, player.plays)
}

func TestBootstrapAppliesOnce(t *testing.T) {
	player := &fakePlayer{currentTime: 0}
	r := newTestReconciler(player)

	r.Bootstrap(Snapshot{IsPlaying: false, CurrentTime: 42})
	r.Bootstrap(Snapshot{IsPlaying: true, CurrentTime: 99})

	assert.Equal(t, []float64{42}, player.seeks)
	assert.Zero(t, player.plays)
}

// There is no position heartbeat: between discrete events both sides
// free-run, so nothing corrects drift until the next play, pause or seek.
func TestNoCorrectionBetweenEvents(t *testing.T) {
	player := &fakePlayer{currentTime: 10}
	r := newTestReconciler(player)

	r.ApplyRemotePlay(10.5)
	assert.False(t, r.OnNativePlay())
	seeksAfterPlay := len(player.seeks)

	// local playback drifts well past the tolerance
	player.currentTime = 60

	assert.Len(t, player.seeks, seeksAfterPlay, "no event, no correction")

	// the next remote event forces the correction
	r.ApplyRemotePause(20)
	assert.Equal(t, float64(20), player.seeks[len(player.seeks)-1])
}

func TestRedundantRemotePlay(t *testing.T) {
	player := &fakePlayer{currentTime: 10}
	r := newTestReconciler(player)

	// a genuine local play, reported and emitted
	assert.True(t, r.OnNativePlay())

	// remote play while already playing and in tolerance: nothing to do
	r.ApplyRemotePlay(11)
	assert.Zero(t, player.plays)
	assert.True(t, r.OnNativePause(), "guard must not have been armed")
}
