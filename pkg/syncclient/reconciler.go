package syncclient

import (
	"log/slog"
	"math"
	"sync"
)

// DriftTolerance is the maximum allowed divergence, in seconds, between
// local playback and the authoritative time carried by a remote event.
// Within the tolerance the verb is applied without repositioning, so small
// clock skew does not cause visible jitter.
const DriftTolerance = 2.0

type guardState int

const (
	stateIdle guardState = iota
	stateApplyingRemote
)

type eventKind int

const (
	eventPlay eventKind = iota
	eventPause
	eventSeek
)

func (k eventKind) String() string {
	switch k {
	case eventPlay:
		return "play"
	case eventPause:
		return "pause"
	case eventSeek:
		return "seek"
	}

	return "unknown"
}

type remoteEvent struct {
	kind        eventKind
	currentTime float64
}

// Snapshot is a room's full playback state, applied once on join.
type Snapshot struct {
	IsPlaying   bool
	CurrentTime float64
}

// Reconciler turns remote playback instructions into corrected local
// playback without echoing them back as new local actions.
//
// It is a two-state machine: Idle, and ApplyingRemote while a remote play
// or pause instruction is in flight to the widget. Native events that fire
// while ApplyingRemote are the echo of the applied instruction and are
// suppressed; remote events that arrive while ApplyingRemote are queued
// and drained in order once the guard clears, never interleaved.
type Reconciler struct {
	player Player
	logger *slog.Logger

	mu           sync.Mutex
	state        guardState
	playing      bool
	queue        []remoteEvent
	bootstrapped bool
}

func NewReconciler(player Player, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		player: player,
		logger: logger,
	}
}

func (r *Reconciler) ApplyRemotePlay(currentTime float64) {
	r.dispatch(remoteEvent{kind: eventPlay, currentTime: currentTime})
}

func (r *Reconciler) ApplyRemotePause(currentTime float64) {
	r.dispatch(remoteEvent{kind: eventPause, currentTime: currentTime})
}

func (r *Reconciler) ApplyRemoteSeek(currentTime float64) {
	r.dispatch(remoteEvent{kind: eventSeek, currentTime: currentTime})
}

// Bootstrap applies a room snapshot exactly once: reposition, then start
// playback if the room is playing. Later calls are no-ops.
func (r *Reconciler) Bootstrap(snapshot Snapshot) {
	r.mu.Lock()
	if r.bootstrapped {
		r.mu.Unlock()
		return
	}
	r.bootstrapped = true
	r.mu.Unlock()

	r.logger.Debug("applying bootstrap snapshot",
		"is_playing", snapshot.IsPlaying,
		"current_time", snapshot.CurrentTime,
	)

	r.dispatch(remoteEvent{kind: eventSeek, currentTime: snapshot.CurrentTime})
	if snapshot.IsPlaying {
		r.dispatch(remoteEvent{kind: eventPlay, currentTime: snapshot.CurrentTime})
	}
}

// OnNativePlay must be called by the widget when a native play event
// fires. It reports whether the event is a genuine local action that
// should be emitted to the room, as opposed to the echo of a remote
// instruction.
func (r *Reconciler) OnNativePlay() bool {
	return r.onNative(true)
}

// OnNativePause is the pause counterpart of OnNativePlay.
func (r *Reconciler) OnNativePause() bool {
	return r.onNative(false)
}

func (r *Reconciler) onNative(playing bool) bool {
	r.mu.Lock()
	r.playing = playing
	if r.state != stateApplyingRemote {
		r.mu.Unlock()
		return true
	}

	r.state = stateIdle
	r.mu.Unlock()

	r.drain()

	return false
}

func (r *Reconciler) dispatch(ev remoteEvent) {
	r.mu.Lock()
	if r.state == stateApplyingRemote {
		r.logger.Debug("queueing remote event while applying", "kind", ev.kind.String())
		r.queue = append(r.queue, ev)
		r.mu.Unlock()
		return
	}

	actions := r.plan(ev)
	r.mu.Unlock()

	r.run(actions)
}

// drain applies queued events in order. It stops as soon as one of them
// sets the guard again; the matching native callback resumes it.
func (r *Reconciler) drain() {
	for {
		r.mu.Lock()
		if r.state != stateIdle || len(r.queue) == 0 {
			r.mu.Unlock()
			return
		}

		ev := r.queue[0]
		r.queue = r.queue[1:]
		actions := r.plan(ev)
		r.mu.Unlock()

		r.run(actions)
	}
}

type actionSet struct {
	seekTo *float64
	play   bool
	pause  bool
}

// plan decides what to ask of the widget and arms the guard when a verb
// is issued. Called with r.mu held.
func (r *Reconciler) plan(ev remoteEvent) actionSet {
	var actions actionSet

	if ev.kind == eventSeek {
		t := ev.currentTime
		actions.seekTo = &t
		return actions
	}

	if drift := math.Abs(r.player.CurrentTime() - ev.currentTime); drift > DriftTolerance {
		t := ev.currentTime
		actions.seekTo = &t
		r.logger.Debug("drift above tolerance, repositioning",
			"kind", ev.kind.String(),
			"drift", drift,
			"current_time", ev.currentTime,
		)
	}

	// a verb that matches the current native state needs no instruction,
	// so the guard stays clear and cannot leak
	switch ev.kind {
	case eventPlay:
		if !r.playing {
			actions.play = true
			r.state = stateApplyingRemote
		}
	case eventPause:
		if r.playing {
			actions.pause = true
			r.state = stateApplyingRemote
		}
	}

	return actions
}

func (r *Reconciler) run(actions actionSet) {
	if actions.seekTo != nil {
		r.player.SeekTo(*actions.seekTo)
	}
	if actions.play {
		r.player.Play()
	}
	if actions.pause {
		r.player.Pause()
	}
}
