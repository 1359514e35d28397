package syncclient

// Player is the native video widget the reconciler drives. The widget
// reports the native events resulting from Play and Pause back through
// Reconciler.OnNativePlay and Reconciler.OnNativePause.
//
// SeekTo and CurrentTime must not call back into the reconciler: a pure
// reposition fires no play or pause event in this model.
type Player interface {
	Play()
	Pause()
	SeekTo(seconds float64)
	CurrentTime() float64
}
