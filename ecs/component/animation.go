package component

import "github.com/milk9111/clipevents/clip"

// Animator plays clips from a controller. Time is the playback position in
// seconds within the current clip.
type Animator struct {
	Controller *clip.Controller
	Current    string
	Time       float32
	// Speed scales playback; zero or less plays at normal speed.
	Speed   float32
	Playing bool

	// started is cleared by Play so events at time 0 fire on the first frame.
	started bool
}

var AnimatorComponent = NewComponent[Animator]()

// Play switches to the named clip and rewinds it.
func (a *Animator) Play(name string) {
	if a == nil {
		return
	}
	a.Current = name
	a.Time = 0
	a.Playing = true
	a.started = false
}

// Started reports whether the current clip has advanced at least once.
func (a *Animator) Started() bool {
	return a != nil && a.started
}

// MarkStarted records that the first frame of the current clip was played.
func (a *Animator) MarkStarted() {
	if a != nil {
		a.started = true
	}
}

// Clip resolves the current clip through the controller.
func (a *Animator) Clip() *clip.Clip {
	if a == nil || a.Controller == nil || a.Current == "" {
		return nil
	}
	c, _ := a.Controller.Clip(a.Current)
	return c
}
