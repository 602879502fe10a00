package workout

import (
	"fmt"
	"slices"
	"vivafit/internal/models"
)

// Engine is the countdown state machine of one workout. It holds no lock;
// Session serializes access.
type Engine struct {
	steps              []models.WorkoutStep
	restAfterFinalStep bool

	index     int
	phase     models.Phase
	remaining int
	running   bool
	complete  bool
}

// NewEngine validates steps and returns an engine in its initial, paused
// state. With restAfterFinalStep the last step's rest is counted down before
// completion; otherwise the last step never rests.
func NewEngine(steps []models.WorkoutStep, restAfterFinalStep bool) (*Engine, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyWorkout
	}
	for i, s := range steps {
		if s.Duration < 0 || s.RestDuration < 0 {
			return nil, fmt.Errorf("%w: step %d (%s) has a negative duration", ErrInvalidStep, i, s.ID)
		}
	}

	e := &Engine{
		steps:              slices.Clone(steps),
		restAfterFinalStep: restAfterFinalStep,
	}
	e.Reset()
	return e, nil
}

// Tick advances the countdown by one second and reports whether this tick
// completed the workout. A phase already at zero transitions regardless of
// the running flag.
func (e *Engine) Tick() bool {
	if e.complete {
		return false
	}
	if e.remaining > 0 {
		if !e.running {
			return false
		}
		e.remaining--
		if e.remaining > 0 {
			return false
		}
	}
	e.transition()
	return e.complete
}

// Settle applies transitions that are already due because the current phase
// has no time left, starting the countdown like any automatic transition.
// It reports whether the workout completed.
func (e *Engine) Settle() bool {
	moved := false
	for !e.complete && e.remaining == 0 {
		e.transition()
		moved = true
	}
	if moved && !e.complete {
		e.running = true
	}
	return e.complete
}

func (e *Engine) transition() {
	step := e.steps[e.index]

	if e.phase == models.PhaseResting {
		if e.isLast() {
			e.finish()
			return
		}
		e.enter(e.index + 1)
		return
	}

	if step.HasRest() && (!e.isLast() || e.restAfterFinalStep) {
		e.phase = models.PhaseResting
		e.remaining = step.RestDuration
		return
	}

	if e.isLast() {
		e.finish()
		return
	}
	e.enter(e.index + 1)
}

// TogglePlayPause flips the running flag and returns the new value.
func (e *Engine) TogglePlayPause() bool {
	if e.complete {
		return false
	}
	e.running = !e.running
	return e.running
}

// SkipToNext jumps to the next step's active phase and starts the countdown.
// On the last step it does nothing and returns true: the caller must finalize.
func (e *Engine) SkipToNext() bool {
	if e.complete {
		return false
	}
	if e.isLast() {
		return true
	}
	e.enter(e.index + 1)
	e.running = true
	return false
}

func (e *Engine) Reset() {
	e.index = 0
	e.phase = models.PhaseActive
	e.remaining = e.steps[0].Duration
	e.running = false
	e.complete = false
}

// MarkComplete finishes the workout early, as after an explicit finish.
func (e *Engine) MarkComplete() {
	e.finish()
}

// Progress is the overall completion percentage. Only the active phase of the
// current step contributes a fraction; rest time does not advance it.
func (e *Engine) Progress() float64 {
	if e.complete {
		return 100
	}
	step := e.steps[e.index]

	var fraction float64
	switch {
	case e.phase == models.PhaseResting:
		fraction = 1
	case step.Duration > 0:
		fraction = float64(step.Duration-e.remaining) / float64(step.Duration)
	}

	p := (float64(e.index) + fraction) / float64(len(e.steps)) * 100
	return min(max(p, 0), 100)
}

func (e *Engine) Running() bool { return e.running }
func (e *Engine) Complete() bool { return e.complete }

func (e *Engine) Steps() []models.WorkoutStep {
	return slices.Clone(e.steps)
}

func (e *Engine) isLast() bool {
	return e.index == len(e.steps)-1
}

func (e *Engine) enter(index int) {
	e.index = index
	e.phase = models.PhaseActive
	e.remaining = e.steps[index].Duration
}

func (e *Engine) finish() {
	e.complete = true
	e.running = false
}

// fill copies the engine state into snap.
func (e *Engine) fill(snap *models.WorkoutSnapshot) {
	snap.CurrentStepIndex = e.index
	snap.TotalSteps = len(e.steps)
	snap.Phase = e.phase
	snap.TimeRemaining = e.remaining
	snap.Running = e.running
	snap.Complete = e.complete
	snap.Progress = e.Progress()
	snap.Steps = e.Steps()

	current := e.steps[e.index]
	snap.CurrentStep = &current
	if !e.isLast() {
		next := e.steps[e.index+1]
		snap.NextStep = &next
	}
}
