package reconcile

import "time"

// AnimationDuration is how long the visible indicator takes to catch up with
// an authoritative progress advance.
const AnimationDuration = 500 * time.Millisecond

// Animation interpolates the visible progress value between two authoritative
// values over a fixed duration. It is purely cosmetic: the reconciler's value
// is authoritative the moment the event is applied, and the animation is
// sampled with wall-clock time so its duration does not depend on how often
// the caller redraws.
type Animation struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

// NewAnimation starts an animation from one value to another at now.
func NewAnimation(from, to float64, now time.Time) Animation {
	return Animation{from: from, to: to, start: now, dur: AnimationDuration}
}

// ValueAt returns the interpolated value at now, clamped to the target once
// the duration has elapsed.
func (a Animation) ValueAt(now time.Time) float64 {
	if a.dur <= 0 {
		return a.to
	}
	elapsed := now.Sub(a.start)
	if elapsed >= a.dur {
		return a.to
	}
	if elapsed < 0 {
		return a.from
	}
	return a.from + (a.to-a.from)*(float64(elapsed)/float64(a.dur))
}

// Done reports whether the animation has reached its target at now. Callers
// stop scheduling redraws once this is true.
func (a Animation) Done(now time.Time) bool {
	return now.Sub(a.start) >= a.dur
}

// Target returns the value the animation is heading toward.
func (a Animation) Target() float64 {
	return a.to
}

// Retarget continues an in-flight animation toward a new target, starting
// from the currently visible value so the indicator never jumps.
func (a Animation) Retarget(to float64, now time.Time) Animation {
	return NewAnimation(a.ValueAt(now), to, now)
}
