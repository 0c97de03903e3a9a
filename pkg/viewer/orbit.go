// Package viewer animates scenes: a turntable orbit, input actions shared by
// the interactive front ends, parallel frame rendering and a terminal loop.
package viewer

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Orbit is a turntable whose angular speed eases toward a target through a
// critically damped spring, so starting and stopping never overshoot.
type Orbit struct {
	Angle  float64 // Radians, kept in [0, 2π)
	Speed  float64 // Radians per second
	Target float64 // Speed the spring pulls toward

	cruise float64
	fps    int
	spring harmonica.Spring
	accel  float64
}

// NewOrbit creates a stopped turntable that spins up to speed radians per
// second, updated fps times per second.
func NewOrbit(fps int, speed float64) *Orbit {
	fps = max(fps, 1)
	return &Orbit{
		Target: speed,
		cruise: speed,
		fps:    fps,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances one frame.
func (o *Orbit) Update() {
	o.Speed, o.accel = o.spring.Update(o.Speed, o.accel, o.Target)
	o.Angle = math.Mod(o.Angle+o.Speed/float64(o.fps), 2*math.Pi)
	if o.Angle < 0 {
		o.Angle += 2 * math.Pi
	}
}

// Spinning reports whether the turntable is heading for a nonzero speed.
func (o *Orbit) Spinning() bool {
	return o.Target != 0
}

// Toggle stops a spinning turntable or restarts a stopped one.
func (o *Orbit) Toggle() {
	if o.Spinning() {
		o.Target = 0
	} else {
		o.Target = o.cruise
	}
}

// Nudge adds a speed impulse that the spring then absorbs.
func (o *Orbit) Nudge(speed float64) {
	o.Speed += speed
}

// Reset returns to angle 0 at rest, keeping the spin setting.
func (o *Orbit) Reset() {
	o.Angle, o.Speed, o.accel = 0, 0, 0
}
