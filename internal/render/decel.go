package render

import (
	"math"

	"github.com/quadratic-labs/gridcore/config"
)

// Deceleration models momentum scrolling: on drag-end the host samples a
// velocity (cells per millisecond); UpdateDecelerate applies exponential
// decay to that velocity each frame and reports the cell displacement
// for the frame, until the velocity magnitude drops below a threshold
// (spec §4.5 "Deceleration... computes an exponentially-decaying
// velocity; update_decelerate(elapsed) applies the remaining velocity to
// viewport position each frame until below a threshold, at which point
// the flag clears").
type Deceleration struct {
	Active bool
	VelX   float64 // cells per millisecond
	VelY   float64

	// remX/remY carry the sub-cell fraction of displacement across
	// frames so repeated int64 truncation doesn't lose slow motion.
	remX float64
	remY float64

	halfLifeMs float64
	stopVel    float64 // cells/ms
}

// NewDeceleration constructs an inactive Deceleration using the
// configured half-life and stop threshold.
func NewDeceleration() Deceleration {
	return Deceleration{
		halfLifeMs: config.DefaultDecelerationHalfLifeMs,
		stopVel:    config.DefaultDecelerationStopPxS / 1000.0,
	}
}

// Start begins deceleration from an initial velocity sample (cells per
// millisecond, derived by the host from a drag's final pointer delta
// over elapsed time).
func (d *Deceleration) Start(velX, velY float64) {
	if d.halfLifeMs <= 0 {
		*d = NewDeceleration()
	}
	d.VelX, d.VelY = velX, velY
	d.remX, d.remY = 0, 0
	d.Active = math.Hypot(velX, velY) > d.stopVel
}

// Stop cancels any in-flight deceleration, e.g. when a new drag begins.
func (d *Deceleration) Stop() {
	d.Active = false
	d.VelX, d.VelY = 0, 0
	d.remX, d.remY = 0, 0
}

// Advance applies elapsedMs of exponential decay and returns the whole-
// cell displacement for the frame. It clears Active once the decayed
// velocity falls below the stop threshold.
func (d *Deceleration) Advance(elapsedMs float64) (dx, dy int64) {
	if !d.Active || elapsedMs <= 0 {
		return 0, 0
	}
	// Displacement integrates velocity over the decay curve
	// v(t) = v0 * 2^(-t/halfLife); distance = v0 * halfLife / ln(2) * (1 - 2^(-t/halfLife)).
	decayConst := math.Ln2 / d.halfLifeMs
	factor := (1 - math.Exp(-decayConst*elapsedMs)) / decayConst

	d.remX += d.VelX * factor
	d.remY += d.VelY * factor

	dx = int64(d.remX)
	dy = int64(d.remY)
	d.remX -= float64(dx)
	d.remY -= float64(dy)

	decay := math.Exp(-decayConst * elapsedMs)
	d.VelX *= decay
	d.VelY *= decay

	if math.Hypot(d.VelX, d.VelY) < d.stopVel {
		d.Active = false
		d.VelX, d.VelY = 0, 0
	}
	return dx, dy
}
