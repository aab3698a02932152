package script

// Tween is a time-bounded eased interpolation of one numeric property.
// Tweens are ephemeral: registered by a tween action, advanced on every
// Update, destroyed once progress reaches 1.
type Tween struct {
	id       uint64
	target   any // Resolution root for the property path
	property string
	start    float64
	end      float64
	duration float64 // Milliseconds
	elapsed  float64
	easing   EasingFunc
	done     bool
}

// advance adds dt milliseconds, applies the eased value through the
// property path, and reports whether the tween has completed.
func (t *Tween) advance(dt float64) bool {
	t.elapsed += dt

	progress := 1.0
	if t.duration > 0 {
		progress = t.elapsed / t.duration
		if progress > 1 {
			progress = 1
		}
	}

	eased := t.easing(progress)
	value := t.start + (t.end-t.start)*eased

	// A path that stopped resolving (say the params map was replaced)
	// makes the write a no-op; the tween still runs out its clock.
	WritePath(t.target, t.property, value)

	return progress >= 1
}
