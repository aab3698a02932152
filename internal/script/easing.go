package script

// EasingFunc maps linear progress t in [0,1] to eased progress in [0,1].
type EasingFunc func(t float64) float64

// Easing functions. All are pure and fix the endpoints: f(0)=0, f(1)=1.
func easeLinear(t float64) float64 { return t }
func easeIn(t float64) float64     { return t * t }
func easeOut(t float64) float64    { return 1 - (1-t)*(1-t) }

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// EasingByName resolves an easing by its script name. Unknown names fall
// back to linear so a typo degrades motion, never correctness.
func EasingByName(name string) EasingFunc {
	switch name {
	case "easeIn":
		return easeIn
	case "easeOut":
		return easeOut
	case "easeInOut":
		return easeInOut
	default:
		return easeLinear
	}
}
