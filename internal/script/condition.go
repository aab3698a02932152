package script

import "github.com/pixelcart/pixelcart/internal/cart"

// EvalConditions reports whether every condition in the list holds
// against the variables map. An empty list is vacuously true. A condition
// over a missing variable, a type mismatch, or an unknown kind evaluates
// to false rather than erroring.
func EvalConditions(conds []cart.Condition, vars map[string]any) bool {
	for _, c := range conds {
		if !evalCondition(c, vars) {
			return false
		}
	}
	return true
}

func evalCondition(c cart.Condition, vars map[string]any) bool {
	current, exists := vars[c.Variable]

	switch c.Kind {
	case cart.CondExists:
		return exists
	case cart.CondEquals:
		if !exists {
			return false
		}
		return looseEquals(current, c.Value)
	case cart.CondGreater:
		a, aok := cart.Number(current)
		b, bok := cart.Number(c.Value)
		return aok && bok && a > b
	case cart.CondLess:
		a, aok := cart.Number(current)
		b, bok := cart.Number(c.Value)
		return aok && bok && a < b
	default:
		return false
	}
}

// looseEquals compares two variable values: numbers numerically, strings
// and booleans by identity. Mismatched types are unequal.
func looseEquals(a, b any) bool {
	if an, aok := cart.Number(a); aok {
		bn, bok := cart.Number(b)
		return bok && an == bn
	}
	return a == b
}
