package snn

import "github.com/chewxy/math32"

// expLimit bounds the sigmoid argument. Beyond it float32 exp overflows and
// the sigmoid is already saturated at 0 or 1.
const expLimit = 88

// sigmoid is the logistic function 1 / (1 + e^-x).
func sigmoid(x float32) float32 {
	switch {
	case x > expLimit:
		x = expLimit
	case x < -expLimit:
		x = -expLimit
	}
	return 1 / (1 + math32.Exp(-x))
}
