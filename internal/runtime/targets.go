package runtime

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/tliron/commonlog"
)

var (
	nativeTargetsOnce sync.Once

	// Populated once by InitializeNativeTargets.
	singleQubitGates map[string][2][2]complex128
	rotationGates    map[string]func(angle float64) [2][2]complex128
)

// InitializeNativeTargets performs the process-wide setup backends depend on:
// the gate matrix tables. It is guarded and safe to call on every build; it
// has no observable effect after the first call.
func InitializeNativeTargets() {
	nativeTargetsOnce.Do(func() {
		invSqrt2 := complex(1/math.Sqrt2, 0)

		singleQubitGates = map[string][2][2]complex128{
			"h": {{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}},
			"x": {{0, 1}, {1, 0}},
			"y": {{0, complex(0, -1)}, {complex(0, 1), 0}},
			"z": {{1, 0}, {0, -1}},
			"s": {{1, 0}, {0, complex(0, 1)}},
			"t": {{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}},
		}

		rotationGates = map[string]func(angle float64) [2][2]complex128{
			"rx": func(a float64) [2][2]complex128 {
				c := complex(math.Cos(a/2), 0)
				s := complex(0, -math.Sin(a/2))
				return [2][2]complex128{{c, s}, {s, c}}
			},
			"ry": func(a float64) [2][2]complex128 {
				c := complex(math.Cos(a/2), 0)
				s := complex(math.Sin(a/2), 0)
				return [2][2]complex128{{c, -s}, {s, c}}
			},
			"rz": func(a float64) [2][2]complex128 {
				return [2][2]complex128{
					{cmplx.Exp(complex(0, -a/2)), 0},
					{0, cmplx.Exp(complex(0, a/2))},
				}
			},
		}

		commonlog.GetLogger("rasqal.runtime").Debug("native targets initialized")
	})
}
