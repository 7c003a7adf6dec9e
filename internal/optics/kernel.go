package optics

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Kernel is the Fresnel phase term for propagation over a fixed distance.
type Kernel struct {
	k        float64
	distance float64
}

// Kernel returns the propagation kernel at distance z. z must be positive.
func (s Source) Kernel(z float64) (Kernel, error) {
	if !(z > 0) || math.IsInf(z, 0) {
		return Kernel{}, fmt.Errorf("%w: propagation distance must be positive, got %g", ErrDomain, z)
	}
	return Kernel{k: s.WaveNumber(), distance: z}, nil
}

func (k Kernel) Distance() float64 { return k.distance }

// Phase returns exp(i·k·(screen-ap)²/(2z)).
func (k Kernel) Phase(screen, ap float64) complex128 {
	d := screen - ap
	return cmplx.Exp(complex(0, k.k*d*d/(2*k.distance)))
}

// At fixes the screen coordinate, giving an integrand over aperture
// coordinates.
func (k Kernel) At(screen float64) Integrand {
	return Integrand{kernel: k, screen: screen}
}

// Integrand is a kernel bound to one screen coordinate. It is a plain value,
// so each grid point owns its own copy.
type Integrand struct {
	kernel Kernel
	screen float64
}

func (in Integrand) Eval(ap float64) complex128 {
	return in.kernel.Phase(in.screen, ap)
}
