// Package optics evaluates Fresnel diffraction fields behind an aperture.
//
// The package ties aperture geometry and quadrature together:
//
//   - [Source]: wavelength, field strength and aperture of one run
//   - [Kernel]: the Fresnel phase term at a fixed propagation distance
//   - [Sampler]: 1-D intensity profiles and 2-D intensity maps
//
// # Example
//
//	src, _ := optics.NewSource(5e-7, 1, aperture.Square{HalfWidth: 1e-4}, [2]float64{-1e-4, 1e-4})
//	s := optics.NewSampler(src, optics.DefaultConfig(), logger)
//	profile, err := s.Profile(ctx, 5e-3, 75, [2]float64{-1e-4, 1e-4})
//
// # Thread Safety
//
// Source and Kernel are immutable values. A Sampler holds no mutable state
// and may be shared; with Config.Workers > 1 the rows of a map are evaluated
// concurrently and produce the same result as a sequential run.
package optics
