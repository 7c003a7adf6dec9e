// Package quad provides composite Simpson quadrature for complex-valued
// integrands of one real variable.
//
// The package exposes two integration primitives:
//
//   - [Simpson]: composite Simpson's rule over a finite interval
//   - [Double]: separable double integral over a region whose inner limits
//     depend on the outer variable
//
// # Example
//
//	area, err := quad.Double(50, one, one, aperture.Square{HalfWidth: r}, -r, r)
//
// Every routine is pure: integrands are evaluated sequentially and no state
// is retained between calls, so callers may run independent integrations
// from separate goroutines.
package quad
