package quad

// Region describes the inner integration interval as a function of the outer
// variable: lower(y) <= x <= upper(y).
type Region interface {
	Bounds(y float64) (lower, upper float64, err error)
}

// RegionFunc adapts a plain function to Region.
type RegionFunc func(y float64) (lower, upper float64, err error)

func (f RegionFunc) Bounds(y float64) (float64, float64, error) {
	return f(y)
}

// Double approximates the integral of fx(x)*fy(y) over the region
// lower(y) <= x <= upper(y), a <= y <= b. The same term count is used for the
// inner and the outer pass.
func Double(n int, fx, fy Func, region Region, a, b float64) (complex128, error) {
	return DoubleN(n, n, fx, fy, region, a, b)
}

// DoubleN is Double with separate inner (nx) and outer (ny) term counts.
func DoubleN(nx, ny int, fx, fy Func, region Region, a, b float64) (complex128, error) {
	if err := ValidateTerms(nx); err != nil {
		return 0, err
	}
	if err := ValidateTerms(ny); err != nil {
		return 0, err
	}

	outer := func(y float64) (complex128, error) {
		lo, hi, err := region.Bounds(y)
		if err != nil {
			return 0, &BoundsError{Y: y, Wrapped: err}
		}
		if lo > hi {
			return 0, &BoundsError{Y: y, Lower: lo, Upper: hi, Wrapped: ErrInvertedBounds}
		}

		inner, err := Simpson(nx, fx, lo, hi)
		if err != nil {
			return 0, err
		}
		return inner * fy(y), nil
	}

	return SimpsonChecked(ny, outer, a, b)
}
