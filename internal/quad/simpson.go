package quad

import "fmt"

// Func is a complex-valued integrand of one real variable.
type Func func(x float64) complex128

// CheckedFunc is an integrand whose evaluation can fail.
type CheckedFunc func(x float64) (complex128, error)

// ValidateTerms reports whether n can be used as a Simpson term count.
func ValidateTerms(n int) error {
	if n <= 0 || n%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTermCount, n)
	}
	return nil
}

// Simpson integrates f over [a, b] with n sub-intervals using the composite
// Simpson rule. f is evaluated exactly n+1 times.
func Simpson(n int, f Func, a, b float64) (complex128, error) {
	return SimpsonChecked(n, func(x float64) (complex128, error) {
		return f(x), nil
	}, a, b)
}

// SimpsonChecked is Simpson for integrands that can fail. Evaluation stops at
// the first error, which is returned unchanged.
func SimpsonChecked(n int, f CheckedFunc, a, b float64) (complex128, error) {
	if err := ValidateTerms(n); err != nil {
		return 0, err
	}

	h := (b - a) / float64(n)

	sum, err := f(a)
	if err != nil {
		return 0, err
	}

	for i := 1; i < n; i++ {
		v, err := f(a + float64(i)*h)
		if err != nil {
			return 0, err
		}
		if i%2 == 1 {
			sum += 4 * v
		} else {
			sum += 2 * v
		}
	}

	last, err := f(b)
	if err != nil {
		return 0, err
	}
	sum += last

	return sum * complex(h/3, 0), nil
}
