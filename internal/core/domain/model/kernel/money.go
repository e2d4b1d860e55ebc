package kernel

import (
	"fmt"

	"booking/internal/pkg/errs"
)

// Money is a value object representing a non-negative INR amount in paise.
// Keeping amounts integral avoids floating point drift in order totals and
// remaining-balance arithmetic.
//
// Money is immutable; arithmetic methods return new values.
type Money struct {
	paise int64
}

// NewMoney creates a Money amount from paise. Negative amounts are invalid.
func NewMoney(paise int64) (Money, error) {
	if paise < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d paise is negative", paise))
	}
	return Money{paise: paise}, nil
}

// MoneyFromRupees creates a Money amount from whole rupees.
func MoneyFromRupees(rupees int64) (Money, error) {
	if rupees < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d rupees is negative", rupees))
	}
	return Money{paise: rupees * 100}, nil
}

// ZeroMoney returns the zero amount. Unlike the zero value of other kernel
// types, a zero Money is valid: fully paid orders have a zero remainder.
func ZeroMoney() Money {
	return Money{}
}

// Paise returns the raw amount in paise.
func (m Money) Paise() int64 {
	return m.paise
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{paise: m.paise + other.paise}
}

// Sub returns m minus other. Returns an error if the result would be negative,
// which in this domain always signals bookkeeping corruption.
func (m Money) Sub(other Money) (Money, error) {
	if other.paise > m.paise {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("cannot subtract %s from %s", other, m))
	}
	return Money{paise: m.paise - other.paise}, nil
}

// MulInt returns the amount multiplied by a non-negative integer factor,
// used for line item quantity pricing.
func (m Money) MulInt(factor int) (Money, error) {
	if factor < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("factor %d is negative", factor))
	}
	return Money{paise: m.paise * int64(factor)}, nil
}

// Percent returns the given percentage of the amount, truncated to whole paise.
func (m Money) Percent(percent int) (Money, error) {
	if percent < 0 || percent > 100 {
		return Money{}, errs.NewValueIsOutOfRangeError("percent", percent, 0, 100)
	}
	return Money{paise: m.paise * int64(percent) / 100}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.paise == 0
}

// IsEqual reports whether two amounts are equal.
func (m Money) IsEqual(other Money) bool {
	return m.paise == other.paise
}

// String formats the amount as rupees with two decimal places.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.paise/100, m.paise%100)
}
