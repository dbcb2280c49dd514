// Package conv implements the value conversion rules used throughout the
// property runtime: widening is always permitted, narrowing and
// float-to-integer conversions are range-checked, and bool is converted
// explicitly rather than falling through the numeric path.
package conv

import (
	"math"
	"reflect"
	"strconv"

	"traintastic/errs"
)

// Convert converts v of type From to type To, following the same rules as
// the reference implementation's dispatch-by-type conversion: identical
// types pass through, integer widening is unconditional, integer narrowing
// and float-to-integer conversions are range-checked, and anything that
// reaches none of these cases is a conversion error.
func Convert[To, From any](v From) (To, error) {
	var zero To
	if same, ok := any(v).(To); ok {
		return same, nil
	}
	switch out := any(&zero).(type) {
	case *bool:
		b, err := toBool(any(v))
		if err != nil {
			return zero, err
		}
		*out = b
		return zero, nil
	case *string:
		s, err := toString(any(v))
		if err != nil {
			return zero, err
		}
		*out = s
		return zero, nil
	case *float32:
		f, err := toFloat64(any(v))
		if err != nil {
			return zero, err
		}
		*out = float32(f)
		return zero, nil
	case *float64:
		f, err := toFloat64(any(v))
		if err != nil {
			return zero, err
		}
		*out = f
		return zero, nil
	}

	// Remaining destinations are integral (or integral-underlying enums).
	i, isFloat, f, err := toInt64OrFloat(any(v))
	if err != nil {
		return zero, err
	}
	if isFloat {
		rounded := math.Round(f)
		if !fitsInt64(rounded) {
			return zero, errs.New(errs.OutOfRange, "conv.Convert", "float out of integer range")
		}
		i = int64(rounded)
	}
	return castInt64[To](i)
}

// castInt64 narrows/widens i into To, range-checking when To is smaller
// than int64's usable span for the destination's sign/width.
func castInt64[To any](i int64) (To, error) {
	var zero To
	switch any(&zero).(type) {
	case *int:
		return any(int(i)).(To), rangeCheckSigned(i, math.MinInt, math.MaxInt)
	case *int8:
		if err := rangeCheckSigned(i, math.MinInt8, math.MaxInt8); err != nil {
			return zero, err
		}
		return any(int8(i)).(To), nil
	case *int16:
		if err := rangeCheckSigned(i, math.MinInt16, math.MaxInt16); err != nil {
			return zero, err
		}
		return any(int16(i)).(To), nil
	case *int32:
		if err := rangeCheckSigned(i, math.MinInt32, math.MaxInt32); err != nil {
			return zero, err
		}
		return any(int32(i)).(To), nil
	case *int64:
		return any(i).(To), nil
	case *uint:
		if err := rangeCheckUnsigned(i, math.MaxUint); err != nil {
			return zero, err
		}
		return any(uint(i)).(To), nil
	case *uint8:
		if err := rangeCheckUnsigned(i, math.MaxUint8); err != nil {
			return zero, err
		}
		return any(uint8(i)).(To), nil
	case *uint16:
		if err := rangeCheckUnsigned(i, math.MaxUint16); err != nil {
			return zero, err
		}
		return any(uint16(i)).(To), nil
	case *uint32:
		if err := rangeCheckUnsigned(i, math.MaxUint32); err != nil {
			return zero, err
		}
		return any(uint32(i)).(To), nil
	case *uint64:
		if i < 0 {
			return zero, errs.New(errs.OutOfRange, "conv.Convert", "negative value for unsigned destination")
		}
		return any(uint64(i)).(To), nil
	}
	// Named integral types (enums, time.Duration) by their underlying kind.
	rv := reflect.ValueOf(&zero).Elem()
	switch {
	case rv.CanInt() && !rv.OverflowInt(i):
		rv.SetInt(i)
		return zero, nil
	case rv.CanUint() && i >= 0 && !rv.OverflowUint(uint64(i)):
		rv.SetUint(uint64(i))
		return zero, nil
	case rv.CanInt() || rv.CanUint():
		return zero, errs.New(errs.OutOfRange, "conv.Convert", "integer out of range")
	}
	return zero, errs.New(errs.ConversionError, "conv.Convert", "unsupported destination type")
}

func rangeCheckSigned(i, lo, hi int64) error {
	if i < lo || i > hi {
		return errs.New(errs.OutOfRange, "conv.Convert", "integer out of range")
	}
	return nil
}

func rangeCheckUnsigned(i int64, hi uint64) error {
	if i < 0 || uint64(i) > hi {
		return errs.New(errs.OutOfRange, "conv.Convert", "integer out of range")
	}
	return nil
}

func fitsInt64(f float64) bool {
	return f >= math.MinInt64 && f <= math.MaxInt64
}

// toInt64OrFloat classifies the dynamic value of v and returns either an
// int64 (isFloat=false) or a float64 that still needs rounding
// (isFloat=true).
func toInt64OrFloat(v any) (i int64, isFloat bool, f float64, err error) {
	switch x := v.(type) {
	case int:
		return int64(x), false, 0, nil
	case int8:
		return int64(x), false, 0, nil
	case int16:
		return int64(x), false, 0, nil
	case int32:
		return int64(x), false, 0, nil
	case int64:
		return x, false, 0, nil
	case uint:
		return int64(x), false, 0, nil
	case uint8:
		return int64(x), false, 0, nil
	case uint16:
		return int64(x), false, 0, nil
	case uint32:
		return int64(x), false, 0, nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, false, 0, errs.New(errs.OutOfRange, "conv.Convert", "uint64 out of int64 range")
		}
		return int64(x), false, 0, nil
	case float32:
		return 0, true, float64(x), nil
	case float64:
		return 0, true, x, nil
	default:
		return 0, false, 0, errs.New(errs.ConversionError, "conv.Convert", "source is not numeric")
	}
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	default:
		i, isFloat, f, err := toInt64OrFloat(v)
		if err != nil {
			return 0, err
		}
		if isFloat {
			return f, nil
		}
		return float64(i), nil
	}
}

// toBool only accepts an identical bool source: the conversion matrix has
// no int<->bool rule.
func toBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, errs.New(errs.ConversionError, "conv.Convert", "value is not boolean-convertible")
}

// toString stringifies integral and float source values; it never accepts
// bool (the reference matrix has no bool->string rule).
func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return "", errs.New(errs.ConversionError, "conv.Convert", "bool has no string conversion")
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	default:
		i, isFloat, f, err := toInt64OrFloat(v)
		if err != nil {
			return "", err
		}
		if isFloat {
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
		return strconv.FormatInt(i, 10), nil
	}
}
