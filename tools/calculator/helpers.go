package calculator

import (
	"errors"
	"fmt"
)

var errInvalidInput = errors.New("invalid tool input schema")

func errArgCount(name string, want, got int) error {
	return fmt.Errorf("%s expects %d arguments, got %d", name, want, got)
}

func toFloat(v interface{}) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	default:
		return 0, fmt.Errorf("expecting a number, got %T", v)
	}
}

func unary(fn func(float64) float64) func(args ...interface{}) (interface{}, error) {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, errArgCount("function", 1, len(args))
		}
		x, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}
}
