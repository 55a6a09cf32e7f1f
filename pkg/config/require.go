package config

import "fmt"

// MustNonEmpty collects a missing-variable error into errs.
func MustNonEmpty(errs *[]error, value, envName string) {
	if value == "" {
		*errs = append(*errs, fmt.Errorf("missing required env %s", envName))
	}
}

func MustNonEmptyBytes(errs *[]error, value []byte, envName string) {
	if len(value) == 0 {
		*errs = append(*errs, fmt.Errorf("missing required env %s", envName))
	}
}
