package models

import "fmt"

// ConfigError reports an out-of-range parameter or a malformed input matrix.
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// DomainError reports a physics correlation evaluated outside its valid
// domain, e.g. a surface temperature below ambient feeding a fractional
// exponent on a negative base.
type DomainError struct {
	Op    string
	TempK float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: temperature %.2fK below ambient is outside the correlation's domain", e.Op, e.TempK)
}
