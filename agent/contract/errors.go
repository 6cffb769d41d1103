package contract

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrExternal        = errors.New("external service failed")
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
)
