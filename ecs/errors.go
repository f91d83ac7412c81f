package ecs

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistryFull is returned when registering more than MaxComponents types.
	ErrRegistryFull = errors.New("ecs: maximum number of components reached")

	// ErrInvalidName is returned when registering a component without a name.
	ErrInvalidName = errors.New("ecs: component name is empty")

	// ErrRegistryClosed is returned when using a registry after Close.
	ErrRegistryClosed = errors.New("ecs: registry is closed")
)

// InvalidComponentError reports a component id outside [0, MaxComponents).
type InvalidComponentError struct {
	ID ComponentID
}

func (e *InvalidComponentError) Error() string {
	return fmt.Sprintf("ecs: invalid component id %d", e.ID)
}
