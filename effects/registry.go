package effects

import (
	"errors"
	"fmt"
)

var errDuplicateEffect = errors.New("duplicate effect type")

// Registry maps effect types to their state factories. It is mutated only
// during setup; after that, lookups are safe from any goroutine.
type Registry struct {
	factories map[Type]StateFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Type]StateFactory)}
}

// Register adds a factory for the given effect type.
func (r *Registry) Register(effectType Type, factory StateFactory) error {
	if effectType == TypeNull {
		return errors.New("cannot register the null effect type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[effectType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, effectType)
	}

	r.factories[effectType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(effectType Type, factory StateFactory) {
	err := r.Register(effectType, factory)
	if err != nil {
		panic("effects registry: " + err.Error())
	}
}

// Lookup returns the factory for the given effect type, or nil.
func (r *Registry) Lookup(effectType Type) StateFactory {
	return r.factories[effectType]
}
