// Package strategies is the static table that binds the module and object
// named by a strategy descriptor to the Go code implementing it.
//
// Implementations register a factory from their package init:
//
//	func init() {
//		strategies.MustRegister("sdg", "SDGStrategy", newSGD)
//	}
//
// Descriptors whose implementation was never registered stay loadable; they
// only fail when resolved.
package strategies

import (
	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/plan"
	"github.com/covertmark/covertmark/pkg/registry"
	"github.com/covertmark/covertmark/pkg/types"
)

// Factory builds a runner for one descriptor
type Factory func(desc types.StrategyDescriptor) (plan.Runner, error)

// Table maps "module.object" keys to factories
type Table struct {
	factories registry.Registry[Factory]
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{factories: registry.New[Factory]()}
}

// Register binds module and object to f
func (t *Table) Register(module, object string, f Factory) error {
	if module == "" || object == "" {
		return errors.New(errors.ErrInvalidInput, "module and object must both be set")
	}
	if f == nil {
		return errors.Newf(errors.ErrInvalidInput, "nil factory for %s", types.FactoryKey(module, object))
	}
	return t.factories.Register(types.FactoryKey(module, object), f)
}

// Unregister removes the binding for module and object
func (t *Table) Unregister(module, object string) error {
	return t.factories.Remove(types.FactoryKey(module, object))
}

// Resolve returns the factory bound to desc
func (t *Table) Resolve(desc types.StrategyDescriptor) (Factory, error) {
	f, err := t.factories.Get(desc.Key())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStrategyUnbound, "no implementation registered for strategy %s (%s)", desc.Name, desc.Key()).
			WithDetail("strategy", desc.Name).
			WithDetail("key", desc.Key())
	}
	return f, nil
}

// Bound reports whether desc has a registered implementation
func (t *Table) Bound(desc types.StrategyDescriptor) bool {
	return t.factories.Has(desc.Key())
}

// New resolves desc and builds its runner
func (t *Table) New(desc types.StrategyDescriptor) (plan.Runner, error) {
	f, err := t.Resolve(desc)
	if err != nil {
		return nil, err
	}
	runner, err := f(desc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "building strategy %s", desc.Name)
	}
	return runner, nil
}

// Keys lists the registered "module.object" keys in registration order
func (t *Table) Keys() []string {
	return t.factories.List()
}

var defaultTable = NewTable()

// Default returns the process-wide table
func Default() *Table { return defaultTable }

// Register binds module and object to f in the default table
func Register(module, object string, f Factory) error {
	return defaultTable.Register(module, object, f)
}

// MustRegister is like Register but panics on error. Use it from init.
func MustRegister(module, object string, f Factory) {
	if err := Register(module, object, f); err != nil {
		panic(err)
	}
}

// Resolve looks desc up in the default table
func Resolve(desc types.StrategyDescriptor) (Factory, error) {
	return defaultTable.Resolve(desc)
}

// Bound reports whether desc is bound in the default table
func Bound(desc types.StrategyDescriptor) bool {
	return defaultTable.Bound(desc)
}
