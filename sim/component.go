package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Component is a named event handler that accepts hooks.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides the name and hook support to components.
type ComponentBase struct {
	HookableBase

	name string
}

// NewComponentBase creates a ComponentBase. The name cannot be empty.
func NewComponentBase(name string) *ComponentBase {
	if name == "" {
		panic("component name cannot be empty")
	}

	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
