package components

import (
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
)

// Entity is a named container owning one Transform and its behaviors.
type Entity struct {
	ID        uint32
	Name      string
	Transform *math.Transform

	behaviors []Behavior
}

func NewEntity(name string) *Entity {
	e := &Entity{
		ID:        core.IdentifierAquireNewID(),
		Name:      name,
		Transform: math.NewTransform(),
	}
	e.Transform.SetOwner(e)
	return e
}

// AddBehavior attaches b to the entity and returns it.
func (e *Entity) AddBehavior(b Behavior) Behavior {
	b.attach(e)
	e.behaviors = append(e.behaviors, b)
	return b
}

// Behaviors returns the attached behaviors in insertion order.
func (e *Entity) Behaviors() []Behavior {
	return e.behaviors
}

// SetParent parents this entity's transform under parent's. A nil parent detaches it.
func (e *Entity) SetParent(parent *Entity) error {
	if parent == nil {
		return e.Transform.SetParent(nil)
	}
	return e.Transform.SetParent(parent.Transform)
}

// Parent returns the entity owning the parent transform, if any.
func (e *Entity) Parent() *Entity {
	p := e.Transform.Parent()
	if p == nil {
		return nil
	}
	owner, _ := p.Owner().(*Entity)
	return owner
}

// GetBehavior returns the first behavior of type T.
func GetBehavior[T Behavior](e *Entity) (T, bool) {
	for _, b := range e.behaviors {
		if t, ok := b.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
