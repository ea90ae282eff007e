package components

// Behavior is a unit of per-entity logic or data.
type Behavior interface {
	Entity() *Entity
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)

	attach(e *Entity)
}

// Updatable behaviors are ticked once per frame by the scene.
type Updatable interface {
	Update(deltaTime float64)
}

// Destroyable behaviors own GPU resources.
type Destroyable interface {
	Destroy()
}

// BaseBehavior implements the bookkeeping part of Behavior. Embed it.
type BaseBehavior struct {
	entity  *Entity
	name    string
	enabled bool
}

func NewBaseBehavior(name string) BaseBehavior {
	return BaseBehavior{name: name, enabled: true}
}

func (b *BaseBehavior) Entity() *Entity {
	return b.entity
}

func (b *BaseBehavior) Name() string {
	return b.name
}

func (b *BaseBehavior) Enabled() bool {
	return b.enabled
}

func (b *BaseBehavior) SetEnabled(enabled bool) {
	b.enabled = enabled
}

func (b *BaseBehavior) attach(e *Entity) {
	b.entity = e
}
