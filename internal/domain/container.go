package domain

// Feel is the cosmetic classification attached to every refined value.
// Purely for display; refinement does not score it.
type Feel string

const (
	FeelWoe    Feel = "WO"
	FeelFrolic Feel = "FC"
	FeelDread  Feel = "DR"
	FeelMalice Feel = "MA"
)

// Feels lists every classification a value source may emit.
var Feels = []Feel{FeelWoe, FeelFrolic, FeelDread, FeelMalice}

// Refined is one refined datum: a bounded numeric value plus its feel.
type Refined struct {
	Value int
	Feel  Feel
}

// Container is one of a session's numbered bins. Values keep insertion
// order (most recent last). Progress is always derived from the stored
// values, never cached.
type Container struct {
	id       int
	capacity int
	values   []Refined
}

func NewContainer(id, capacity int) *Container {
	return &Container{id: id, capacity: capacity}
}

func (c *Container) ID() int { return c.id }
func (c *Container) Capacity() int { return c.capacity }

// Values returns the refined values in insertion order.
func (c *Container) Values() []Refined { return c.values }

// Total sums every stored value.
func (c *Container) Total() int {
	total := 0
	for _, v := range c.values {
		total += v.Value
	}
	return total
}

// Progress is Total/Capacity clamped to [0, 1].
func (c *Container) Progress() float64 {
	if c.capacity <= 0 {
		return 0
	}
	p := float64(c.Total()) / float64(c.capacity)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (c *Container) Full() bool {
	return c.Total() >= c.capacity
}

// Last returns the most recently added value, if any.
func (c *Container) Last() (Refined, bool) {
	if len(c.values) == 0 {
		return Refined{}, false
	}
	return c.values[len(c.values)-1], true
}

// Add appends a refined value. A full container rejects the add with
// ErrContainerFull; an add that would overflow stores a clamped value so
// the total lands exactly on capacity.
func (c *Container) Add(v Refined) error {
	if v.Value <= 0 {
		return nil
	}
	remaining := c.capacity - c.Total()
	if remaining <= 0 {
		return ErrContainerFull
	}
	if v.Value > remaining {
		v.Value = remaining
	}
	c.values = append(c.values, v)
	return nil
}

// Reset clears the container. Idempotent.
func (c *Container) Reset() {
	c.values = nil
}
