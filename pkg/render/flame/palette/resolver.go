package palette

import "math/rand/v2"

// DefaultSeed seeds the generator used when colors are not derived from
// name hashes.
const DefaultSeed = 42

// Resolver assigns colors to frame names for one render. It is not safe for
// concurrent use.
type Resolver struct {
	palette Palette
	hash    bool
	seed    uint64
	rng     *rand.Rand
	pinned  *Map
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithHash derives colors from the frame name alone.
func WithHash() Option {
	return func(r *Resolver) { r.hash = true }
}

// WithSeed sets the seed of the non-hash generator.
func WithSeed(seed uint64) Option {
	return func(r *Resolver) { r.seed = seed }
}

// WithMap pins colors through m. Names found in m keep their color; new
// names are colored by the active mode and stored in m.
func WithMap(m *Map) Option {
	return func(r *Resolver) { r.pinned = m }
}

// NewResolver returns a resolver drawing from p.
func NewResolver(p Palette, opts ...Option) *Resolver {
	r := &Resolver{palette: p, seed: DefaultSeed}
	for _, opt := range opts {
		opt(r)
	}
	r.rng = rand.New(rand.NewPCG(r.seed, r.seed))
	return r
}

// Palette returns the scheme the resolver draws from.
func (r *Resolver) Palette() Palette { return r.palette }

// Color returns the fill color for a frame named name.
func (r *Resolver) Color(name string) Color {
	switch name {
	case "-":
		return greySeparator
	case "--":
		return greyDivider
	}

	if r.pinned == nil {
		return r.generate(name)
	}
	if c, ok := r.pinned.Get(name); ok {
		return c
	}
	c := r.generate(name)
	r.pinned.Set(name, c)
	return c
}

func (r *Resolver) generate(name string) Color {
	family := r.palette.classify(name)
	if r.hash {
		v1 := NameHash(name)
		v2 := NameHash(reverse(name))
		return basic(family, v1, v2, v2)
	}
	return basic(family, r.rng.Float64(), r.rng.Float64(), r.rng.Float64())
}
