package style

import (
	"fmt"
	"io"
	"math"
)

// ID is a small integer assigned to a style value the first time it is
// installed. IDs are stable for the lifetime of one document conversion
// and are never reused or renumbered.
type ID int

// Config holds configuration for a Registry.
type Config struct {
	// Eps is the tolerance for scalar and matrix-component equality.
	// Two scalars are the same value when |a-b| <= Eps (default 0.001).
	Eps float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Eps: 0.001,
	}
}

// Registry deduplicates style values into small integer IDs and emits
// one style rule per ID. It is scoped to one document conversion and is
// explicitly passed to every page's tracker and builder, so the
// stylesheet is shared across pages without global state.
//
// The registry is append-only: aborting a page mid-conversion leaves
// previously installed IDs intact.
type Registry struct {
	config Config

	// values by ID, in allocation order
	values []Value

	// scalar lookup: quantized value -> ID, per kind
	scalars map[Kind]map[int64]ID

	// color lookup: packed RGB (or the transparent sentinel) -> ID, per kind
	colors map[Kind]map[uint32]ID

	// transform lookup: linear scan candidates
	transforms []ID
}

// transparentKey is the shared lookup key for all transparent colors.
const transparentKey uint32 = 1 << 24

// NewRegistry creates a registry with default configuration.
func NewRegistry() *Registry {
	return NewRegistryWithConfig(DefaultConfig())
}

// NewRegistryWithConfig creates a registry with custom configuration.
func NewRegistryWithConfig(config Config) *Registry {
	if config.Eps <= 0 {
		config.Eps = DefaultConfig().Eps
	}
	return &Registry{
		config:  config,
		scalars: make(map[Kind]map[int64]ID),
		colors:  make(map[Kind]map[uint32]ID),
	}
}

// Eps returns the registry's equality tolerance.
func (r *Registry) Eps() float64 {
	return r.config.Eps
}

// Install returns the ID for a value, allocating a new one if no equal
// value has been installed before. Install is idempotent under the
// per-kind equality rules: scalars within Eps, transparent colors of
// any RGB, and matrices whose linear parts match within Eps all map to
// one shared ID.
func (r *Registry) Install(v Value) ID {
	switch val := v.(type) {
	case Scalar:
		return r.installScalar(val)
	case ColorValue:
		return r.installColor(val)
	case TransformClass:
		return r.installTransform(val)
	default:
		// Unknown value implementations get a fresh ID each time; the
		// core never produces one.
		return r.allocate(v)
	}
}

func (r *Registry) installScalar(s Scalar) ID {
	buckets := r.scalars[s.K]
	if buckets == nil {
		buckets = make(map[int64]ID)
		r.scalars[s.K] = buckets
	}

	key := quantize(s.Val, r.config.Eps)
	// A value within Eps of an installed one may quantize to an
	// adjacent bucket, so the neighbors are checked too.
	for _, k := range [3]int64{key - 1, key, key + 1} {
		if id, ok := buckets[k]; ok {
			if existing := r.values[id].(Scalar); math.Abs(existing.Val-s.Val) <= r.config.Eps {
				return id
			}
		}
	}

	id := r.allocate(s)
	buckets[key] = id
	return id
}

func (r *Registry) installColor(c ColorValue) ID {
	buckets := r.colors[c.K]
	if buckets == nil {
		buckets = make(map[uint32]ID)
		r.colors[c.K] = buckets
	}

	key := transparentKey
	if !c.Color.Transparent {
		key = uint32(c.Color.R)<<16 | uint32(c.Color.G)<<8 | uint32(c.Color.B)
	}
	if id, ok := buckets[key]; ok {
		return id
	}

	id := r.allocate(c)
	buckets[key] = id
	return id
}

func (r *Registry) installTransform(t TransformClass) ID {
	for _, id := range r.transforms {
		existing := r.values[id].(TransformClass)
		if existing.Matrix.LinearEquals(t.Matrix, r.config.Eps) {
			return id
		}
	}

	id := r.allocate(t)
	r.transforms = append(r.transforms, id)
	return id
}

func (r *Registry) allocate(v Value) ID {
	id := ID(len(r.values))
	r.values = append(r.values, v)
	return id
}

// quantize maps a value to its epsilon-sized bucket.
func quantize(v, eps float64) int64 {
	return int64(math.Round(v / eps))
}

// Len returns the number of installed values.
func (r *Registry) Len() int {
	return len(r.values)
}

// Lookup returns the value installed under an ID.
func (r *Registry) Lookup(id ID) (Value, bool) {
	if id < 0 || int(id) >= len(r.values) {
		return nil, false
	}
	return r.values[id], true
}

// ClassName returns the stylesheet class name for an ID, or the empty
// string for an unknown ID.
func (r *Registry) ClassName(id ID) string {
	v, ok := r.Lookup(id)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s%d", v.Kind().classPrefix(), id)
}

// EmitRules writes one style rule per installed ID, in ID order.
func (r *Registry) EmitRules(w io.Writer) error {
	for id, v := range r.values {
		if _, err := fmt.Fprintf(w, ".%s%d{%s}\n", v.Kind().classPrefix(), id, v.Rule()); err != nil {
			return fmt.Errorf("failed to emit rule %d: %w", id, err)
		}
	}
	return nil
}
