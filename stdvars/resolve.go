// Package stdvars derives the fixed catalog of well-known pipeline
// variables (repository identity, git refs, pull-request, issue,
// comment, and run metadata) from the ambient event context.
//
// Variables are declared in a data table ([Catalog]): each definition
// names its ordered payload source paths, an optional derive function
// for computed entries, and a nullability rule per trigger type.
// Resolution walks the table; it never branches per variable.
//
// For workflow-dispatch runs whose declared inputs reference a pull
// request, issue, or comment by number, an injected [Fetcher] can
// retrieve that object's metadata and overlay the corresponding
// fields, taking precedence over the ambient event's own context.
// Fetch failures degrade gracefully: the overlay is skipped and the
// affected variables keep their un-overlaid values.
package stdvars

import (
	"context"
	"log/slog"
	"time"

	"github.com/ardnew/civar/event"
)

// Value is one resolved standard variable.
type Value struct {
	// Name is the variable's output name.
	Name string
	// Value is nil, bool, int64, float64, or string.
	Value any
}

// Resolved is the resolved standard-context catalog in canonical
// order.
type Resolved struct {
	// Values holds every catalog variable in definition order.
	Values []Value

	// Violations lists variables whose sources produced a value where
	// the nullability rule for the trigger demands null. The value is
	// clamped to null; a non-empty list indicates a catalog defect.
	Violations []string

	// Warnings holds recovered errors (fetch failures and the like)
	// for the caller to surface.
	Warnings []error

	index map[string]int
}

// Get returns the value of name and whether name is in the catalog.
func (r *Resolved) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}

	return r.Values[i].Value, true
}

// set overwrites the value of an existing catalog variable.
func (r *Resolved) set(name string, value any) {
	if i, ok := r.index[name]; ok {
		r.Values[i].Value = value
	}
}

// settings collects the optional resolver capabilities.
type settings struct {
	fetcher      Fetcher
	fetchTimeout time.Duration
}

// Option configures Resolve.
type Option func(*settings)

// DefaultFetchTimeout bounds the secondary metadata fetch.
const DefaultFetchTimeout = 10 * time.Second

// WithFetcher injects the secondary metadata fetch capability used
// for workflow-dispatch auto-detection. Without it, auto-detection is
// disabled and dispatch inputs are ignored.
func WithFetcher(f Fetcher) Option {
	return func(s *settings) { s.fetcher = f }
}

// WithFetchTimeout overrides [DefaultFetchTimeout].
func WithFetchTimeout(d time.Duration) Option {
	return func(s *settings) { s.fetchTimeout = d }
}

// Resolve derives every catalog variable from the event context,
// then applies the workflow-dispatch overlay when applicable.
// Resolution itself cannot fail; recovered conditions are reported in
// the Warnings and Violations fields.
func Resolve(
	ctx context.Context,
	ev *event.Context,
	opts ...Option,
) *Resolved {
	cfg := settings{fetchTimeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	defs := Catalog()

	res := &Resolved{
		Values: make([]Value, 0, len(defs)),
		index:  make(map[string]int, len(defs)),
	}

	for _, def := range defs {
		value := resolveDef(def, ev)

		if def.Null != nil && def.Null(ev.Trigger) {
			if value != nil {
				res.Violations = append(res.Violations, def.Name)
				res.Warnings = append(res.Warnings, ErrNullability.
					With(
						slog.String("name", def.Name),
						slog.String("trigger", ev.Trigger.String()),
					))
			}

			value = nil
		}

		res.index[def.Name] = len(res.Values)
		res.Values = append(res.Values, Value{Name: def.Name, Value: value})
	}

	overlayDispatch(ctx, ev, res, cfg)

	return res
}

// resolveDef evaluates one definition: source paths in order, first
// non-null wins, then the derive function.
func resolveDef(def Def, ev *event.Context) any {
	for _, path := range def.Paths {
		if raw, ok := ev.Lookup(path); ok {
			if value := normalize(raw); value != nil {
				return value
			}
		}
	}

	if def.Derive != nil {
		return def.Derive(ev)
	}

	return nil
}

// normalize maps generic JSON values onto the resolver's scalar set.
// Integral floats become int64 (JSON has no integer type); empty
// strings and non-scalar values count as absent.
func normalize(raw any) any {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}

		return v

	case bool:
		return v

	case float64:
		if v == float64(int64(v)) {
			return int64(v)
		}

		return v

	default:
		return nil
	}
}
