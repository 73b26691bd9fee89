package event

// Filter decides which events belong in a filtered timeline view.
//
// Apply returns the subset of events that pass. An empty (or nil) result
// vetoes every event given. Filters must be pure: the core may re-apply a
// filter to the same events and expects the same answer.
type Filter interface {
	Apply(events []*Event) []*Event
}

// TypeFilter passes only events whose type is in the allowed set.
type TypeFilter struct {
	allowed map[string]bool
}

// NewTypeFilter creates a filter passing only the given event types.
func NewTypeFilter(types ...string) *TypeFilter {
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return &TypeFilter{allowed: allowed}
}

// Apply implements Filter.
func (f *TypeFilter) Apply(events []*Event) []*Event {
	var out []*Event
	for _, ev := range events {
		if f.allowed[ev.Type] {
			out = append(out, ev)
		}
	}
	return out
}
