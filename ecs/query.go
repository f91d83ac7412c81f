package ecs

// Query matches masks that hold every required component and none of the
// excluded ones.
type Query struct {
	required *ComponentMask
	excluded *ComponentMask
}

// NewQuery builds a query from component ids.
func NewQuery(required []ComponentID, excluded []ComponentID) (*Query, error) {
	req, err := NewComponentMask(required...)
	if err != nil {
		return nil, err
	}
	exc, err := NewComponentMask(excluded...)
	if err != nil {
		return nil, err
	}
	return &Query{required: req, excluded: exc}, nil
}

// Matches reports whether _mask_ satisfies the query.
func (q *Query) Matches(mask *ComponentMask) bool {
	return mask.HasAll(q.required) && mask.HasNone(q.excluded)
}

// Filter returns the indexes of the masks in _masks_ that match.
func (q *Query) Filter(masks []*ComponentMask) []int {
	var matched []int
	for i, m := range masks {
		if q.Matches(m) {
			matched = append(matched, i)
		}
	}
	return matched
}

// Release frees the query masks.
func (q *Query) Release() {
	q.required.Release()
	q.excluded.Release()
}
