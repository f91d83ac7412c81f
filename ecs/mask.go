/*
Package ecs holds the entity-component pieces that use a bitset as a
component-presence mask: the component registry, component masks and the
queries matching them.
*/
package ecs

import (
	"github.com/kwertop/bitvec"
)

// MaxComponents is the number of component types a registry can hold.
const MaxComponents = 448

// ComponentID identifies a registered component type. Valid ids are in
// [0, MaxComponents).
type ComponentID int

// InvalidComponentID is returned alongside an error by Register.
const InvalidComponentID ComponentID = -1

// Valid reports whether the id can address a mask bit.
func (id ComponentID) Valid() bool {
	return id >= 0 && id < MaxComponents
}

// ComponentMask is the set of component types present on an entity or
// archetype. Masks are pre-sized for MaxComponents bits and never grow past it.
// A mask owns its bitset until Release.
type ComponentMask struct {
	bits *bitvec.BitSet
}

// NewComponentMask creates an empty mask, optionally holding _ids_.
func NewComponentMask(ids ...ComponentID) (*ComponentMask, error) {
	m := &ComponentMask{
		bits: bitvec.NewWithCapacity(MaxComponents, bitvec.WithMaxBits(MaxComponents)),
	}
	for _, id := range ids {
		if err := m.Set(id); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Set adds component _id_ to the mask.
func (m *ComponentMask) Set(id ComponentID) error {
	if !id.Valid() {
		return &InvalidComponentError{ID: id}
	}
	return m.bits.Set(uint(id))
}

// Clear removes component _id_ from the mask.
func (m *ComponentMask) Clear(id ComponentID) {
	if id.Valid() {
		m.bits.Clear(uint(id))
	}
}

// Has reports whether component _id_ is in the mask.
func (m *ComponentMask) Has(id ComponentID) bool {
	return id.Valid() && m.bits.Test(uint(id))
}

// Count returns the number of components in the mask.
func (m *ComponentMask) Count() int {
	return int(m.bits.Count())
}

// Empty reports whether the mask holds no component.
func (m *ComponentMask) Empty() bool {
	return m.bits.Empty()
}

// HasAll reports whether every component of _other_ is in the mask.
func (m *ComponentMask) HasAll(other *ComponentMask) bool {
	return m.bits.ContainsAll(other.bits)
}

// HasAny reports whether the mask shares at least one component with _other_.
func (m *ComponentMask) HasAny(other *ComponentMask) bool {
	return m.bits.Intersects(other.bits)
}

// HasNone reports whether the mask shares no component with _other_.
func (m *ComponentMask) HasNone(other *ComponentMask) bool {
	return m.bits.Disjoint(other.bits)
}

// Equal reports whether both masks hold the same components.
func (m *ComponentMask) Equal(other *ComponentMask) bool {
	return m.bits.Equal(other.bits)
}

// Components returns the ids in the mask in ascending order.
func (m *ComponentMask) Components() []ComponentID {
	ids := make([]ComponentID, 0, m.Count())
	m.bits.ForEach(func(i uint) bool {
		ids = append(ids, ComponentID(i))
		return true
	})
	return ids
}

// Clone returns an independent copy of the mask.
func (m *ComponentMask) Clone() *ComponentMask {
	return &ComponentMask{bits: m.bits.Clone()}
}

// Release frees the mask storage. The mask is empty afterwards.
func (m *ComponentMask) Release() {
	m.bits.Release()
}

func (m *ComponentMask) String() string {
	return m.bits.String()
}
