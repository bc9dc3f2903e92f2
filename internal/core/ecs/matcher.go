package ecs

import (
	"encoding/binary"
	"hash/fnv"
	"slices"
	"strconv"
	"strings"
)

// TriggerKind selects which group transition a collector reacts to.
type TriggerKind int

const (
	TriggerAdded TriggerKind = iota
	TriggerRemoved
	TriggerAddedOrRemoved
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerAdded:
		return "added"
	case TriggerRemoved:
		return "removed"
	case TriggerAddedOrRemoved:
		return "added_or_removed"
	}
	return "TriggerKind(" + strconv.Itoa(int(k)) + ")"
}

// Trigger pairs a Matcher with the group transition a collector listens for.
// It is a declarative descriptor; nothing subscribes until a Pool resolves it.
type Trigger struct {
	Matcher Matcher
	Kind    TriggerKind
}

// Matcher is an immutable predicate over the component ids an entity holds.
// Each id set is kept sorted and duplicate-free, and the hash is computed
// once from the normalized sets, so matchers built from the same sets in any
// order are Equal and hash alike.
type Matcher struct {
	allOf   []ComponentID
	anyOf   []ComponentID
	noneOf  []ComponentID
	indices []ComponentID
	hash    uint64
}

func AllOf(ids ...ComponentID) Matcher  { return newMatcher(ids, nil, nil) }
func AnyOf(ids ...ComponentID) Matcher  { return newMatcher(nil, ids, nil) }
func NoneOf(ids ...ComponentID) Matcher { return newMatcher(nil, nil, ids) }

// WithAllOf returns a copy of m that also requires every id.
func (m Matcher) WithAllOf(ids ...ComponentID) Matcher {
	return newMatcher(concat(m.allOf, ids), m.anyOf, m.noneOf)
}

// WithAnyOf returns a copy of m whose any-of set also includes ids.
func (m Matcher) WithAnyOf(ids ...ComponentID) Matcher {
	return newMatcher(m.allOf, concat(m.anyOf, ids), m.noneOf)
}

// WithNoneOf returns a copy of m that also excludes every id.
func (m Matcher) WithNoneOf(ids ...ComponentID) Matcher {
	return newMatcher(m.allOf, m.anyOf, concat(m.noneOf, ids))
}

func newMatcher(allOf, anyOf, noneOf []ComponentID) Matcher {
	m := Matcher{
		allOf:  distinct(allOf),
		anyOf:  distinct(anyOf),
		noneOf: distinct(noneOf),
	}
	m.indices = distinct(concat(concat(m.allOf, m.anyOf), m.noneOf))
	m.hash = m.computeHash()
	return m
}

func concat(a, b []ComponentID) []ComponentID {
	out := make([]ComponentID, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func distinct(ids []ComponentID) []ComponentID {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// computeHash folds the role and contents of each normalized set into an
// FNV-1a hash. The role tag and length keep AllOf(1) apart from AnyOf(1).
func (m Matcher) computeHash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 8*(len(m.indices)+6))
	for role, set := range [...][]ComponentID{m.allOf, m.anyOf, m.noneOf} {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(role))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(set)))
		for _, id := range set {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(id))
		}
	}
	h.Write(buf)
	return h.Sum64()
}

// Matches reports whether e satisfies all three clauses. Empty clauses hold
// vacuously; evaluation stops at the first failing clause.
func (m Matcher) Matches(e *Entity) bool {
	if len(m.allOf) > 0 && !e.HasAll(m.allOf...) {
		return false
	}
	if len(m.anyOf) > 0 && !e.HasAny(m.anyOf...) {
		return false
	}
	if len(m.noneOf) > 0 && e.HasAny(m.noneOf...) {
		return false
	}
	return true
}

// IsEmpty reports whether m has no constraints and so matches every entity.
func (m Matcher) IsEmpty() bool {
	return len(m.indices) == 0
}

// matchesBare reports whether an entity with no components satisfies m.
// Such matchers have to be evaluated on entity creation and destruction,
// not only on component changes.
func (m Matcher) matchesBare() bool {
	return len(m.allOf) == 0 && len(m.anyOf) == 0
}

func (m Matcher) Indices() []ComponentID       { return slices.Clone(m.indices) }
func (m Matcher) AllOfIndices() []ComponentID  { return slices.Clone(m.allOf) }
func (m Matcher) AnyOfIndices() []ComponentID  { return slices.Clone(m.anyOf) }
func (m Matcher) NoneOfIndices() []ComponentID { return slices.Clone(m.noneOf) }
func (m Matcher) Hash() uint64                 { return m.hash }

func (m Matcher) Equal(o Matcher) bool {
	return m.hash == o.hash &&
		slices.Equal(m.allOf, o.allOf) &&
		slices.Equal(m.anyOf, o.anyOf) &&
		slices.Equal(m.noneOf, o.noneOf)
}

func (m Matcher) OnEntityAdded() Trigger   { return Trigger{Matcher: m, Kind: TriggerAdded} }
func (m Matcher) OnEntityRemoved() Trigger { return Trigger{Matcher: m, Kind: TriggerRemoved} }
func (m Matcher) OnEntityAddedOrRemoved() Trigger {
	return Trigger{Matcher: m, Kind: TriggerAddedOrRemoved}
}

func (m Matcher) String() string {
	return m.format(func(id ComponentID) string { return strconv.Itoa(int(id)) })
}

// Describe renders m with component type names from r.
func (m Matcher) Describe(r *ComponentRegistry) string {
	return m.format(r.Name)
}

func (m Matcher) format(name func(ComponentID) string) string {
	if m.IsEmpty() {
		return "Matcher()"
	}
	var sb strings.Builder
	for _, part := range []struct {
		label string
		ids   []ComponentID
	}{{"AllOf", m.allOf}, {"AnyOf", m.anyOf}, {"NoneOf", m.noneOf}} {
		if len(part.ids) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part.label)
		sb.WriteByte('(')
		for i, id := range part.ids {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(name(id))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}
