package solution

import (
	"iter"
	"strings"
)

// Section types used in .sln files
const (
	SectionTypePreProject   = "preProject"
	SectionTypePostProject  = "postProject"
	SectionTypePreSolution  = "preSolution"
	SectionTypePostSolution = "postSolution"
)

// forbiddenChars are structurally significant in the line-oriented
// "key = value" format and cannot appear in names, types, keys or values.
const forbiddenChars = "\n\r\x00="

// Entry is a single key/value pair of a Section.
type Entry struct {
	Key   string
	Value string
}

// Section is an ordered list of key/value pairs within a solution file,
// e.g. GlobalSection(SolutionConfigurationPlatforms) = preSolution.
//
// Add keeps duplicate keys so malformed files round-trip. Lookups and Set
// treat the first entry with a given key as canonical.
//
// A Section is not safe for concurrent use.
type Section struct {
	name    string
	typ     string
	entries []Entry

	observers []observer
	nextID    uint64
}

type observer struct {
	id uint64
	fn func(*Section)
}

func validate(keyParam, key, valueParam, value string) error {
	if strings.ContainsAny(key, forbiddenChars) {
		return NewArgumentError(keyParam, "contains invalid characters")
	}
	if strings.ContainsAny(value, forbiddenChars) {
		return NewArgumentError(valueParam, "contains invalid characters")
	}
	return nil
}

// NewSection creates an empty section with the given name and type.
func NewSection(name, typ string) (*Section, error) {
	if err := validate("name", name, "type", typ); err != nil {
		return nil, err
	}
	return &Section{name: name, typ: typ}, nil
}

// Name returns the section name (e.g., "SolutionConfigurationPlatforms")
func (s *Section) Name() string {
	return s.name
}

// SetName renames the section. Setting the current name is a no-op.
func (s *Section) SetName(name string) error {
	if s.name == name {
		return nil
	}
	if err := validate("name", name, "type", s.typ); err != nil {
		return err
	}
	s.name = name
	s.notify()
	return nil
}

// Type returns the section type (e.g., "preProject", "postSolution")
func (s *Section) Type() string {
	return s.typ
}

// SetType changes the section type. Setting the current type is a no-op.
func (s *Section) SetType(typ string) error {
	if s.typ == typ {
		return nil
	}
	if err := validate("name", s.name, "type", typ); err != nil {
		return err
	}
	s.typ = typ
	s.notify()
	return nil
}

// Len returns the number of entries, duplicates included.
func (s *Section) Len() int {
	return len(s.entries)
}

// Add appends an entry even if the key already exists.
func (s *Section) Add(key, value string) error {
	if err := validate("key", key, "value", value); err != nil {
		return err
	}
	s.entries = append(s.entries, Entry{Key: key, Value: value})
	s.notify()
	return nil
}

// Remove deletes every entry with the given key and reports whether any
// entry was removed.
func (s *Section) Remove(key string) bool {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	removed := len(s.entries) - len(kept)
	if removed == 0 {
		return false
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	s.notify()
	return true
}

// Clear removes all entries. Observers are notified even if the section
// was already empty.
func (s *Section) Clear() {
	s.entries = nil
	s.notify()
}

// ContainsKey reports whether any entry has the given key.
func (s *Section) ContainsKey(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Get returns the value of the first entry with the given key.
func (s *Section) Get(key string) (string, bool) {
	for _, e := range s.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Value returns the value of the first entry with the given key, or ""
// if there is none. Use Get to distinguish a missing key from an empty value.
func (s *Section) Value(key string) string {
	v, _ := s.Get(key)
	return v
}

// Set replaces the value of the first entry with the given key in place,
// or appends a new entry if the key is not present.
func (s *Section) Set(key, value string) error {
	if err := validate("key", key, "value", value); err != nil {
		return err
	}
	for i := range s.entries {
		if s.entries[i].Key == key {
			s.entries[i].Value = value
			s.notify()
			return nil
		}
	}
	s.entries = append(s.entries, Entry{Key: key, Value: value})
	s.notify()
	return nil
}

// All yields the entries in insertion order.
func (s *Section) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i := 0; i < len(s.entries); i++ {
			e := s.entries[i]
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys yields the key of each entry in insertion order.
func (s *Section) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range s.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields the value of each entry in insertion order.
func (s *Section) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range s.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries.
func (s *Section) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// OnChanged registers fn to be called after every effective mutation.
// The returned function unregisters it and may be called more than once.
// A nil fn is ignored.
//
// Observers run synchronously in registration order. The observer list is
// captured before the fan-out starts, so an observer added during a
// notification first fires on the next mutation, and one removed during a
// notification still receives the current one.
func (s *Section) OnChanged(fn func(*Section)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Section) notify() {
	if len(s.observers) == 0 {
		return
	}
	snapshot := make([]observer, len(s.observers))
	copy(snapshot, s.observers)
	for _, o := range snapshot {
		o.fn(s)
	}
}
