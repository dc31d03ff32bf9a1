package key

// ID is the dense handle of an interned Key. IDs index the binding arena.
type ID int

// Interner assigns stable, dense IDs to keys in first-seen order. It is not
// safe for concurrent use; each resolution pass owns one.
type Interner struct {
	ids  map[Key]ID
	keys []Key
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[Key]ID)}
}

// Intern returns k's ID, assigning the next one if k is new.
func (in *Interner) Intern(k Key) ID {
	if id, ok := in.ids[k]; ok {
		return id
	}
	id := ID(len(in.keys))
	in.ids[k] = id
	in.keys = append(in.keys, k)
	return id
}

// Lookup returns k's ID without interning it.
func (in *Interner) Lookup(k Key) (ID, bool) {
	id, ok := in.ids[k]
	return id, ok
}

// Key returns the key for id.
func (in *Interner) Key(id ID) Key {
	return in.keys[id]
}

// Len returns the number of interned keys.
func (in *Interner) Len() int {
	return len(in.keys)
}
