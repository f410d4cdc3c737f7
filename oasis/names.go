package oasis

import "golang.org/x/xerrors"

// NameEntry is one row of a name table: the string itself plus the
// reference number other records use to address it.
type NameEntry struct {
	Name      string
	Reference uint64
	HasRef    bool // false for implicit-reference records, where Reference is assigned by position
}

// NameTable is one of OASIS's six name tables (cellname, textstring,
// propname, propstring, layername, xname). K exists only to let call sites
// talk about "the cellname table" and "the textstring table" as
// distinct types while sharing one implementation.
type NameTable[K ~int] struct {
	kind    K
	byRef   map[uint64]string
	byName  map[string]uint64
	nextImp uint64 // next reference number for implicit-reference entries
}

// NewNameTable returns an empty table of the given kind.
func NewNameTable[K ~int](kind K) *NameTable[K] {
	return &NameTable[K]{
		kind:   kind,
		byRef:  make(map[uint64]string),
		byName: make(map[string]uint64),
	}
}

// Add records an entry. When e.HasRef is false the table assigns the
// next sequential implicit reference, per spec.md §4.3's rule that
// implicit-reference name records are numbered in file order.
func (t *NameTable[K]) Add(e NameEntry) uint64 {
	ref := e.Reference
	if !e.HasRef {
		ref = t.nextImp
	}
	t.byRef[ref] = e.Name
	t.byName[e.Name] = ref
	if ref >= t.nextImp {
		t.nextImp = ref + 1
	}
	return ref
}

// Lookup resolves a reference number to its string.
func (t *NameTable[K]) Lookup(ref uint64) (string, error) {
	name, ok := t.byRef[ref]
	if !ok {
		return "", xerrors.Errorf("oasis: %v table has no entry for reference %d", t.kind, ref)
	}
	return name, nil
}

// ReferenceFor resolves a string to its reference number, for the
// strict-mode case where all references are written by name and the
// table must already contain every name used (spec.md §4.3, preliminary
// pass requirement in non-strict mode).
func (t *NameTable[K]) ReferenceFor(name string) (uint64, error) {
	ref, ok := t.byName[name]
	if !ok {
		return 0, xerrors.Errorf("oasis: %v table has no reference for name %q", t.kind, name)
	}
	return ref, nil
}

// Len reports how many names the table holds.
func (t *NameTable[K]) Len() int { return len(t.byRef) }

// Names returns every entry, unordered.
func (t *NameTable[K]) Names() []NameEntry {
	out := make([]NameEntry, 0, len(t.byRef))
	for ref, name := range t.byRef {
		out = append(out, NameEntry{Name: name, Reference: ref, HasRef: true})
	}
	return out
}

// NameTables bundles the six tables a parser or creator carries for
// one file.
type NameTables struct {
	Cell       *NameTable[NameKind]
	Text       *NameTable[NameKind]
	PropName   *NameTable[NameKind]
	PropString *NameTable[NameKind]
	Layer      *NameTable[NameKind]
	XName      *NameTable[NameKind]
}

// NewNameTables allocates all six tables.
func NewNameTables() *NameTables {
	return &NameTables{
		Cell:       NewNameTable(NameCell),
		Text:       NewNameTable(NameText),
		PropName:   NewNameTable(NamePropName),
		PropString: NewNameTable(NamePropString),
		Layer:      NewNameTable(NameLayer),
		XName:      NewNameTable(NameXName),
	}
}
