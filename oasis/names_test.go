package oasis

import "testing"

func TestNameTableImplicitReference(t *testing.T) {
	tab := NewNameTable(NameCell)
	r0 := tab.Add(NameEntry{Name: "INVERTER"})
	r1 := tab.Add(NameEntry{Name: "NAND2"})
	if r0 != 0 || r1 != 1 {
		t.Fatalf("implicit references = %d, %d; want 0, 1", r0, r1)
	}
	name, err := tab.Lookup(1)
	if err != nil || name != "NAND2" {
		t.Fatalf("Lookup(1) = %q, %v", name, err)
	}
}

func TestNameTableExplicitReference(t *testing.T) {
	tab := NewNameTable(NameLayer)
	tab.Add(NameEntry{Name: "METAL1", Reference: 7, HasRef: true})
	name, err := tab.Lookup(7)
	if err != nil || name != "METAL1" {
		t.Fatalf("Lookup(7) = %q, %v", name, err)
	}
	ref, err := tab.ReferenceFor("METAL1")
	if err != nil || ref != 7 {
		t.Fatalf("ReferenceFor(METAL1) = %d, %v", ref, err)
	}
}

func TestNameTableMissingLookup(t *testing.T) {
	tab := NewNameTable(NameText)
	if _, err := tab.Lookup(99); err == nil {
		t.Fatal("expected an error for a missing reference")
	}
	if _, err := tab.ReferenceFor("nonexistent"); err == nil {
		t.Fatal("expected an error for a missing name")
	}
}

func TestNameTablesAllSixKinds(t *testing.T) {
	tabs := NewNameTables()
	if tabs.Cell == nil || tabs.Text == nil || tabs.PropName == nil ||
		tabs.PropString == nil || tabs.Layer == nil || tabs.XName == nil {
		t.Fatal("NewNameTables should allocate all six tables")
	}
}
