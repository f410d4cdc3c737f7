package gds

import "testing"

func TestInvalidRecordTypesMatchSpec(t *testing.T) {
	want := []RecordType{SPACING, RESERVED, UINTEGER, USTRING, STYPTABLE, STRTYPE, ELKEY, LINKTYPE, LINKKEYS}
	for _, rt := range want {
		d, ok := describe(rt)
		if !ok {
			t.Errorf("%v: describe() reported unknown, want invalid", rt)
			continue
		}
		if !d.Invalid {
			t.Errorf("%v: expected Invalid=true", rt)
		}
	}
	count := 0
	for t := RecordType(0); t <= maxRecordType; t++ {
		if d, ok := describe(t); ok && d.Invalid {
			count++
		}
	}
	if count != len(want) {
		t.Fatalf("found %d invalid record types, want %d", count, len(want))
	}
}

func TestAllTypesInRangeDescribed(t *testing.T) {
	for rt := RecordType(0); rt <= maxRecordType; rt++ {
		if _, ok := describe(rt); !ok {
			t.Errorf("record type %d in 0..69 has no descriptor", rt)
		}
	}
	if _, ok := describe(RecordType(maxRecordType + 1)); ok {
		t.Errorf("record type %d should be out of range", maxRecordType+1)
	}
}
