package oasis

import "testing"

func TestValidRecordID(t *testing.T) {
	if !validRecordID(RecPad) || !validRecordID(RecCBlock) {
		t.Error("boundary record IDs should be valid")
	}
	if validRecordID(RecordID(35)) {
		t.Error("35 is past the last defined record ID")
	}
}

func TestNameKindString(t *testing.T) {
	cases := map[NameKind]string{
		NameCell:       "cellname",
		NameText:       "textstring",
		NamePropName:   "propname",
		NamePropString: "propstring",
		NameLayer:      "layername",
		NameXName:      "xname",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
