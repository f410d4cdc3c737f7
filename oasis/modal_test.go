package oasis

import "testing"

func TestOptionalUnsetReturnsFallback(t *testing.T) {
	var o Optional[int64]
	if v := o.GetOr(9); v != 9 {
		t.Errorf("GetOr on unset = %d, want 9", v)
	}
	if o.IsSet() {
		t.Error("zero-value Optional should be unset")
	}
}

func TestOptionalSetAndClear(t *testing.T) {
	var o Optional[string]
	o.Set("layer9")
	v, ok := o.Get()
	if !ok || v != "layer9" {
		t.Errorf("Get() = %q, %v", v, ok)
	}
	o.Clear()
	if o.IsSet() {
		t.Error("Clear should unset the value")
	}
	if v := o.GetOr("default"); v != "default" {
		t.Errorf("GetOr after Clear = %q, want default", v)
	}
}

func TestModalStateResetClearsEverything(t *testing.T) {
	var m ModalState
	m.Layer.Set(3)
	m.GeometryX.Set(100)
	m.PlacementCell.Set("INVERTER")
	m.Reset()
	if m.Layer.IsSet() || m.GeometryX.IsSet() || m.PlacementCell.IsSet() {
		t.Error("Reset should clear every modal slot")
	}
}

func TestModalStateIndependentSlots(t *testing.T) {
	var m ModalState
	m.GeometryW.Set(5)
	if m.GeometryH.IsSet() {
		t.Error("setting width should not set height")
	}
}
