package utils

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry[string, int]()

	for pos, name := range []string{"json", "cbor"} {
		err := RegistrySet(reg, name, pos)
		if nil != err {
			t.Fatalf("[%d] failed RegistrySet, got error %v", pos, err)
		}
	}

	err := RegistrySet(reg, "json", 7)
	if !errors.Is(err, ErrNameInUse) {
		t.Errorf("RegistrySet did not report ErrNameInUse, got %v", err)
	}

	v, found := RegistryGet(reg, "json")
	if !found || 0 != v {
		t.Errorf("RegistryGet returned %d, %v", v, found)
	}
	_, found = RegistryGet(reg, "xml")
	if found {
		t.Error("RegistryGet reports found on missing name")
	}

	names := RegistryNames(reg)
	if !slices.Equal(names, []string{"cbor", "json"}) {
		t.Errorf("invalid RegistryNames %v", names)
	}
}
