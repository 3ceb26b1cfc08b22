package resources_test

import (
	"testing"

	"mindbloom-api/internal/resources"
)

func TestAll(t *testing.T) {
	all := resources.All()
	if len(all) == 0 {
		t.Fatal("empty directory")
	}
	seen := make(map[string]bool)
	for _, r := range all {
		if r.ID == "" || r.Name == "" {
			t.Errorf("incomplete entry: %+v", r)
		}
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestByID(t *testing.T) {
	r, ok := resources.ByID("1")
	if !ok {
		t.Fatal("id 1 missing")
	}
	if r.Name != "Campus Counseling Center" {
		t.Errorf("unexpected entry: %s", r.Name)
	}

	if _, ok := resources.ByID("does-not-exist"); ok {
		t.Error("unknown id resolved")
	}
}
