package catalog

import (
	"reflect"
	"testing"
)

func TestPoolRebuild(t *testing.T) {
	pool := NewPool()
	pool.Rebuild(testProducts())

	if got := pool.Values(FacetStyle); !reflect.DeepEqual(got, []string{"休闲", "正式", "运动"}) {
		t.Errorf("Styles = %v", got)
	}
	if got := pool.Values(FacetScene); !reflect.DeepEqual(got, []string{"日常", "通勤"}) {
		t.Errorf("Scenes = %v", got)
	}

	// Rebuild discards previous contents, including ad-hoc values.
	pool.Add(FacetTag, "临时")
	pool.Rebuild(nil)
	for _, f := range Facets() {
		if got := pool.Values(f); len(got) != 0 {
			t.Errorf("Expected empty %s after rebuild, got %v", f, got)
		}
	}
}

func TestPoolAdd(t *testing.T) {
	pool := NewPool()
	pool.Rebuild(testProducts())

	if !pool.Add(FacetTag, "促销") {
		t.Error("New value should insert")
	}
	if pool.Add(FacetTag, "促销") {
		t.Error("Exact duplicate should be a no-op")
	}
	if pool.Add(FacetTag, "") {
		t.Error("Blank value should be a no-op")
	}

	// Sorted order is maintained after insertion.
	got := pool.Values(FacetTag)
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("Values not sorted: %v", got)
		}
	}
}
