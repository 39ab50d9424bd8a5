package service

import (
	"errors"
	"testing"
)

func TestDefaultLayers(t *testing.T) {
	s, err := NewLayerService(DefaultLayers()...)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len=%d, want 3", s.Len())
	}
	for _, l := range s.List() {
		got, err := s.Lookup(l.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Type != KindRaster && got.Type != KindVector {
			t.Errorf("layer %d has type %q", l.ID, got.Type)
		}
	}

	countries, _ := s.Lookup(3)
	if countries.Type != KindVector || countries.Source != "public.countries" {
		t.Errorf("layer 3=%+v", countries)
	}
}

func TestLayerServiceListOrdered(t *testing.T) {
	s, err := NewLayerService(
		Layer{ID: 9, Name: "c", Type: KindVector, Source: "public.c"},
		Layer{ID: 2, Name: "a", Type: KindRaster, Source: "a.tif"},
		Layer{ID: 5, Name: "b", Type: KindRaster, Source: "b.tif"},
	)
	if err != nil {
		t.Fatal(err)
	}
	list := s.List()
	for i, want := range []int{2, 5, 9} {
		if list[i].ID != want {
			t.Errorf("List()[%d].ID=%d, want %d", i, list[i].ID, want)
		}
	}

	list[0].Name = "changed"
	if l, _ := s.Lookup(2); l.Name != "a" {
		t.Error("List returned shared storage")
	}
}

func TestLayerServiceRejects(t *testing.T) {
	_, err := NewLayerService(Layer{ID: 1, Type: "mesh"})
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("unknown type: err=%v, want ErrInvalidType", err)
	}

	_, err = NewLayerService(
		Layer{ID: 1, Type: KindRaster},
		Layer{ID: 1, Type: KindVector},
	)
	if err == nil {
		t.Error("duplicate id accepted")
	}
}

func TestLookupNotFound(t *testing.T) {
	for _, s := range []*LayerService{EmptyLayerService(), mustLayers(t, DefaultLayers()...)} {
		if _, err := s.Lookup(42); !errors.Is(err, ErrNotFound) {
			t.Errorf("err=%v, want ErrNotFound", err)
		}
	}
}

func mustLayers(t *testing.T, layers ...Layer) *LayerService {
	t.Helper()
	s, err := NewLayerService(layers...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
