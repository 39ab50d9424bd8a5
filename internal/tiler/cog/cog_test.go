package cog

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-test/deep"

	"github.com/joeblew999/design-studio/internal/tiler"
)

func TestQueryEmptyStyle(t *testing.T) {
	for _, style := range []map[string]any{nil, {}} {
		q, err := Query(Request{Source: "a.tif", Style: style})
		if err != nil {
			t.Fatal(err)
		}
		if q.Get("url") != "a.tif" || q.Get("bidx") != "1" || q.Get("colormap") != "{}" {
			t.Errorf("query=%v", q)
		}
	}
}

func TestColormap(t *testing.T) {
	got, err := Colormap(map[string]any{
		"1": "#ff0000",
		"2": "rgba(0,128,255,0.5)",
		"3": []any{1, 2, 3, 255},
		"4": "#f00",
		"5": "#ff000080",
		"6": "red",
		"7": "#zzzzzzzz",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"1":[255,0,0,255],"2":[0,128,255,128],"3":[1,2,3,255],"4":[255,0,0,255],"5":[255,0,0,128],"6":"red","7":"#zzzzzzzz"}`
	if got != want {
		t.Errorf("Colormap=%s, want %s", got, want)
	}
}

func TestColormapUnserialisable(t *testing.T) {
	_, err := Colormap(map[string]any{"1": math.Inf(1)})
	if !errors.Is(err, ErrInvalidColormap) {
		t.Fatalf("err=%v, want ErrInvalidColormap", err)
	}
}

func TestTileJSON(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"tiles":["http://cog/tiles/{z}/{x}/{y}?url=a.tif"]}`))
	}))
	defer srv.Close()

	c := New(tiler.Config{BaseURL: srv.URL + "/tiler/cog"})
	tj, err := c.TileJSON(context.Background(), Request{Source: "a.tif"})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/tiler/cog/tilejson.json" {
		t.Errorf("path=%q", gotPath)
	}
	want := map[string][]string{"url": {"a.tif"}, "bidx": {"1"}, "colormap": {"{}"}}
	if diff := deep.Equal(gotQuery, want); diff != nil {
		t.Error(diff)
	}
	if tj.URL() != "http://cog/tiles/{z}/{x}/{y}?url=a.tif" {
		t.Errorf("URL=%q", tj.URL())
	}
}
