package tiler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-test/deep"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

func TestGetTileJSON(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tilejson":"2.2.0","tiles":["http://tiles/{z}/{x}/{y}.png"],"minzoom":2,"maxzoom":9,"bounds":[50,20,60,30],"center":[55,25,4]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/", Token: "secret"})
	tj, err := c.GetTileJSON(context.Background(), "/tilejson.json", url.Values{"a": {"b"}})
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization=%q", gotAuth)
	}
	if gotQuery != "a=b" {
		t.Errorf("query=%q", gotQuery)
	}
	if tj.URL() != "http://tiles/{z}/{x}/{y}.png" {
		t.Errorf("URL()=%q", tj.URL())
	}
	if tj.Raw["tilejson"] != "2.2.0" {
		t.Errorf("raw tilejson=%v", tj.Raw["tilejson"])
	}
	want := map[string]any{
		"minzoom": 2,
		"maxzoom": 9,
		"bounds":  []float64{50, 20, 60, 30},
		"center":  []float64{55, 25, 4},
	}
	if diff := deep.Equal(tj.Summary(), want); diff != nil {
		t.Error(diff)
	}
}

func TestGetTileJSONStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such file", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).GetTileJSON(context.Background(), "/tilejson.json", nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err=%v, want *TransportError", err)
	}
	if te.StatusCode != http.StatusNotFound {
		t.Errorf("status=%d", te.StatusCode)
	}
}

func TestGetTileJSONUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(Config{BaseURL: base}).GetTileJSON(context.Background(), "/tilejson.json", nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err=%v, want *TransportError", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("status=%d, want 0", te.StatusCode)
	}
}

func TestGetTileJSONDecode(t *testing.T) {
	tests := map[string]string{
		"not json": `<html>oops</html>`,
		"no tiles": `{"tilejson":"2.2.0","tiles":[]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewClient(Config{BaseURL: srv.URL}).GetTileJSON(context.Background(), "/x", nil)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("err=%v, want *DecodeError", err)
			}
		})
	}
}

func TestTileJSONGeometry(t *testing.T) {
	tj := &TileJSON{Tiles: []string{"http://t/{z}/{x}/{y}.pbf"}}

	world := tj.Bound()
	if world.Min[0] != -180 || world.Max[0] != 180 {
		t.Errorf("default bound=%v", world)
	}
	if got := tj.CenterZoom(3); got != 3 {
		t.Errorf("CenterZoom=%d, want 3", got)
	}

	tj.Bounds = []float64{50, 20, 60, 30}
	if got := tj.CenterPoint(); got != (orb.Point{55, 25}) {
		t.Errorf("CenterPoint=%v", got)
	}

	got := tj.TileURL(maptile.New(5, 12, 4))
	if got != "http://t/4/5/12.pbf" {
		t.Errorf("TileURL=%q", got)
	}
}
