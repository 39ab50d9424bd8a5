package features

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joeblew999/design-studio/internal/tiler"
)

func backend(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/public.countries/tilejson.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(tiler.Config{BaseURL: srv.URL})
}

func TestTileJSON(t *testing.T) {
	c := backend(t, `{"tiles":["http://f/{z}/{x}/{y}.pbf"],"vector_layers":[{"id":"default"},{"id":"labels"}]}`)

	tj, err := c.TileJSON(context.Background(), "public.countries")
	if err != nil {
		t.Fatal(err)
	}
	if got := LayerName(tj); got != "default" {
		t.Errorf("LayerName=%q, want default", got)
	}
	if len(tj.VectorLayers) != 2 || tj.VectorLayers[1].ID != "labels" {
		t.Errorf("vector_layers=%+v", tj.VectorLayers)
	}
}

func TestTileJSONWithoutVectorLayers(t *testing.T) {
	c := backend(t, `{"tiles":["http://f/{z}/{x}/{y}.pbf"]}`)

	_, err := c.TileJSON(context.Background(), "public.countries")
	var de *tiler.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err=%v, want *DecodeError", err)
	}
}

func TestPath(t *testing.T) {
	if got := Path("public.countries"); got != "/collections/public.countries/tilejson.json" {
		t.Errorf("Path=%q", got)
	}
}
