//go:build integration

// Integration tests against a running studio server: go run ./cmd/studio
//
// Run: go test -tags=integration ./pkg/studioclient/
package studioclient_test

import (
	"context"
	"os"
	"testing"

	"github.com/joeblew999/design-studio/pkg/studioclient"
)

func baseURL() string {
	if u := os.Getenv("STUDIO_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8087"
}

func client() *studioclient.Client {
	return studioclient.New(baseURL())
}

func TestIntegrationHealth(t *testing.T) {
	status, err := client().Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status != "ok" {
		t.Fatalf("status=%q, want ok", status)
	}
}

func TestIntegrationLayers(t *testing.T) {
	layers, err := client().ListLayers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(layers) == 0 {
		t.Skip("registry is empty")
	}
	for _, l := range layers {
		if l["type"] != "raster" && l["type"] != "vector" {
			t.Errorf("layer %v has type %v", l["id"], l["type"])
		}
	}
}

func TestIntegrationTiles(t *testing.T) {
	c := client()
	ctx := context.Background()

	layers, err := c.ListLayers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range layers {
		id, err := l["id"].(interface{ Int64() (int64, error) }).Int64()
		if err != nil {
			t.Fatal(err)
		}
		var info *studioclient.TileInfo
		switch l["type"] {
		case "raster":
			info, err = c.RasterTiles(ctx, int(id), nil)
		case "vector":
			info, err = c.VectorTiles(ctx, int(id))
		}
		if err != nil {
			t.Logf("layer %d: %v (is the tile backend running?)", id, err)
			continue
		}
		if info.URL == "" {
			t.Errorf("layer %d: empty url", id)
		}
	}
}
