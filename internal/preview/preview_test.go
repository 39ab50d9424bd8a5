package preview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/joeblew999/design-studio/internal/service"
)

func TestAddVectorStyles(t *testing.T) {
	m := New("")
	m.AddVector("Countries", service.LayerTileInfo{
		URL:       "http://f/{z}/{x}/{y}.pbf",
		LayerName: "countries",
		Info:      map[string]any{"styles": service.Style{"fill": true, "color": "#333"}},
	})
	m.AddVector("Rivers", service.LayerTileInfo{
		URL:       "http://f/rivers/{z}/{x}/{y}.pbf",
		LayerName: "rivers",
		Info:      map[string]any{"styles": service.Style{}},
	})

	want := map[string]any{
		"vectorTileLayerStyles": map[string]any{
			"countries": map[string]any{"fill": true, "color": "#333"},
		},
	}
	if diff := deep.Equal(m.Overlays[0].Options, want); diff != nil {
		t.Error(diff)
	}
	if m.Overlays[1].Options != nil {
		t.Errorf("unstyled layer options=%v", m.Overlays[1].Options)
	}
}

func TestAdd(t *testing.T) {
	m := New("")
	raster := service.Layer{ID: 1, Name: "LCI", Type: service.KindRaster}
	if err := m.Add(raster, service.LayerTileInfo{URL: "http://cog/{z}/{x}/{y}"}, 0); err != nil {
		t.Fatal(err)
	}
	if o := m.Overlays[0]; o.Kind != OverlayTile || o.Opacity != 1 || o.Name != "LCI" {
		t.Errorf("overlay=%+v", o)
	}

	err := m.Add(service.Layer{Type: "mesh"}, service.LayerTileInfo{}, 1)
	if !errors.Is(err, service.ErrInvalidType) {
		t.Errorf("err=%v, want ErrInvalidType", err)
	}
}

func TestRender(t *testing.T) {
	m := New("Studio <test>")
	m.AddRaster("Land Cover", service.LayerTileInfo{URL: "http://cog/{z}/{x}/{y}.png"}, 0.5)

	var buf bytes.Buffer
	if err := Render(&buf, m); err != nil {
		t.Fatal(err)
	}
	page := buf.String()
	compact := strings.Join(strings.Fields(page), "")
	for _, want := range []string{
		"<title>Studio &lt;test&gt;</title>",
		`"url":"http://cog/{z}/{x}/{y}.png"`,
		`"opacity":0.5`,
		"setView([25,55],3)",
		`<lidata-kind="tile">LandCover</li>`,
	} {
		if !strings.Contains(page, want) && !strings.Contains(compact, want) {
			t.Errorf("page does not contain %q", want)
		}
	}
}

func TestRenderFragmentEmpty(t *testing.T) {
	got, err := RenderFragment(New(""))
	if err != nil {
		t.Fatal(err)
	}
	if got != "<li>No layers</li>" {
		t.Errorf("fragment=%q", got)
	}
}
