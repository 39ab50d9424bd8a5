package api

import (
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// links maps operation paths to their RFC 8288 Link header values.
var links = map[string][]string{
	"/health": {
		`</api/v1/info>; rel="info"`,
		`</layers>; rel="layers"`,
	},
	"/api/v1/info": {
		`</health>; rel="health"`,
		`</layers>; rel="layers"`,
	},
	"/layers": {
		`</raster_tiles>; rel="raster-tiles"`,
		`</vector_tiles>; rel="vector-tiles"`,
		`</preview>; rel="preview"`,
	},
	"/api/v1/layers/{id}": {
		`</layers>; rel="collection"`,
	},
	"/raster_tiles": {
		`</layers>; rel="layers"`,
	},
	"/vector_tiles": {
		`</layers>; rel="layers"`,
	},
	"/api/v1/tables/layers": {
		`</layers>; rel="registry"`,
	},
	"/api/v1/tables/layers/{id}": {
		`</api/v1/tables/layers>; rel="collection"`,
	},
}

// LinkTransformer returns a Huma Transformer that injects RFC 8288 Link headers.
func LinkTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range links[op.Path] {
			ctx.AppendHeader("Link", link)
		}

		// Item endpoints get a self link
		if strings.Contains(op.Path, "{") {
			u := ctx.URL()
			ctx.AppendHeader("Link", fmt.Sprintf(`<%s>; rel="self"`, u.Path))
		}

		return v, nil
	}
}
