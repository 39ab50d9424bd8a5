package db

import (
	"context"
	"testing"

	"github.com/go-test/deep"
)

func TestDriver(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost/studio": "pgx",
		"postgresql://localhost/studio":   "pgx",
		"":                                "duckdb",
		".data/duckdb/studio.duckdb":      "duckdb",
	}
	for dsn, want := range tests {
		if got := Driver(dsn); got != want {
			t.Errorf("Driver(%q)=%q, want %q", dsn, got, want)
		}
	}
}

func TestSelect(t *testing.T) {
	q, err := SelectByID(DefaultTable)
	if err != nil {
		t.Fatal(err)
	}
	if q != "SELECT * FROM public.layers WHERE id = $1" {
		t.Errorf("query=%q", q)
	}
	for _, bad := range []string{"", "layers; DROP TABLE x", "a.b.c", "1layers"} {
		if _, err := SelectAll(bad); err == nil {
			t.Errorf("SelectAll(%q) accepted", bad)
		}
	}
}

func TestQueryMaps(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, Config{DSN: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`CREATE TABLE layers (id INTEGER, name VARCHAR, collection VARCHAR)`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO layers VALUES (1, 'A', NULL), (3, 'Countries', 'public.countries')`); err != nil {
		t.Fatal(err)
	}

	q, _ := SelectByID("layers")
	rows, err := QueryMaps(ctx, conn, q, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []map[string]any{{"id": int32(3), "name": "Countries", "collection": "public.countries"}}
	if diff := deep.Equal(rows, want); diff != nil {
		t.Error(diff)
	}

	rows, err = QueryMaps(ctx, conn, q, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("rows=%v, want none", rows)
	}
}

func TestOpenEmpty(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Error("empty config accepted")
	}
}

func TestTableFor(t *testing.T) {
	tests := map[string]string{
		"postgres://localhost/studio": DefaultTable,
		"studio.duckdb":               DefaultDuckDBTable,
		":memory:":                    DefaultDuckDBTable,
	}
	for dsn, want := range tests {
		if got := TableFor(dsn); got != want {
			t.Errorf("TableFor(%q)=%q, want %q", dsn, got, want)
		}
	}
}

func TestResolveTable(t *testing.T) {
	if got := ResolveTable("studio.duckdb", ""); got != "layers" {
		t.Errorf("duckdb default=%q", got)
	}
	if got := ResolveTable("postgres://localhost/studio", ""); got != "public.layers" {
		t.Errorf("postgres default=%q", got)
	}
	if got := ResolveTable("studio.duckdb", "main.studio_layers"); got != "main.studio_layers" {
		t.Errorf("override=%q", got)
	}
}
