package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("datasets").
		Where(Eq("source_kind", "url")).
		OrderBy("loaded_at DESC", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM datasets WHERE source_kind = $1 ORDER BY loaded_at DESC, id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "url" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InCondition(t *testing.T) {
	query, args, err := Select("id").
		From("datasets").
		Where(In("id", []any{"a", "b"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM datasets WHERE id IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "a" || args[1] != "b" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("dataset_matches").
		Columns("dataset_id", "position").
		Values("ds-1", 0).
		Values("ds-1", 1).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO dataset_matches (dataset_id, position) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("dataset_matches").
		Where(Eq("dataset_id", "ds-1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM dataset_matches WHERE dataset_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "ds-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("dataset_matches").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without conditions")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID   string `db:"id"`
		Name string `db:"name"`
		Skip string `db:"-"`
	}

	query, args, err := InsertModel("datasets", row{ID: "ds-1", Name: "epl"}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO datasets (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "ds-1" || args[1] != "epl" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
