package query_test

import (
	"errors"
	"testing"

	"tabula/internal/domain"
	"tabula/internal/query"
)

func testRegistry() *domain.Registry {
	reg := domain.NewRegistry()
	reg.Add(&domain.TableSchema{
		Name: "users",
		Columns: []domain.ColumnInfo{
			{Name: "id", DataType: "integer", IsPrimaryKey: true},
			{Name: "name", DataType: "text"},
			{Name: "email", DataType: "text", Nullable: true},
		},
		PrimaryKey: "id",
	})
	reg.Add(&domain.TableSchema{
		Name: "events",
		Columns: []domain.ColumnInfo{
			{Name: "ts", DataType: "timestamp"},
			{Name: "payload", DataType: "text"},
		},
	})
	return reg
}

// ─────────────────────────────────────────────────────────────
// Select
// ─────────────────────────────────────────────────────────────

func TestSelect_DefaultsToPrimaryKeyOrder(t *testing.T) {
	b := query.NewBuilder(testRegistry())
	stmt, err := b.Select("users", "", "")
	if err != nil {
		t.Fatal(err)
	}
	want := `SELECT * FROM "users" ORDER BY "id" ASC`
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if len(stmt.Args) != 0 {
		t.Errorf("unexpected args: %v", stmt.Args)
	}
}

func TestSelect_NoPrimaryKeyNoOrdering(t *testing.T) {
	b := query.NewBuilder(testRegistry())
	stmt, err := b.Select("events", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if stmt.SQL != `SELECT * FROM "events"` {
		t.Errorf("SQL = %q", stmt.SQL)
	}
}

func TestSelect_ExplicitSort(t *testing.T) {
	b := query.NewBuilder(testRegistry())

	stmt, err := b.Select("users", "name", "desc")
	if err != nil {
		t.Fatal(err)
	}
	if stmt.SQL != `SELECT * FROM "users" ORDER BY "name" DESC` {
		t.Errorf("SQL = %q", stmt.SQL)
	}

	// Case-insensitive direction.
	stmt, err = b.Select("users", "name", "ASC")
	if err != nil {
		t.Fatal(err)
	}
	if stmt.SQL != `SELECT * FROM "users" ORDER BY "name" ASC` {
		t.Errorf("SQL = %q", stmt.SQL)
	}
}

func TestSelect_Errors(t *testing.T) {
	b := query.NewBuilder(testRegistry())

	if _, err := b.Select("missing", "", ""); !errors.Is(err, domain.ErrUnknownTable) {
		t.Errorf("unknown table: got %v", err)
	}
	if _, err := b.Select("users", "password", ""); !errors.Is(err, domain.ErrInvalidSortColumn) {
		t.Errorf("invalid column: got %v", err)
	}
	if _, err := b.Select("users", "name", "sideways"); !errors.Is(err, domain.ErrInvalidSortOrder) {
		t.Errorf("invalid order: got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Insert
// ─────────────────────────────────────────────────────────────

func TestInsert_ColumnsVerbatimFromRecord(t *testing.T) {
	b := query.NewBuilder(testRegistry())
	rec := domain.NewRecord()
	rec.Set("name", "Ann")
	rec.Set("email", "ann@example.com")

	stmt, err := b.Insert("users", rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `INSERT INTO "users" ("name", "email") VALUES ($1, $2) RETURNING *`
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if len(stmt.Args) != 2 || stmt.Args[0] != "Ann" {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestInsert_UnknownColumnNotPreValidated(t *testing.T) {
	// Column names are taken verbatim; an unknown one must still build
	// and surface later as a database error.
	b := query.NewBuilder(testRegistry())
	rec := domain.NewRecord()
	rec.Set("no_such_column", "x")

	stmt, err := b.Insert("users", rec)
	if err != nil {
		t.Fatal(err)
	}
	if stmt.SQL != `INSERT INTO "users" ("no_such_column") VALUES ($1) RETURNING *` {
		t.Errorf("SQL = %q", stmt.SQL)
	}
}

func TestInsert_Errors(t *testing.T) {
	b := query.NewBuilder(testRegistry())

	rec := domain.NewRecord()
	rec.Set("name", "Ann")
	if _, err := b.Insert("missing", rec); !errors.Is(err, domain.ErrUnknownTable) {
		t.Errorf("unknown table: got %v", err)
	}
	if _, err := b.Insert("users", domain.NewRecord()); !errors.Is(err, domain.ErrEmptyRecord) {
		t.Errorf("empty record: got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────

func TestUpdate_StripsPrimaryKey(t *testing.T) {
	b := query.NewBuilder(testRegistry())
	rec := domain.NewRecord()
	rec.Set("id", 99) // must never reach the SET clause
	rec.Set("name", "Ann2")

	stmt, err := b.Update("users", "1", rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `UPDATE "users" SET "name" = $1 WHERE "id" = $2 RETURNING *`
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if len(stmt.Args) != 2 || stmt.Args[0] != "Ann2" || stmt.Args[1] != "1" {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestUpdate_LeavesInputRecordIntact(t *testing.T) {
	b := query.NewBuilder(testRegistry())
	rec := domain.NewRecord()
	rec.Set("id", 99)
	rec.Set("name", "Ann2")

	if _, err := b.Update("users", "1", rec); err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 2 {
		t.Errorf("record has %d fields after Update, want 2", rec.Len())
	}
	if _, ok := rec.Get("id"); !ok {
		t.Error("primary-key field removed from the caller's record")
	}
}

func TestUpdate_Errors(t *testing.T) {
	b := query.NewBuilder(testRegistry())

	rec := domain.NewRecord()
	rec.Set("name", "x")
	if _, err := b.Update("missing", "1", rec); !errors.Is(err, domain.ErrUnknownTable) {
		t.Errorf("unknown table: got %v", err)
	}
	if _, err := b.Update("events", "1", rec); !errors.Is(err, domain.ErrMissingPrimaryKey) {
		t.Errorf("no primary key: got %v", err)
	}

	// Only the primary key submitted: nothing left to set.
	pkOnly := domain.NewRecord()
	pkOnly.Set("id", 7)
	if _, err := b.Update("users", "1", pkOnly); !errors.Is(err, domain.ErrEmptyRecord) {
		t.Errorf("pk-only record: got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────

func TestDelete_BuildsWhereOnPrimaryKey(t *testing.T) {
	b := query.NewBuilder(testRegistry())
	stmt, err := b.Delete("users", "42")
	if err != nil {
		t.Fatal(err)
	}
	if stmt.SQL != `DELETE FROM "users" WHERE "id" = $1` {
		t.Errorf("SQL = %q", stmt.SQL)
	}
	if len(stmt.Args) != 1 || stmt.Args[0] != "42" {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestDelete_Errors(t *testing.T) {
	b := query.NewBuilder(testRegistry())

	if _, err := b.Delete("missing", "1"); !errors.Is(err, domain.ErrUnknownTable) {
		t.Errorf("unknown table: got %v", err)
	}
	if _, err := b.Delete("events", "1"); !errors.Is(err, domain.ErrMissingPrimaryKey) {
		t.Errorf("no primary key: got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Identifier quoting
// ─────────────────────────────────────────────────────────────

func TestQuoting_EscapesEmbeddedQuotes(t *testing.T) {
	reg := domain.NewRegistry()
	reg.Add(&domain.TableSchema{
		Name: `odd"name`,
		Columns: []domain.ColumnInfo{
			{Name: "id", IsPrimaryKey: true},
		},
		PrimaryKey: "id",
	})
	b := query.NewBuilder(reg)

	stmt, err := b.Select(`odd"name`, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if stmt.SQL != `SELECT * FROM "odd""name" ORDER BY "id" ASC` {
		t.Errorf("SQL = %q", stmt.SQL)
	}
}
