package domain_test

import (
	"encoding/json"
	"testing"

	"tabula/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Record — ordered field mapping
// ─────────────────────────────────────────────────────────────

func TestRecord_PreservesInsertionOrder(t *testing.T) {
	r := domain.NewRecord()
	r.Set("zebra", 1)
	r.Set("apple", 2)
	r.Set("mango", 3)

	got := r.Keys()
	want := []string{"zebra", "apple", "mango"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecord_SetExistingKeyKeepsPosition(t *testing.T) {
	r := domain.NewRecord()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 99)

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if r.Keys()[0] != "a" {
		t.Errorf("first key = %q, want a", r.Keys()[0])
	}
	v, _ := r.Get("a")
	if v != 99 {
		t.Errorf("a = %v, want 99", v)
	}
}

func TestRecord_DeletePreservesRemainingOrder(t *testing.T) {
	r := domain.NewRecord()
	r.Set("id", 1)
	r.Set("name", "Ann")
	r.Set("email", "ann@example.com")

	r.Delete("name")

	keys := r.Keys()
	if len(keys) != 2 || keys[0] != "id" || keys[1] != "email" {
		t.Fatalf("keys after delete = %v", keys)
	}
	if _, ok := r.Get("name"); ok {
		t.Error("deleted key still present")
	}
}

func TestRecord_MarshalJSONOrdered(t *testing.T) {
	r := domain.NewRecord()
	r.Set("z", 1)
	r.Set("a", "two")
	r.Set("m", nil)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"z":1,"a":"two","m":null}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestRecord_UnmarshalJSONPreservesKeyOrder(t *testing.T) {
	r := domain.NewRecord()
	if err := json.Unmarshal([]byte(`{"name":"Ann","age":30,"tags":["x","y"],"meta":{"a":1}}`), r); err != nil {
		t.Fatal(err)
	}

	keys := r.Keys()
	want := []string{"name", "age", "tags", "meta"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	age, _ := r.Get("age")
	if n, ok := age.(json.Number); !ok || n.String() != "30" {
		t.Errorf("age = %#v, want json.Number 30", age)
	}
}

func TestRecord_UnmarshalRejectsNonObject(t *testing.T) {
	r := domain.NewRecord()
	if err := json.Unmarshal([]byte(`[1,2,3]`), r); err == nil {
		t.Fatal("expected error for JSON array")
	}
}

// ─────────────────────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────────────────────

func TestRegistry_ConfigurationOrder(t *testing.T) {
	reg := domain.NewRegistry()
	reg.Add(&domain.TableSchema{Name: "users"})
	reg.Add(&domain.TableSchema{Name: "articles"})
	reg.Add(&domain.TableSchema{Name: "comments"})

	tables := reg.Tables()
	want := []string{"users", "articles", "comments"}
	for i := range want {
		if tables[i] != want[i] {
			t.Fatalf("tables = %v, want %v", tables, want)
		}
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := domain.NewRegistry()
	if _, ok := reg.Get("ghosts"); ok {
		t.Fatal("expected lookup miss for unregistered table")
	}
}

func TestTableSchema_HasColumn(t *testing.T) {
	s := &domain.TableSchema{
		Name: "users",
		Columns: []domain.ColumnInfo{
			{Name: "id"}, {Name: "name"},
		},
	}
	if !s.HasColumn("name") {
		t.Error("expected name to be present")
	}
	if s.HasColumn("password") {
		t.Error("unexpected column password")
	}
}
