package domain

// ColumnInfo describes one column as reported by the database catalog.
type ColumnInfo struct {
	Name         string `json:"name"`
	DataType     string `json:"dataType"`
	Nullable     bool   `json:"nullable"`
	IsPrimaryKey bool   `json:"isPrimaryKey"`
}

// TableSchema is the introspected shape of a managed table.
// Built once at startup and read-only afterwards.
type TableSchema struct {
	Name       string       `json:"name"`
	Columns    []ColumnInfo `json:"columns"`
	PrimaryKey string       `json:"primaryKey,omitempty"` // empty when the table has none
}

// HasColumn reports whether the table has a column with the given name.
func (t *TableSchema) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ColumnNames returns the column names in catalog order.
func (t *TableSchema) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Registry maps table names to their schemas, preserving configuration order.
// It is populated by the catalog loader at startup and never mutated after,
// so concurrent reads need no locking.
type Registry struct {
	order   []string
	schemas map[string]*TableSchema
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*TableSchema)}
}

// Add registers a schema. A table added twice keeps its original position.
func (r *Registry) Add(s *TableSchema) {
	if _, ok := r.schemas[s.Name]; !ok {
		r.order = append(r.order, s.Name)
	}
	r.schemas[s.Name] = s
}

// Get returns the schema for a table, if it was introspected.
func (r *Registry) Get(name string) (*TableSchema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Tables returns the registered table names in configuration order.
func (r *Registry) Tables() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.order)
}
