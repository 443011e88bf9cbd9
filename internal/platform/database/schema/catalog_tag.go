package schema

// TagTable represents the 'catalog.tag' table
type TagTable struct {
	Table     string
	ID        string
	Name      string
	CreatedAt string
	CreatedBy string
	DeletedAt string
	DeletedBy string
}

// Tag is the schema definition for catalog.tag
var Tag = TagTable{
	Table:     "catalog.tag",
	ID:        "id",
	Name:      "name",
	CreatedAt: "createdat",
	CreatedBy: "createdby",
	DeletedAt: "deletedat",
	DeletedBy: "deletedby",
}

func (t TagTable) Columns() []string {
	return []string{t.ID, t.Name, t.CreatedAt, t.CreatedBy, t.DeletedAt, t.DeletedBy}
}
