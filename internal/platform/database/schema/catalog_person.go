package schema

// PersonTable represents the 'catalog.person' table
type PersonTable struct {
	Table     string
	ID        string
	Bio       string
	BirthYear string
	DeathYear string
	Country   string
	CreatedAt string
	CreatedBy string
	DeletedAt string
	DeletedBy string
}

// Person is the schema definition for catalog.person
var Person = PersonTable{
	Table:     "catalog.person",
	ID:        "id",
	Bio:       "bio",
	BirthYear: "birthyear",
	DeathYear: "deathyear",
	Country:   "country",
	CreatedAt: "createdat",
	CreatedBy: "createdby",
	DeletedAt: "deletedat",
	DeletedBy: "deletedby",
}

func (t PersonTable) Columns() []string {
	return []string{t.ID, t.Bio, t.BirthYear, t.DeathYear, t.Country, t.CreatedAt, t.CreatedBy, t.DeletedAt, t.DeletedBy}
}
