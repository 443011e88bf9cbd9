package schema

// PersonNameTable represents the 'catalog.personname' table
type PersonNameTable struct {
	Table     string
	ID        string
	PersonID  string
	Name      string
	CreatedAt string
	DeletedAt string
}

// PersonName is the schema definition for catalog.personname
var PersonName = PersonNameTable{
	Table:     "catalog.personname",
	ID:        "id",
	PersonID:  "personid",
	Name:      "name",
	CreatedAt: "createdat",
	DeletedAt: "deletedat",
}
