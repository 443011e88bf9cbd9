package schema

// PieceNameTable represents the 'catalog.piecename' table
type PieceNameTable struct {
	Table     string
	ID        string
	PieceID   string
	Name      string
	CreatedAt string
	DeletedAt string
}

// PieceName is the schema definition for catalog.piecename
var PieceName = PieceNameTable{
	Table:     "catalog.piecename",
	ID:        "id",
	PieceID:   "pieceid",
	Name:      "name",
	CreatedAt: "createdat",
	DeletedAt: "deletedat",
}
