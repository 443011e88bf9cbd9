package schema

// PieceTagTable represents the 'catalog.piecetag' table
type PieceTagTable struct {
	Table     string
	ID        string
	PieceID   string
	TagID     string
	CreatedAt string
	CreatedBy string
	DeletedAt string
}

// PieceTag is the schema definition for catalog.piecetag
var PieceTag = PieceTagTable{
	Table:     "catalog.piecetag",
	ID:        "id",
	PieceID:   "pieceid",
	TagID:     "tagid",
	CreatedAt: "createdat",
	CreatedBy: "createdby",
	DeletedAt: "deletedat",
}
