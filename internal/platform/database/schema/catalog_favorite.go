package schema

// FavoriteTable represents the 'catalog.favorite' table
type FavoriteTable struct {
	Table     string
	ID        string
	UserID    string
	PieceID   string
	CreatedAt string
	DeletedAt string
}

// Favorite is the schema definition for catalog.favorite.
// A UNIQUE (userid, pieceid) index backs the toggle reactivation path.
var Favorite = FavoriteTable{
	Table:     "catalog.favorite",
	ID:        "id",
	UserID:    "userid",
	PieceID:   "pieceid",
	CreatedAt: "createdat",
	DeletedAt: "deletedat",
}
