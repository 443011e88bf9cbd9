package schema

// PieceTable represents the 'catalog.piece' table
type PieceTable struct {
	Table           string
	ID              string
	ComposerID      string
	ArrangerID      string
	ParentPieceID   string
	CompositionYear string
	SheetMusicInfo  string
	CreatedAt       string
	CreatedBy       string
	DeletedAt       string
	DeletedBy       string
}

// Piece is the schema definition for catalog.piece
var Piece = PieceTable{
	Table:           "catalog.piece",
	ID:              "id",
	ComposerID:      "composerid",
	ArrangerID:      "arrangerid",
	ParentPieceID:   "parentpieceid",
	CompositionYear: "compositionyear",
	SheetMusicInfo:  "sheetmusicinfo",
	CreatedAt:       "createdat",
	CreatedBy:       "createdby",
	DeletedAt:       "deletedat",
	DeletedBy:       "deletedby",
}

func (t PieceTable) Columns() []string {
	return []string{
		t.ID, t.ComposerID, t.ArrangerID, t.ParentPieceID, t.CompositionYear,
		t.SheetMusicInfo, t.CreatedAt, t.CreatedBy, t.DeletedAt, t.DeletedBy,
	}
}
