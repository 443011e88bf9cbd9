package schema

// VideoTable represents the 'catalog.video' table
type VideoTable struct {
	Table      string
	ID         string
	PieceID    string
	URL        string
	Status     string
	ApprovedBy string
	CreatedAt  string
	CreatedBy  string
	DeletedAt  string
	DeletedBy  string
}

// Video is the schema definition for catalog.video
var Video = VideoTable{
	Table:      "catalog.video",
	ID:         "id",
	PieceID:    "pieceid",
	URL:        "url",
	Status:     "status",
	ApprovedBy: "approvedby",
	CreatedAt:  "createdat",
	CreatedBy:  "createdby",
	DeletedAt:  "deletedat",
	DeletedBy:  "deletedby",
}

func (t VideoTable) Columns() []string {
	return []string{t.ID, t.PieceID, t.URL, t.Status, t.ApprovedBy, t.CreatedAt, t.CreatedBy, t.DeletedAt, t.DeletedBy}
}
