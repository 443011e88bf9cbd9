// Copyright (c) 2026 Fermata. All rights reserved.

package piece

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermata-app/fermata/internal/platform/database/schema"
)

/*
TestBuildListQuery_TagFilter compiles the tag filter to a single EXISTS over
live tag links with the whole id set bound as one array argument, so a piece
carrying any of the requested tags matches.
*/
func TestBuildListQuery_TagFilter(t *testing.T) {
	query, args := buildListQuery(Filter{TagIDs: []int{1, 4}}, 20, 0)

	require.Len(t, args, 3)
	assert.Equal(t, []int{1, 4}, args[0])
	assert.Equal(t, 20, args[1])
	assert.Equal(t, 0, args[2])

	assert.Contains(t, query, fmt.Sprintf("AND pt.%s = ANY($1)", schema.PieceTag.TagID))
	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
}

/*
TestBuildListQuery_NoFilters binds only the paging arguments when no filter
is set.
*/
func TestBuildListQuery_NoFilters(t *testing.T) {
	query, args := buildListQuery(Filter{}, 10, 40)

	require.Len(t, args, 2)
	assert.Equal(t, 10, args[0])
	assert.Equal(t, 40, args[1])

	assert.NotContains(t, query, "ANY(")
	assert.NotContains(t, query, "ILIKE")
	assert.Contains(t, query, "LIMIT $1 OFFSET $2")
}

/*
TestBuildListQuery_FilterArgumentOrder keeps placeholder numbering aligned
with the argument slice when every filter is present: name search, composer,
tag set, then paging.
*/
func TestBuildListQuery_FilterArgumentOrder(t *testing.T) {
	composerID := 7
	query, args := buildListQuery(Filter{
		Query:      "alhambra",
		ComposerID: &composerID,
		TagIDs:     []int{2},
	}, 10, 30)

	require.Len(t, args, 5)
	assert.Equal(t, "%alhambra%", args[0])
	assert.Equal(t, 7, args[1])
	assert.Equal(t, []int{2}, args[2])
	assert.Equal(t, 10, args[3])
	assert.Equal(t, 30, args[4])

	assert.Contains(t, query, "ILIKE $1")
	assert.Contains(t, query, fmt.Sprintf("AND pc.%s = $2", schema.Piece.ComposerID))
	assert.Contains(t, query, fmt.Sprintf("AND pt.%s = ANY($3)", schema.PieceTag.TagID))
	assert.Contains(t, query, "LIMIT $4 OFFSET $5")
}

/*
TestPopularQuery_Tiebreak orders by live favorite count descending with the
piece id ascending as the deterministic tiebreak.
*/
func TestPopularQuery_Tiebreak(t *testing.T) {
	query := popularQuery()

	assert.Contains(t, query,
		fmt.Sprintf("ORDER BY COALESCE(fav.favorite_count, 0) DESC, pc.%s ASC", schema.Piece.ID))
	assert.Contains(t, query, fmt.Sprintf("WHERE %s IS NULL", schema.Favorite.DeletedAt))
}

/*
TestDetailQuery_ArrangerRequiresLivePerson keeps the soft-delete filter
transitive: both person-name subqueries join the owning person row, so a
soft-deleted arranger contributes no names even though the arranger join
itself is optional.
*/
func TestDetailQuery_ArrangerRequiresLivePerson(t *testing.T) {
	query := detailQuery()

	livePersonJoin := fmt.Sprintf("JOIN %s pe ON pe.%s = pn.%s AND pe.%s IS NULL",
		schema.Person.Table, schema.Person.ID, schema.PersonName.PersonID, schema.Person.DeletedAt)
	assert.Equal(t, 2, strings.Count(query, livePersonJoin))

	arrangerOwner := fmt.Sprintf("pn.%s = pc.%s", schema.PersonName.PersonID, schema.Piece.ArrangerID)
	assert.Contains(t, query, arrangerOwner)
}
