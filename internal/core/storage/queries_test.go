package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEventQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   EventQuery
		wantErr string
	}{
		{name: "defaults", query: EventQuery{GroupBy: "customer_country", Item: "track"}},
		{name: "weighted", query: EventQuery{GroupBy: "billing_city", Item: "genre", Weight: "revenue"}},
		{name: "unknown group", query: EventQuery{GroupBy: "continent", Item: "track"}, wantErr: `group_by "continent"`},
		{name: "unknown item", query: EventQuery{GroupBy: "customer_country", Item: "playlist"}, wantErr: `item "playlist"`},
		{name: "unknown weight", query: EventQuery{GroupBy: "customer_country", Item: "track", Weight: "discount"}, wantErr: `weight "discount"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEventQuery(tc.query)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrUnknownDimension)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLookupGroup_ListsChoices(t *testing.T) {
	_, err := LookupGroup("continent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "billing_city, billing_country, customer_country")
}

func TestBuildEventQuery(t *testing.T) {
	query, err := BuildEventQuery(EventQuery{GroupBy: "customer_country", Item: "artist", Weight: "quantity"})
	require.NoError(t, err)

	assert.Contains(t, query, "c.Country AS group_key")
	assert.Contains(t, query, "al.ArtistId AS item_key")
	assert.Contains(t, query, "NULL AS unit_price")
	assert.Contains(t, query, "ii.Quantity AS quantity")
	assert.Contains(t, query, "JOIN tracks t")
	assert.Contains(t, query, "JOIN albums al")
	assert.Contains(t, query, "WHERE c.Country IS NOT NULL")
	assert.Contains(t, query, "AND al.ArtistId IS NOT NULL")
}

func TestBuildEventQuery_RevenueSelectsPriceAndQuantity(t *testing.T) {
	query, err := BuildEventQuery(EventQuery{GroupBy: "billing_country", Item: "album", Weight: "revenue"})
	require.NoError(t, err)

	assert.Contains(t, query, "ii.UnitPrice AS unit_price, ii.Quantity AS quantity")
	assert.NotContains(t, query, "ii.UnitPrice * ii.Quantity")
}

func TestBuildEventQuery_NoWeight(t *testing.T) {
	query, err := BuildEventQuery(EventQuery{GroupBy: "billing_country", Item: "track"})
	require.NoError(t, err)

	assert.Contains(t, query, "NULL AS unit_price, NULL AS quantity")
	assert.NotContains(t, query, "JOIN tracks t")
}

func TestBuildPushdownQuery(t *testing.T) {
	query, err := BuildPushdownQuery(EventQuery{GroupBy: "customer_country", Item: "track"})
	require.NoError(t, err)

	for _, cte := range []string{"group_item_counts AS", "group_max_counts AS", "group_winners AS"} {
		assert.Contains(t, query, cte)
	}
	assert.Contains(t, query, "MAX(gic.item_key) AS item_key")
	assert.Contains(t, query, "LEFT JOIN (SELECT t.TrackId AS item_key")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(query), "ORDER BY gw.group_key ASC"))
}

func TestBuildPushdownQuery_RequiresIntegerKeys(t *testing.T) {
	saved := ItemDimensions["track"]
	t.Cleanup(func() { ItemDimensions["track"] = saved })

	textKeys := saved
	textKeys.IntegerKeys = false
	ItemDimensions["track"] = textKeys

	_, err := BuildPushdownQuery(EventQuery{GroupBy: "customer_country", Item: "track"})
	require.ErrorContains(t, err, "no integer keys")
}

func TestBuildAttributeQuery(t *testing.T) {
	query, keyColumn, err := BuildAttributeQuery("album")
	require.NoError(t, err)
	assert.Equal(t, "al.AlbumId", keyColumn)
	assert.Contains(t, query, "al.Title AS display_name")
	assert.NotContains(t, query, "WHERE")

	_, _, err = BuildAttributeQuery("playlist")
	require.ErrorIs(t, err, ErrUnknownDimension)
}
