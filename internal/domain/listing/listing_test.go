package listing_test

import (
	"testing"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/stretchr/testify/require"
)

func TestOptions_NormalizeDefaults(t *testing.T) {
	opts, err := listing.Options{}.Normalize([]string{"id", "name"})
	require.NoError(t, err)
	require.Equal(t, 1, opts.Page)
	require.Equal(t, listing.DefaultLimit, opts.Limit)
	require.Equal(t, "id", opts.OrderBy)
	require.Equal(t, listing.Asc, opts.OrderType)
	require.Equal(t, 0, opts.Offset())
}

func TestOptions_NormalizeRejects(t *testing.T) {
	allowed := []string{"id"}
	cases := []listing.Options{
		{OrderBy: "password"},
		{OrderType: "sideways"},
		{Page: -1},
		{Limit: listing.MaxLimit + 1},
	}
	for _, tc := range cases {
		_, err := tc.Normalize(allowed)
		require.ErrorIs(t, err, listing.ErrInvalidOptions)
	}
}

func TestOptions_Offset(t *testing.T) {
	opts := listing.Options{Page: 3, Limit: 20}
	require.Equal(t, 40, opts.Offset())
}

func TestNewPage_EmptyObjects(t *testing.T) {
	page := listing.NewPage[int](nil, 0, listing.Options{Page: 1, Limit: 10})
	require.NotNil(t, page.Objects)
	require.Empty(t, page.Objects)
}
