package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

func TestIndexes_CreateAndList(t *testing.T) {
	m := newStorageManager(t)
	seedPets(t, m)

	require.NoError(t, m.Indexes.Create("type"))
	require.NoError(t, m.Indexes.Create("name"))

	fields, err := m.Indexes.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "type"}, fields)

	// indexed queries return the same results
	records, err := m.Queries.Equals(context.Background(), "type", "dog")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "3"}, recordIDs(records))

	require.NoError(t, m.Indexes.Drop("name"))
	fields, err = m.Indexes.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"type"}, fields)
}

func TestIndexes_Errors(t *testing.T) {
	m := newStorageManager(t)

	err := m.Indexes.Create("type")
	assert.ErrorIs(t, err, domain.ErrNoCurrentDatabase)

	seedPets(t, m)
	assert.ErrorIs(t, m.Indexes.Create(""), domain.ErrInvalidArgument)
	assert.ErrorIs(t, m.Indexes.Create("_id"), domain.ErrInvalidArgument)

	require.NoError(t, m.Indexes.Create("type"))
	assert.ErrorIs(t, m.Indexes.Create("type"), domain.ErrStorageWrite)
	assert.ErrorIs(t, m.Indexes.Drop("missing"), domain.ErrStorageWrite)
}

func TestIndexes_UnsupportedHandle(t *testing.T) {
	m := New(newFakeEngine(), nil)
	_, err := m.Registry.Open("pets")
	require.NoError(t, err)

	_, err = m.Indexes.List()
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
