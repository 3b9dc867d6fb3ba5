package listview

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-tui/satchel/internal/api"
)

type row struct {
	ID   int
	Name string
}

func rowID(r row) int { return r.ID }

func loaded(items ...row) *Model[row] {
	m := New(rowID)
	m.BeginLoad()
	m.FinishLoad(items, nil)
	return m
}

func TestErrorSlotsAreIndependent(t *testing.T) {
	m := loaded(row{ID: 1, Name: "a"})

	m.BeginLoad()
	m.FinishLoad(nil, &api.Error{StatusCode: http.StatusInternalServerError, Message: "reload broke"})

	m.BeginCreate()
	m.FinishCreate(row{}, &api.Error{StatusCode: http.StatusBadRequest, Message: "title taken"})

	// Both errors remain visible at once.
	require.Error(t, m.LoadErr)
	assert.Nil(t, m.UpdateErr, "update slot untouched")
	assert.Equal(t, "reload broke", api.Message(m.LoadErr))
	assert.Equal(t, "title taken", api.Message(m.CreateErr))
	assert.Nil(t, m.DeleteErr)

	// A new create attempt clears only its own slot.
	m.BeginCreate()
	assert.Nil(t, m.CreateErr)
	assert.Error(t, m.LoadErr)
}

func TestFinishCreate_PrependsAndSelects(t *testing.T) {
	m := loaded(row{ID: 1, Name: "old"})

	m.BeginCreate()
	m.FinishCreate(row{ID: 2, Name: "new"}, nil)

	require.Equal(t, 2, m.Len())
	assert.Equal(t, 2, m.Items()[0].ID, "server record goes to the front")

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "new", sel.Name)
}

func TestFinishUpdate_SplicesByID(t *testing.T) {
	m := loaded(row{ID: 1, Name: "a"}, row{ID: 2, Name: "b"}, row{ID: 3, Name: "c"})

	m.BeginUpdate()
	m.FinishUpdate(row{ID: 2, Name: "b2"}, nil)

	items := m.Items()
	assert.Equal(t, []row{{ID: 1, Name: "a"}, {ID: 2, Name: "b2"}, {ID: 3, Name: "c"}}, items)
}

func TestFinishDelete_NeighborPrecedence(t *testing.T) {
	build := func() *Model[row] {
		return loaded(row{ID: 1}, row{ID: 2}, row{ID: 3})
	}

	// Deleting index 1 of three: selection moves to the item now at index 1.
	m := build()
	m.Select(2)
	m.BeginDelete()
	m.FinishDelete(2, m.Items(), nil)
	id, ok := m.SelectedID()
	require.True(t, ok)
	assert.Equal(t, 3, id)

	// Deleting the last item: previous index wins.
	m = build()
	m.Select(3)
	m.BeginDelete()
	m.FinishDelete(3, m.Items(), nil)
	id, ok = m.SelectedID()
	require.True(t, ok)
	assert.Equal(t, 2, id)

	// Deleting the only item: selection clears.
	m = loaded(row{ID: 9})
	m.Select(9)
	m.BeginDelete()
	m.FinishDelete(9, m.Items(), nil)
	_, ok = m.SelectedID()
	assert.False(t, ok)
}

func TestFinishDelete_UsesFilteredOrdering(t *testing.T) {
	m := loaded(row{ID: 1, Name: "x"}, row{ID: 2, Name: "match"}, row{ID: 3, Name: "match"}, row{ID: 4, Name: "match"})
	visible := m.Visible(func(r row) bool { return r.Name == "match" })
	require.Len(t, visible, 3)

	m.Select(3)
	m.BeginDelete()
	m.FinishDelete(3, visible, nil)

	// In the filtered list, 3 sat at index 1; 4 now occupies it.
	id, ok := m.SelectedID()
	require.True(t, ok)
	assert.Equal(t, 4, id)
	assert.Equal(t, 3, m.Len(), "item also removed from the full collection")
}

func TestFinishDelete_FailureKeepsItemAndSetsScopedError(t *testing.T) {
	m := loaded(row{ID: 1}, row{ID: 2})
	m.Select(1)

	m.BeginDelete()
	m.FinishDelete(1, m.Items(), &api.Error{StatusCode: http.StatusConflict, Message: "in use"})

	assert.Equal(t, 2, m.Len())
	assert.Error(t, m.DeleteErr)
	id, ok := m.SelectedID()
	require.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestCanceledOperationsClearBusyOnly(t *testing.T) {
	m := loaded(row{ID: 1})

	m.BeginLoad()
	m.FinishLoad(nil, context.Canceled)
	assert.False(t, m.Loading, "a canceled load must not leave the busy flag wedged")
	assert.Nil(t, m.LoadErr)
	assert.Equal(t, 1, m.Len())

	m.BeginCreate()
	m.FinishCreate(row{ID: 2}, context.Canceled)
	assert.False(t, m.Creating)
	assert.Nil(t, m.CreateErr)
	assert.Equal(t, 1, m.Len(), "canceled create adds nothing")

	m.BeginUpdate()
	m.FinishUpdate(row{ID: 1, Name: "changed"}, context.Canceled)
	assert.False(t, m.Updating)
	assert.Nil(t, m.UpdateErr)
	assert.Equal(t, "", m.Items()[0].Name, "canceled update splices nothing")

	m.BeginDelete()
	m.FinishDelete(1, m.Items(), context.Canceled)
	assert.False(t, m.Deleting)
	assert.Nil(t, m.DeleteErr)
	assert.Equal(t, 1, m.Len(), "canceled delete removes nothing")
}

func TestSelectedResolvesAgainstCurrentItems(t *testing.T) {
	m := loaded(row{ID: 1}, row{ID: 2})
	m.Select(2)

	m.BeginLoad()
	m.FinishLoad([]row{{ID: 1}}, nil)

	_, ok := m.Selected()
	assert.False(t, ok, "selection of a vanished item reads as none")
}

func TestCheckRequired(t *testing.T) {
	assert.NoError(t, CheckRequired(Field{Name: "title", Value: "x"}))

	err := CheckRequired(Field{Name: "title", Value: "ok"}, Field{Name: "front", Value: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front")
}
