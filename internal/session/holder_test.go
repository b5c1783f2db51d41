package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/RecipeBox/internal/models"
)

func TestHolderStartReplacesSession(t *testing.T) {
	h := NewHolder()
	assert.Nil(t, h.Current())

	first := h.Start(&models.User{ID: 1, Username: "alice"})
	second := h.Start(&models.User{ID: 2, Username: "bob"})
	assert.NotEqual(t, first.ID, second.ID)

	cur := h.Current()
	require.NotNil(t, cur)
	assert.Equal(t, int64(2), cur.UserID)
	assert.Equal(t, "bob", cur.Username)
}

func TestHolderEnd(t *testing.T) {
	h := NewHolder()
	assert.Nil(t, h.End())

	h.Start(&models.User{ID: 7, Username: "carol"})
	ended := h.End()
	require.NotNil(t, ended)
	assert.Equal(t, int64(7), ended.UserID)
	assert.Nil(t, h.Current())
}

func TestHolderCurrentReturnsCopy(t *testing.T) {
	h := NewHolder()
	h.Start(&models.User{ID: 3, Username: "dave"})

	cur := h.Current()
	cur.Username = "mallory"

	assert.Equal(t, "dave", h.Current().Username)
}

func TestHolderConcurrentAccess(t *testing.T) {
	h := NewHolder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			h.Start(&models.User{ID: id, Username: "user"})
		}(int64(i + 1))
		go func() {
			defer wg.Done()
			_ = h.Current()
		}()
	}
	wg.Wait()

	assert.NotNil(t, h.Current())
}

func TestHolderEndIf(t *testing.T) {
	h := NewHolder()
	assert.False(t, h.EndIf(uuid.New()))

	stale := h.Start(&models.User{ID: 1, Username: "alice"})
	fresh := h.Start(&models.User{ID: 2, Username: "bob"})

	assert.False(t, h.EndIf(stale.ID))
	cur := h.Current()
	require.NotNil(t, cur)
	assert.Equal(t, fresh.ID, cur.ID)

	assert.True(t, h.EndIf(fresh.ID))
	assert.Nil(t, h.Current())
	assert.False(t, h.EndIf(fresh.ID))
}
