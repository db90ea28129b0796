package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversation(id string, messages ...Message) Conversation {
	return Conversation{
		ID:        id,
		Model:     "gpt-4o-mini",
		Title:     "test conversation",
		Messages:  messages,
		Timestamp: time.Now(),
	}
}

func TestStore_AddHistory(t *testing.T) {
	store := NewStore()

	err := store.AddHistory(newConversation("c1",
		Message{Role: RoleUser, Content: "Hello"},
		Message{Role: RoleAssistant, Content: "Hi there"},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	conv, ok := store.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "test conversation", conv.Title)
	assert.Len(t, conv.Messages, 2)
}

func TestStore_AddHistory_DuplicateID(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.AddHistory(newConversation("c1")))
	err := store.AddHistory(newConversation("c1"))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, store.Len())
}

func TestStore_UpdateHistoryMessages(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddHistory(newConversation("c1",
		Message{Role: RoleUser, Content: "Hello"},
		Message{Role: RoleAssistant, Content: "Hi there"},
	)))

	updated := []Message{
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Hi there"},
		{Role: RoleUser, Content: "How are you?"},
		{Role: RoleAssistant, Content: "Fine, thanks"},
	}
	require.NoError(t, store.UpdateHistoryMessages("c1", updated))
	assert.Equal(t, updated, store.GetMessages("c1"))
}

func TestStore_UpdateHistoryMessages_UnknownID(t *testing.T) {
	store := NewStore()

	err := store.UpdateHistoryMessages("missing", []Message{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetMessages_EmptyView(t *testing.T) {
	store := NewStore()

	// Both the empty id ("new conversation") and an unknown id read as an
	// empty sequence, never nil panics or errors.
	assert.Empty(t, store.GetMessages(""))
	assert.Empty(t, store.GetMessages("missing"))
}

func TestStore_GetMessages_ReturnsCopy(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddHistory(newConversation("c1",
		Message{Role: RoleUser, Content: "Hello"},
		Message{Role: RoleAssistant, Content: "Hi there"},
	)))

	messages := store.GetMessages("c1")
	messages[0].Content = "mutated"

	assert.Equal(t, "Hello", store.GetMessages("c1")[0].Content)
}

func TestStore_List_NewestFirst(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddHistory(newConversation("c1")))
	require.NoError(t, store.AddHistory(newConversation("c2")))
	require.NoError(t, store.AddHistory(newConversation("c3")))

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, "c3", list[0].ID)
	assert.Equal(t, "c2", list[1].ID)
	assert.Equal(t, "c1", list[2].ID)
}
