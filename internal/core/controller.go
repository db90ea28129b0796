package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okynos/localchat/internal/chat"
	"github.com/okynos/localchat/internal/history"
)

// Controller drives one active conversation slot: it turns a submitted
// question into a completion request, keeps the optimistic question visible
// while the request is in flight, and commits the resulting exchange to the
// history store only on confirmed success.
//
// At most one request is outstanding at a time; a Submit while one is in
// flight is rejected outright (the UI disables resubmission too, this guard
// makes the invariant hold regardless of the caller).
type Controller struct {
	mu        sync.Mutex
	store     *history.Store
	completer chat.Completer
	params    chat.GenerationParams

	newID    func() string
	navigate func(id string)
	onChange func()
	now      func() time.Time

	activeID           string // "" means a new, not yet persisted conversation
	optimisticQuestion string
	inFlight           bool
	lastErr            error
}

type ControllerOption func(*Controller)

// WithIDGenerator overrides conversation id generation.
func WithIDGenerator(fn func() string) ControllerOption {
	return func(c *Controller) { c.newID = fn }
}

// WithNavigator registers the callback invoked with the id of a newly
// persisted conversation, after persistence and never before.
func WithNavigator(fn func(id string)) ControllerOption {
	return func(c *Controller) { c.navigate = fn }
}

// WithChangeListener registers a callback fired after every observable state
// transition, outside the controller lock.
func WithChangeListener(fn func()) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

// WithClock overrides the conversation timestamp source.
func WithClock(fn func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = fn }
}

func NewController(store *history.Store, completer chat.Completer, params chat.GenerationParams, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:     store,
		completer: completer,
		params:    params,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs one question through the completion backend and commits the
// exchange. Empty or whitespace-only input is silently ignored. The call
// blocks until the request resolves; the owning service runs it on its event
// loop goroutine and observes intermediate state through the change listener.
func (c *Controller) Submit(ctx context.Context, text string) {
	query := strings.TrimSpace(text)
	if query == "" {
		return
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.lastErr = nil
	c.optimisticQuestion = query
	slot := c.activeID
	base := c.store.GetMessages(slot)
	c.mu.Unlock()

	c.notifyChange()

	outgoing := append(base, history.Message{Role: history.RoleUser, Content: query})
	answer, err := c.completer.Complete(ctx, outgoing, c.params)

	navigateTo := c.resolve(slot, base, query, answer, err)
	c.notifyChange()
	if navigateTo != "" && c.navigate != nil {
		c.navigate(navigateTo)
	}
}

// resolve applies the outcome of one completion request. It returns the id of
// a newly created conversation when navigation should fire.
func (c *Controller) resolve(slot string, base []history.Message, question, answer string, err error) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false

	// The active slot moved while the request was outstanding; the result
	// belongs to a conversation the user already left, drop it.
	if c.activeID != slot {
		c.optimisticQuestion = ""
		return ""
	}

	if err != nil {
		c.lastErr = err
		return ""
	}

	pair := []history.Message{
		{Role: history.RoleUser, Content: question},
		{Role: history.RoleAssistant, Content: answer},
	}

	if slot == "" {
		id := c.newID()
		conv := history.Conversation{
			ID:        id,
			Model:     c.params.Model,
			Title:     question,
			Messages:  pair,
			Timestamp: c.now(),
		}
		if addErr := c.store.AddHistory(conv); addErr != nil {
			c.lastErr = addErr
			return ""
		}
		c.activeID = id
		c.optimisticQuestion = ""
		return id
	}

	if updateErr := c.store.UpdateHistoryMessages(slot, append(base, pair...)); updateErr != nil {
		// Unknown id here means the slot state and the store disagree,
		// which is a bug, not a user-facing condition.
		c.lastErr = updateErr
		return ""
	}
	c.optimisticQuestion = ""
	return ""
}

// Regenerate removes the last user/assistant pair of the active conversation
// and resubmits the removed question through the normal Submit path. It does
// nothing for a conversation that has not been persisted yet or has fewer
// than two messages.
func (c *Controller) Regenerate(ctx context.Context) {
	c.mu.Lock()
	if c.inFlight || c.activeID == "" {
		c.mu.Unlock()
		return
	}
	id := c.activeID
	c.mu.Unlock()

	messages := c.store.GetMessages(id)
	if len(messages) < 2 {
		return
	}

	lastUser := messages[len(messages)-2]
	if err := c.store.UpdateHistoryMessages(id, messages[:len(messages)-2]); err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		c.notifyChange()
		return
	}

	c.Submit(ctx, lastUser.Content)
}

// SelectConversation switches the active slot. Switching while a request is
// in flight is allowed; the outstanding result then targets a stale slot and
// is dropped when it resolves.
func (c *Controller) SelectConversation(id string) {
	c.mu.Lock()
	c.activeID = id
	c.optimisticQuestion = ""
	c.lastErr = nil
	c.mu.Unlock()

	c.notifyChange()
}

// NewConversation switches to the empty, not-yet-persisted slot.
func (c *Controller) NewConversation() {
	c.SelectConversation("")
}

// ChatMessages is the derived view for presentation: the persisted messages
// of the active conversation with the optimistic question appended while its
// request has not resolved successfully.
func (c *Controller) ChatMessages() []history.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := c.store.GetMessages(c.activeID)
	if c.optimisticQuestion != "" {
		messages = append(messages, history.Message{
			Role:    history.RoleUser,
			Content: c.optimisticQuestion,
		})
	}
	return messages
}

func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Controller) IsError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr != nil
}

func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) notifyChange() {
	if c.onChange != nil {
		c.onChange()
	}
}
