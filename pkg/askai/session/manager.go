package session

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/askai/pagination"

	"github.com/google/uuid"
)

// ErrBusy is returned when a submit is attempted while another question is
// still in flight for this manager.
var ErrBusy = errors.New("a question is already in flight for this session")

const defaultSessionTitle = "Unnamed session"

// Manager is the authoritative in-memory holder of QueryState for one entity
// context. All mutations go through named operations; observers read
// consistent snapshots. Local state updates are synchronous; remote
// persistence is fire-and-forget and never blocks a navigation operation.
type Manager struct {
	mu     sync.Mutex
	svc    askai.QueryService
	window *pagination.Window
	logger *log.Logger

	state askai.QueryState
}

// NewManager creates a session manager scoped to one entity context.
func NewManager(svc askai.QueryService, window *pagination.Window, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{svc: svc, window: window, logger: logger}
}

// Window exposes the pagination window bound to this manager.
func (m *Manager) Window() *pagination.Window {
	return m.window
}

// Snapshot returns a deep copy of the current QueryState. Callers may keep
// or mutate the copy freely.
func (m *Manager) Snapshot() askai.QueryState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyStateLocked()
}

func (m *Manager) copyStateLocked() askai.QueryState {
	s := m.state
	s.Conversation = copyItems(m.state.Conversation)
	s.Sessions = make([]askai.ConversationSession, len(m.state.Sessions))
	for i, sess := range m.state.Sessions {
		s.Sessions[i] = copySession(sess)
	}
	return s
}

func copyItems(items []askai.ConversationItem) []askai.ConversationItem {
	if items == nil {
		return nil
	}
	out := make([]askai.ConversationItem, len(items))
	for i, it := range items {
		it.Sources = append([]string(nil), it.Sources...)
		out[i] = it
	}
	return out
}

func copySession(s askai.ConversationSession) askai.ConversationSession {
	s.Items = copyItems(s.Items)
	if s.LastAccessedAt != nil {
		t := *s.LastAccessedAt
		s.LastAccessedAt = &t
	}
	return s
}

// LoadConversations fetches the session list for the given scope. On success
// it replaces the session set and activates the most recent session (or a
// fresh empty one when the scope has no history). On failure the prior state
// is left untouched and only Error is set.
func (m *Manager) LoadConversations(ctx context.Context, scope askai.Scope) error {
	sessions, err := m.svc.ListSessions(ctx, scope)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.state.Error = err.Error()
		m.logger.Printf("[SESSION] Load failed for %s/%s: %v", scope.EntityType, scope.EntityID, err)
		return err
	}

	m.state.CurrentEntityID = scope.EntityID
	m.state.CurrentEntityType = scope.EntityType
	m.state.CurrentContextID = scope.ContextID
	m.state.Sessions = make([]askai.ConversationSession, len(sessions))
	for i, s := range sessions {
		m.state.Sessions[i] = copySession(s)
	}
	m.state.Error = ""

	if len(m.state.Sessions) == 0 {
		m.appendFreshSessionLocked()
		return nil
	}

	// Activate the most recently created session.
	sort.SliceStable(m.state.Sessions, func(i, j int) bool {
		return m.state.Sessions[i].CreatedAt.Before(m.state.Sessions[j].CreatedAt)
	})
	m.activateLocked(m.state.Sessions[len(m.state.Sessions)-1].ID)
	return nil
}

// CreateNewSession appends a new empty session, activates it and clears the
// conversation view. The remote create is not awaited.
func (m *Manager) CreateNewSession(ctx context.Context, entityID string) askai.ConversationSession {
	m.mu.Lock()
	if entityID != "" {
		m.state.CurrentEntityID = entityID
	}
	created := m.appendFreshSessionLocked()
	m.mu.Unlock()
	return created
}

// appendFreshSessionLocked creates a local session, activates it and kicks
// off fire-and-forget persistence.
func (m *Manager) appendFreshSessionLocked() askai.ConversationSession {
	sess := askai.ConversationSession{
		ID:        uuid.NewString(),
		Title:     defaultSessionTitle,
		CreatedAt: time.Now(),
	}
	m.state.Sessions = append(m.state.Sessions, sess)
	m.activateLocked(sess.ID)

	scope := m.scopeLocked()
	go func(s askai.ConversationSession) {
		if _, err := m.svc.CreateSession(context.Background(), scope, s); err != nil {
			m.logger.Printf("[SESSION] Persist create failed for %s: %v", s.ID, err)
		}
	}(copySession(sess))

	return copySession(sess)
}

func (m *Manager) scopeLocked() askai.Scope {
	return askai.Scope{
		EntityID:   m.state.CurrentEntityID,
		EntityType: m.state.CurrentEntityType,
		ContextID:  m.state.CurrentContextID,
	}
}

// SwitchToSession activates sessionID and replaces the conversation view
// with that session's items. Unknown ids are a silent no-op.
func (m *Manager) SwitchToSession(entityID, sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOfLocked(sessionID)
	if idx < 0 {
		return false
	}
	now := time.Now()
	m.state.Sessions[idx].LastAccessedAt = &now
	m.activateLocked(sessionID)

	scope := m.scopeLocked()
	go func(s askai.ConversationSession) {
		if err := m.svc.SaveSession(context.Background(), scope, s); err != nil {
			m.logger.Printf("[SESSION] Persist access time failed for %s: %v", s.ID, err)
		}
	}(copySession(m.state.Sessions[idx]))
	return true
}

// DeleteSession removes the session locally and fires the remote delete
// without awaiting it. Deleting the active session falls back to the most
// recently created remaining session, or to an empty ephemeral state.
func (m *Manager) DeleteSession(ctx context.Context, entityID, sessionID string) {
	m.mu.Lock()

	idx := m.indexOfLocked(sessionID)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	wasActive := m.state.ActiveSessionID == sessionID
	m.state.Sessions = append(m.state.Sessions[:idx], m.state.Sessions[idx+1:]...)
	scope := m.scopeLocked()
	if entityID != "" {
		scope.EntityID = entityID
	}

	if wasActive {
		if next := m.mostRecentLocked(); next != "" {
			m.activateLocked(next)
		} else {
			m.state.ActiveSessionID = ""
			m.state.ActiveConversationID = ""
			m.state.Conversation = nil
			m.resetWindowLocked()
		}
	}
	m.mu.Unlock()

	go func() {
		if err := m.svc.DeleteSession(context.Background(), scope, sessionID); err != nil {
			m.logger.Printf("[SESSION] Persist delete failed for %s: %v", sessionID, err)
		}
	}()
}

// ClearConversation detaches the manager into an ephemeral scratch state.
// No persisted session is deleted; used when a dialog is opened fresh for a
// specific item/context.
func (m *Manager) ClearConversation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Conversation = nil
	m.state.ActiveConversationID = ""
	m.state.ActiveSessionID = ""
	m.state.Error = ""
	m.resetWindowLocked()
}

// activateLocked swaps the active session and conversation view atomically.
func (m *Manager) activateLocked(sessionID string) {
	idx := m.indexOfLocked(sessionID)
	if idx < 0 {
		return
	}
	m.state.ActiveSessionID = sessionID
	m.state.ActiveConversationID = sessionID
	m.state.Conversation = copyItems(m.state.Sessions[idx].Items)
	m.resetWindowLocked()
}

func (m *Manager) resetWindowLocked() {
	if m.window != nil {
		m.window.Reset()
	}
}

func (m *Manager) indexOfLocked(sessionID string) int {
	for i, s := range m.state.Sessions {
		if s.ID == sessionID {
			return i
		}
	}
	return -1
}

func (m *Manager) mostRecentLocked() string {
	best := -1
	for i, s := range m.state.Sessions {
		if best < 0 || s.CreatedAt.After(m.state.Sessions[best].CreatedAt) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return m.state.Sessions[best].ID
}

// BeginSubmit appends a pending placeholder for question and marks the
// manager loading. It returns the session id the in-flight request is tagged
// with and whether this is the first question of the conversation; a
// resolution for a session that is no longer active is routed to that
// session's stored items, never to the live conversation view. Only one
// submit may be in flight at a time.
func (m *Manager) BeginSubmit(question string) (sessionID string, first bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.IsLoading {
		return "", false, ErrBusy
	}
	first = len(m.state.Conversation) == 0

	item := askai.ConversationItem{
		Question:        question,
		Timestamp:       time.Now(),
		IsAnswerPending: true,
	}

	if m.state.ActiveSessionID == "" && m.state.ActiveConversationID == "" {
		// Ephemeral scratch conversation for dialog-scoped questions.
		m.state.ActiveConversationID = uuid.NewString()
	}
	if idx := m.indexOfLocked(m.state.ActiveSessionID); idx >= 0 {
		m.state.Sessions[idx].Items = append(m.state.Sessions[idx].Items, item)
	}
	m.state.Conversation = append(m.state.Conversation, item)
	m.state.IsLoading = true
	m.state.Error = ""

	return m.state.ActiveSessionID, first, nil
}

// ResolveSubmit replaces the pending placeholder with the resolved answer.
// sessionID is the tag returned by BeginSubmit; a stale resolution lands on
// the originating session's stored items and leaves the live view alone.
func (m *Manager) ResolveSubmit(sessionID string, ans askai.Answer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsLoading = false
	resolve := func(items []askai.ConversationItem) bool {
		i := lastPending(items)
		if i < 0 {
			return false
		}
		items[i].Answer = ans.Answer
		items[i].Sources = append([]string(nil), ans.Sources...)
		items[i].Confidence = ans.Confidence
		items[i].IsAnswerPending = false
		return true
	}

	if idx := m.indexOfLocked(sessionID); idx >= 0 {
		resolve(m.state.Sessions[idx].Items)
	}
	if sessionID == m.state.ActiveSessionID {
		resolve(m.state.Conversation)
	}
	// Session deleted mid-flight: the answer is dropped silently.
}

// FailSubmit marks the pending placeholder failed (keep-with-flag policy, so
// the question text survives for resubmission). Stale failures never surface
// an error to the live view.
func (m *Manager) FailSubmit(sessionID, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsLoading = false
	fail := func(items []askai.ConversationItem) {
		if i := lastPending(items); i >= 0 {
			items[i].IsAnswerPending = false
			items[i].IsFailed = true
		}
	}

	if idx := m.indexOfLocked(sessionID); idx >= 0 {
		fail(m.state.Sessions[idx].Items)
	}
	if sessionID == m.state.ActiveSessionID {
		fail(m.state.Conversation)
		m.state.Error = message
	}
}

func lastPending(items []askai.ConversationItem) int {
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].IsAnswerPending {
			return i
		}
	}
	return -1
}
