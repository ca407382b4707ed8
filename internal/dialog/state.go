package dialog

import "sync"

// State identifies which step of a multi-step dialog a user is on.
type State int

const (
	Idle State = iota
	AwaitingTaskText
	AwaitingAlertText
	AwaitingAlertTime
	AwaitingEditText
	AwaitingDeleteConfirmation
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingTaskText:
		return "awaiting_task_text"
	case AwaitingAlertText:
		return "awaiting_alert_text"
	case AwaitingAlertTime:
		return "awaiting_alert_time"
	case AwaitingEditText:
		return "awaiting_edit_text"
	case AwaitingDeleteConfirmation:
		return "awaiting_delete_confirmation"
	}
	return "unknown"
}

// Conversation is the active dialog of one user: the state plus the
// partial values accumulated so far.
type Conversation struct {
	State     State
	TaskID    int64  // target of an edit or delete dialog
	AlertBody string // body collected by the add-alert dialog
}

// Store keeps at most one active conversation per user. In-memory and
// ephemeral: active dialogs do not survive a restart.
type Store struct {
	mu     sync.RWMutex
	active map[int64]Conversation
}

func NewStore() *Store {
	return &Store{active: make(map[int64]Conversation)}
}

// Get returns the user's conversation, or an Idle one if none is active.
func (s *Store) Get(userID int64) Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[userID]
}

func (s *Store) Put(userID int64, c Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[userID] = c
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, userID)
}
