// Package session implements the ephemeral interaction state machine that
// backs component-driven command flows. Each command invocation owns exactly
// one Session: component events mutate it until a terminal transition fires
// (explicit resolve or timeout), after which further events are ignored and
// the session is deregistered.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// HandlerFunc reacts to one component event belonging to a session.
type HandlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate, sess *Session)

// Options configures a new session.
type Options struct {
	// ID scopes component custom ids to this invocation. The interaction id
	// is a good choice: unique and free of separator characters.
	ID string
	// UserID, when set, restricts events to the original invoker.
	UserID string
	// Timeout is the listener window. With ResetOnEvent it is a quiescence
	// window restarted by every accepted event; otherwise a hard wall clock.
	Timeout      time.Duration
	ResetOnEvent bool
	// OnExpire runs when the window elapses before a terminal resolve. It
	// receives the number of events the session accepted.
	OnExpire func(collected int)
}

// Session is the per-invocation state machine. Command flows attach their
// mutable state (page index, pending action, active phrase) to handler
// closures over their own structs; the session only owns routing, the
// timeout and the exactly-once terminal flag.
type Session struct {
	id           string
	userID       string
	timeout      time.Duration
	resetOnEvent bool
	onExpire     func(int)
	manager      *Manager

	// runMu serializes handler execution: events belonging to one session
	// are handled one at a time, in arrival order at the mutex.
	runMu sync.Mutex

	mu        sync.Mutex
	terminal  bool
	collected int
	lastEvent time.Time
	handlers  map[string]HandlerFunc
	timer     *time.Timer
}

// Manager routes component interactions to live sessions. One manager is
// shared by the whole process; sessions are independent and never observe
// each other.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start registers a new session and arms its timeout.
func (m *Manager) Start(opts Options) *Session {
	sess := &Session{
		id:           opts.ID,
		userID:       opts.UserID,
		timeout:      opts.Timeout,
		resetOnEvent: opts.ResetOnEvent,
		onExpire:     opts.OnExpire,
		manager:      m,
		handlers:     make(map[string]HandlerFunc),
	}
	sess.timer = time.AfterFunc(opts.Timeout, sess.expire)

	m.mu.Lock()
	m.sessions[opts.ID] = sess
	m.mu.Unlock()
	return sess
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Dispatch routes a component interaction to its session. It reports false
// when no live session claims the custom id, so the caller can tell the
// user the interaction has expired. The gateway delivers each event on its
// own goroutine; delivery into one session is serialized regardless.
func (m *Manager) Dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	customID := i.MessageComponentData().CustomID
	id, component, ok := strings.Cut(customID, ":")
	if !ok {
		return false
	}

	m.mu.Lock()
	sess, found := m.sessions[id]
	m.mu.Unlock()
	if !found {
		return false
	}
	return sess.deliver(s, i, component)
}

// deliver runs the handler registered for component. Handlers of one session
// never overlap: a second event arriving mid-handler waits its turn, and is
// swallowed if the first handler resolved the session in the meantime.
func (sess *Session) deliver(s *discordgo.Session, i *discordgo.InteractionCreate, component string) bool {
	sess.runMu.Lock()
	defer sess.runMu.Unlock()

	sess.mu.Lock()
	if sess.terminal {
		sess.mu.Unlock()
		return true // late event on a finished session, swallow it
	}
	if sess.userID != "" && interactionUserID(i) != sess.userID {
		sess.mu.Unlock()
		return true
	}
	handler, registered := sess.handlers[component]
	if !registered {
		sess.mu.Unlock()
		return true
	}
	sess.collected++
	sess.lastEvent = time.Now()
	if sess.resetOnEvent {
		sess.timer.Reset(sess.timeout)
	}
	sess.mu.Unlock()

	handler(s, i, sess)
	return true
}

// Handle registers the callback for one component of this session.
func (sess *Session) Handle(component string, h HandlerFunc) {
	sess.mu.Lock()
	sess.handlers[component] = h
	sess.mu.Unlock()
}

// ComponentID builds the custom id for one of this session's components.
func (sess *Session) ComponentID(component string) string {
	return sess.id + ":" + component
}

// Resolve performs the terminal transition. Only the first call wins; it
// stops the timeout and deregisters the session. Returns whether this call
// was the one that terminated the session.
func (sess *Session) Resolve() bool {
	sess.mu.Lock()
	if sess.terminal {
		sess.mu.Unlock()
		return false
	}
	sess.terminal = true
	sess.timer.Stop()
	sess.mu.Unlock()

	sess.manager.remove(sess.id)
	return true
}

// Collected reports how many events the session has accepted.
func (sess *Session) Collected() int {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.collected
}

func (sess *Session) expire() {
	sess.mu.Lock()
	if sess.terminal {
		sess.mu.Unlock()
		return
	}
	// The timer can fire while an event accepted right at the window
	// boundary is still resetting it. A fresh lastEvent means the window
	// restarted: re-arm for the remainder instead of terminating.
	if sess.resetOnEvent && !sess.lastEvent.IsZero() {
		if remaining := sess.timeout - time.Since(sess.lastEvent); remaining > 0 {
			sess.timer.Reset(remaining)
			sess.mu.Unlock()
			return
		}
	}
	sess.terminal = true
	collected := sess.collected
	sess.mu.Unlock()

	sess.manager.remove(sess.id)
	if sess.onExpire == nil {
		return
	}
	// Wait out any handler still running so expiry cleanup never
	// interleaves with it.
	sess.runMu.Lock()
	sess.onExpire(collected)
	sess.runMu.Unlock()
}

// interactionUserID returns the invoking user regardless of whether the
// interaction came from a guild or a DM.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
