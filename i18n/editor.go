package i18n

import (
	"context"
	"fmt"
	"sync"

	"github.com/soffa-projects/folio-web/errors"
	"github.com/soffa-projects/folio-web/log"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

var stateNames = map[State]string{
	StateIdle:    "idle",
	StateLoading: "loading",
	StateSuccess: "success",
	StateError:   "error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseState is the inverse of String. Unknown names map to idle.
func ParseState(name string) State {
	for state, n := range stateNames {
		if n == name {
			return state
		}
	}
	return StateIdle
}

type Event int

const (
	EventSubmit Event = iota
	EventAck
	EventFail
	EventOpen
)

var (
	ErrEditorBusy        = errors.Conflict("a translation update is already in progress")
	ErrInvalidTransition = errors.New("invalid editor transition")
)

// Next applies event to s. A submit from success or error counts as the
// user action that returns the editor to idle before it starts loading.
func (s State) Next(event Event) (State, error) {
	switch event {
	case EventOpen:
		if s == StateLoading {
			return s, nil
		}
		return StateIdle, nil
	case EventSubmit:
		if s == StateLoading {
			return s, ErrEditorBusy
		}
		return StateLoading, nil
	case EventAck:
		if s == StateLoading {
			return StateSuccess, nil
		}
	case EventFail:
		if s == StateLoading {
			return StateError, nil
		}
	}
	return s, ErrInvalidTransition
}

// Writer persists edited translations (POST /translations).
type Writer interface {
	UpdateTranslations(ctx context.Context, language string, values map[string]string) error
}

type Reloader interface {
	Reload(ctx context.Context) *Set
}

type Ack struct {
	Language     string `json:"language"`
	Keys         int    `json:"keys"`
	DefaultsOnly bool   `json:"defaultsOnly"`
}

// Editor writes translation edits back to the backend and refreshes the store.
// One editor is shared by the whole process so that at most one submission is in flight.
type Editor struct {
	writer   Writer
	reloader Reloader
	mu       sync.Mutex
	state    State
	lastErr  error
}

func NewEditor(writer Writer, reloader Reloader) *Editor {
	return &Editor{writer: writer, reloader: reloader}
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err is the failure of the last submission, nil unless the state is error.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Open returns a settled editor to idle.
func (e *Editor) Open() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state, _ = e.state.Next(EventOpen)
	if e.state == StateIdle {
		e.lastErr = nil
	}
	return e.state
}

// Submit validates the whole submission, sends it and reloads the store.
// Nothing is sent when any pair is rejected.
func (e *Editor) Submit(ctx context.Context, language string, values map[string]string) (Ack, error) {
	e.mu.Lock()
	next, err := e.state.Next(EventSubmit)
	if err != nil {
		e.mu.Unlock()
		return Ack{}, err
	}
	e.state = next
	e.lastErr = nil
	e.mu.Unlock()

	language = NormalizeLanguage(language)
	ack, err := e.submit(ctx, language, values)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state, _ = e.state.Next(EventFail)
		e.lastErr = err
		log.Warn("translation update for %q failed: %v", language, err)
		return Ack{}, err
	}
	e.state, _ = e.state.Next(EventAck)
	return ack, nil
}

func (e *Editor) submit(ctx context.Context, language string, values map[string]string) (Ack, error) {
	if err := ValidateSubmission(language, values); err != nil {
		return Ack{}, err
	}
	if err := e.writer.UpdateTranslations(ctx, language, values); err != nil {
		return Ack{}, err
	}
	ack := Ack{Language: language, Keys: len(values)}
	if e.reloader != nil {
		ack.DefaultsOnly = e.reloader.Reload(ctx).DefaultsOnly()
	}
	return ack, nil
}

// ValidateSubmission rejects an empty language, an empty submission or any malformed key.
func ValidateSubmission(language string, values map[string]string) error {
	if NormalizeLanguage(language) == "" {
		return errors.BadRequest("language is required")
	}
	if len(values) == 0 {
		return errors.BadRequest("no translations submitted")
	}
	for key := range values {
		if !ParsePath(key).Valid() {
			return errors.BadRequest(fmt.Sprintf("invalid translation key %q", key))
		}
	}
	return nil
}
