package i18n

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/soffa-projects/folio-web/errors"
)

type fakeWriter struct {
	sent    []map[string]string
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeWriter) UpdateTranslations(ctx context.Context, language string, values map[string]string) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, values)
	return nil
}

type fakeReloader struct {
	reloads int
	set     *Set
}

func (f *fakeReloader) Reload(ctx context.Context) *Set {
	f.reloads++
	return f.set
}

func TestStateTransitions(t *testing.T) {
	cases := []struct {
		from  State
		event Event
		to    State
		err   error
	}{
		{StateIdle, EventSubmit, StateLoading, nil},
		{StateLoading, EventAck, StateSuccess, nil},
		{StateLoading, EventFail, StateError, nil},
		{StateSuccess, EventOpen, StateIdle, nil},
		{StateError, EventOpen, StateIdle, nil},
		{StateIdle, EventOpen, StateIdle, nil},
		{StateSuccess, EventSubmit, StateLoading, nil},
		{StateLoading, EventSubmit, StateLoading, ErrEditorBusy},
		{StateLoading, EventOpen, StateLoading, nil},
		{StateIdle, EventAck, StateIdle, ErrInvalidTransition},
		{StateError, EventFail, StateError, ErrInvalidTransition},
	}
	for _, c := range cases {
		to, err := c.from.Next(c.event)
		assert.Equal(t, to, c.to)
		assert.Equal(t, err, c.err)
	}
}

func TestStateNames(t *testing.T) {
	for _, s := range []State{StateIdle, StateLoading, StateSuccess, StateError} {
		assert.Equal(t, ParseState(s.String()), s)
	}
	assert.Equal(t, ParseState("garbage"), StateIdle)
	assert.Equal(t, State(42).String(), "state(42)")
}

func TestEditorSubmit(t *testing.T) {
	writer := &fakeWriter{}
	reloader := &fakeReloader{set: Defaults()}
	editor := NewEditor(writer, reloader)
	assert.Equal(t, editor.State(), StateIdle)

	ack, err := editor.Submit(context.Background(), " RU ", map[string]string{"hero.badge": "Свободен"})
	assert.Equal(t, err, nil)
	assert.Equal(t, ack, Ack{Language: "ru", Keys: 1})
	assert.Equal(t, editor.State(), StateSuccess)
	assert.Equal(t, len(writer.sent), 1)
	assert.Equal(t, reloader.reloads, 1)

	assert.Equal(t, editor.Open(), StateIdle)
}

func TestEditorRejectsWholeSubmission(t *testing.T) {
	writer := &fakeWriter{}
	reloader := &fakeReloader{set: Defaults()}
	editor := NewEditor(writer, reloader)

	_, err := editor.Submit(context.Background(), "en", map[string]string{
		"hero.badge": "ok",
		"hero..bad":  "not ok",
	})
	assert.NotEqual(t, err, nil)
	assert.Equal(t, errors.GetStatusCode(err), http.StatusBadRequest)
	assert.Equal(t, editor.State(), StateError)
	assert.Equal(t, editor.Err(), err)
	assert.Equal(t, len(writer.sent), 0)
	assert.Equal(t, reloader.reloads, 0)

	_, err = editor.Submit(context.Background(), "", map[string]string{"hero.badge": "x"})
	assert.NotEqual(t, err, nil)
	_, err = editor.Submit(context.Background(), "en", nil)
	assert.NotEqual(t, err, nil)
	assert.Equal(t, len(writer.sent), 0)

	editor.Open()
	assert.Equal(t, editor.State(), StateIdle)
	assert.Equal(t, editor.Err(), nil)
}

func TestEditorWriteFailure(t *testing.T) {
	writer := &fakeWriter{err: errors.Upstream(http.StatusInternalServerError, "boom")}
	reloader := &fakeReloader{set: Defaults()}
	editor := NewEditor(writer, reloader)

	_, err := editor.Submit(context.Background(), "en", map[string]string{"hero.badge": "x"})
	assert.Equal(t, errors.GetStatusCode(err), http.StatusBadGateway)
	assert.Equal(t, editor.State(), StateError)
	assert.Equal(t, reloader.reloads, 0)
}

func TestEditorBusy(t *testing.T) {
	writer := &fakeWriter{block: make(chan struct{}), entered: make(chan struct{})}
	editor := NewEditor(writer, &fakeReloader{set: Defaults()})

	done := make(chan error)
	go func() {
		_, err := editor.Submit(context.Background(), "en", map[string]string{"hero.badge": "x"})
		done <- err
	}()
	<-writer.entered
	assert.Equal(t, editor.State(), StateLoading)

	_, err := editor.Submit(context.Background(), "en", map[string]string{"hero.badge": "y"})
	assert.Equal(t, err, ErrEditorBusy)
	assert.Equal(t, editor.Open(), StateLoading)

	close(writer.block)
	assert.Equal(t, <-done, nil)
	assert.Equal(t, editor.State(), StateSuccess)
	assert.Equal(t, len(writer.sent), 1)
}

func TestEditorReportsDefaultsOnly(t *testing.T) {
	editor := NewEditor(&fakeWriter{}, &fakeReloader{set: defaultsOnly(Defaults())})
	ack, err := editor.Submit(context.Background(), "en", map[string]string{"hero.badge": "x"})
	assert.Equal(t, err, nil)
	assert.Equal(t, ack.DefaultsOnly, true)
}
