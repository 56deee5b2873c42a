package h

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
)

// WriteTempl renders into a pooled buffer first so a failing template never
// leaves a half written page behind a 200 status.
func WriteTempl(ctx context.Context, w http.ResponseWriter, status int, t templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := t.Render(ctx, buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}
