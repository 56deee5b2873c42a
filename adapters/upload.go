package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/log"
)

var AllowedUploadExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

type UploadOutcome struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

type UploadReport struct {
	Outcomes  []UploadOutcome `json:"outcomes"`
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
}

// Percent is the share of files that made it to the backend.
func (r UploadReport) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return r.Completed * 100 / r.Total
}

func (r UploadReport) URLs() []string {
	out := []string{}
	for _, o := range r.Outcomes {
		if !o.Skipped {
			out = append(out, o.URL)
		}
	}
	return out
}

// FileProgress is told about every chunk sent for the file at index.
type FileProgress func(index int, name string, sent int64, total int64)

// CheckUpload applies the checks done before any byte is sent.
func CheckUpload(name string, size int64, maxBytes int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("filename is required")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !h.ContainsString(AllowedUploadExtensions, ext) {
		return fmt.Errorf("unsupported file type %q", ext)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("file too large (%d bytes, limit %d)", size, maxBytes)
	}
	return nil
}

// UploadAll sends the files one after the other. A file failing the checks or
// the request is skipped and reported; the others still go through.
func UploadAll(ctx context.Context, backend f.Backend, files []f.UploadFile, maxBytes int64, progress FileProgress) UploadReport {
	report := UploadReport{Total: len(files), Outcomes: make([]UploadOutcome, 0, len(files))}
	for index, file := range files {
		outcome := UploadOutcome{Name: file.Name}
		if err := CheckUpload(file.Name, file.Size, maxBytes); err != nil {
			outcome.Skipped = true
			outcome.Reason = err.Error()
			report.Outcomes = append(report.Outcomes, outcome)
			log.Warn("upload of %s skipped: %v", file.Name, err)
			continue
		}
		var cb f.Progress
		if progress != nil {
			cb = func(sent int64, total int64) {
				progress(index, file.Name, sent, total)
			}
		}
		res, err := backend.Upload(ctx, file, cb)
		if err != nil {
			outcome.Skipped = true
			outcome.Reason = err.Error()
			log.Warn("upload of %s failed: %v", file.Name, err)
		} else {
			outcome.URL = res.URL
			report.Completed++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	log.Info("%d/%d files uploaded", report.Completed, report.Total)
	return report
}
