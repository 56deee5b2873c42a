package adapters

import (
	"context"
	"strings"
	"testing"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/test"
)

func uploadFile(name string, content string) f.UploadFile {
	return f.UploadFile{Name: name, Size: int64(len(content)), Reader: strings.NewReader(content)}
}

func TestCheckUpload(t *testing.T) {
	assert := test.NewAssertions(t)

	assert.Nil(CheckUpload("photo.JPG", 10, 100))
	assert.Nil(CheckUpload("logo.svg", 10, 0))
	assert.NotNil(CheckUpload("", 10, 100))
	assert.NotNil(CheckUpload("notes.txt", 10, 100))
	assert.NotNil(CheckUpload("huge.png", 101, 100))
}

func TestUploadAll(t *testing.T) {
	assert := test.NewAssertions(t)
	client, fb := newClient(t)

	progress := map[int]int64{}
	report := UploadAll(adminContext(fb), client, []f.UploadFile{
		uploadFile("a.png", "aaaa"),
		uploadFile("b.exe", "bbbb"),
		uploadFile("c.webp", "cccccccc"),
	}, 1024, func(index int, name string, sent int64, total int64) {
		progress[index] = sent
	})

	assert.Equals(report.Total, 3)
	assert.Equals(report.Completed, 2)
	assert.Equals(report.Percent(), 66)
	assert.Len(report.URLs(), 2)
	assert.True(report.Outcomes[1].Skipped)
	assert.Contains(report.Outcomes[1].Reason, "unsupported file type")
	assert.Equals(progress[0], int64(4))
	assert.Equals(progress[2], int64(8))
	assert.Equals(fb.Uploads(), []string{"a.png", "c.webp"})
}

func TestUploadAll_BackendFailureSkipsFile(t *testing.T) {
	assert := test.NewAssertions(t)
	client, _ := newClient(t)

	// no bearer: every request is rejected
	report := UploadAll(context.Background(), client, []f.UploadFile{uploadFile("a.png", "a")}, 0, nil)
	assert.Equals(report.Completed, 0)
	assert.True(report.Outcomes[0].Skipped)
	assert.Equals(report.Percent(), 0)
	assert.Len(report.URLs(), 0)
}
