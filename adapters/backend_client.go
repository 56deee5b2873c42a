package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/errors"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/i18n"
	"github.com/soffa-projects/folio-web/log"
)

// ------------------------------------------------------------------------------------------------------------------
// PORTFOLIO API CLIENT
// ------------------------------------------------------------------------------------------------------------------

type BackendClient struct {
	client *resty.Client
}

func NewBackendClient(baseUrl string, timeout time.Duration) *BackendClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseUrl, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	log.Info("portfolio api: %s", baseUrl)
	return &BackendClient{client: client}
}

func (b *BackendClient) request(ctx context.Context) *resty.Request {
	req := b.client.R().SetContext(ctx)
	if token := f.BearerFrom(ctx); token != "" {
		req = req.SetAuthToken(token)
	}
	return req
}

// check turns a transport error or a non-2xx answer into a CustomError.
func check(resp *resty.Response, err error, operation string) error {
	if err != nil {
		return errors.Unreachable(err)
	}
	if !resp.IsError() {
		return nil
	}
	message := detail(resp)
	if message == "" {
		message = fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode())
	}
	log.Debug("%s: backend answered %d: %s", operation, resp.StatusCode(), message)
	if resp.StatusCode() == http.StatusUnauthorized {
		return errors.Unauthorized(message)
	}
	return errors.Upstream(resp.StatusCode(), message)
}

// detail extracts the message of an api error body ({"detail": "..."} or a
// validation list of {"msg": "..."}).
func detail(resp *resty.Response) string {
	body := h.NewJsonValue(resp.String())
	if msg := body.String("detail.0.msg"); msg != "" {
		return msg
	}
	return body.String("detail")
}

func (b *BackendClient) Ping(ctx context.Context) error {
	resp, err := b.request(ctx).Get("/")
	return check(resp, err, "ping")
}

func (b *BackendClient) FetchOverrides(ctx context.Context) ([]i18n.Override, error) {
	var out []i18n.Override
	resp, err := b.request(ctx).SetResult(&out).Get("/translations")
	if err := check(resp, err, "fetch translations"); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BackendClient) UpdateTranslations(ctx context.Context, language string, values map[string]string) error {
	resp, err := b.request(ctx).
		SetBody(map[string]any{"language": language, "translations": values}).
		Post("/translations")
	return check(resp, err, "update translations")
}

func (b *BackendClient) Login(ctx context.Context, credentials f.Credentials) (f.Token, error) {
	var out f.Token
	resp, err := b.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": credentials.Username,
			"password": credentials.Password,
		}).
		SetResult(&out).
		Post("/token")
	if err := check(resp, err, "login"); err != nil {
		return f.Token{}, err
	}
	if out.AccessToken == "" {
		return f.Token{}, errors.Upstream(http.StatusBadGateway, "login: empty access token")
	}
	return out, nil
}

func (b *BackendClient) VerifyToken(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
		User   string `json:"user"`
	}
	resp, err := b.request(ctx).SetResult(&out).Get("/auth/verify")
	if err := check(resp, err, "verify token"); err != nil {
		return "", err
	}
	return out.User, nil
}

func (b *BackendClient) ListProjects(ctx context.Context, skip int, limit int) ([]f.Project, error) {
	var out []f.Project
	resp, err := b.request(ctx).
		SetQueryParam("skip", fmt.Sprint(skip)).
		SetQueryParam("limit", fmt.Sprint(limit)).
		SetResult(&out).
		Get("/projects/")
	if err := check(resp, err, "list projects"); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BackendClient) GetProject(ctx context.Context, id int) (f.Project, error) {
	var out f.Project
	resp, err := b.request(ctx).SetResult(&out).Get(fmt.Sprintf("/projects/%d", id))
	if err := check(resp, err, "get project"); err != nil {
		return f.Project{}, err
	}
	return out, nil
}

func (b *BackendClient) CreateProject(ctx context.Context, project f.Project) (f.Project, error) {
	var out f.Project
	project.ID = 0
	resp, err := b.request(ctx).SetBody(project).SetResult(&out).Post("/projects/")
	if err := check(resp, err, "create project"); err != nil {
		return f.Project{}, err
	}
	return out, nil
}

func (b *BackendClient) UpdateProject(ctx context.Context, id int, project f.Project) (f.Project, error) {
	var out f.Project
	project.ID = 0
	resp, err := b.request(ctx).SetBody(project).SetResult(&out).Put(fmt.Sprintf("/projects/%d", id))
	if err := check(resp, err, "update project"); err != nil {
		return f.Project{}, err
	}
	return out, nil
}

func (b *BackendClient) DeleteProject(ctx context.Context, id int) error {
	resp, err := b.request(ctx).Delete(fmt.Sprintf("/projects/%d", id))
	return check(resp, err, "delete project")
}

func (b *BackendClient) GetCV(ctx context.Context) (f.CV, error) {
	var out f.CV
	resp, err := b.request(ctx).SetResult(&out).Get("/cv")
	if err := check(resp, err, "get cv"); err != nil {
		return f.CV{}, err
	}
	return out, nil
}

func (b *BackendClient) UpdateCV(ctx context.Context, cv f.CV) (f.CV, error) {
	var out f.CV
	cv.ID = 0
	resp, err := b.request(ctx).SetBody(cv).SetResult(&out).Put("/cv")
	if err := check(resp, err, "update cv"); err != nil {
		return f.CV{}, err
	}
	return out, nil
}

func (b *BackendClient) SendContact(ctx context.Context, message f.ContactMessage) error {
	resp, err := b.request(ctx).SetBody(message).Post("/contact")
	return check(resp, err, "send contact message")
}

func (b *BackendClient) Upload(ctx context.Context, file f.UploadFile, progress f.Progress) (f.UploadResult, error) {
	var out f.UploadResult
	reader := file.Reader
	if progress != nil {
		reader = &progressReader{reader: file.Reader, total: file.Size, progress: progress}
	}
	resp, err := b.request(ctx).
		SetFileReader("file", file.Name, reader).
		SetResult(&out).
		Post("/upload")
	if err := check(resp, err, "upload "+file.Name); err != nil {
		return f.UploadResult{}, err
	}
	return out, nil
}

type progressReader struct {
	reader   io.Reader
	sent     int64
	total    int64
	progress f.Progress
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 {
		p.sent += int64(n)
		p.progress(p.sent, p.total)
	}
	return n, err
}
