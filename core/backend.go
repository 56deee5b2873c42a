package f

import (
	"context"
	"io"

	"github.com/soffa-projects/folio-web/i18n"
)

type Project struct {
	ID          int      `json:"id,omitempty"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	GithubLink  string   `json:"github_link,omitempty" validate:"omitempty,url"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
}

// Cover is the first image of the project, if any.
func (p Project) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Skill struct {
	Name           string `json:"name"`
	Level          string `json:"level"`
	Description    string `json:"description,omitempty"`
	CertificateURL string `json:"certificate_url,omitempty"`
}

type CV struct {
	ID         int     `json:"id,omitempty"`
	About      string  `json:"about"`
	Experience string  `json:"experience"`
	Education  string  `json:"education"`
	PhotoURL   string  `json:"photo_url"`
	Skills     []Skill `json:"skills"`
}

func (cv CV) IsEmpty() bool {
	return cv.About == "" && cv.Experience == "" && cv.Education == "" && len(cv.Skills) == 0
}

type ContactMessage struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Message string `json:"message" form:"message" validate:"required"`
}

type Credentials struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UploadFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

type UploadResult struct {
	URL string `json:"url"`
}

// Progress receives the bytes sent so far for the file being uploaded.
type Progress func(sent int64, total int64)

// Backend is the portfolio API. Calls made on behalf of the admin read the
// bearer token from ctx (see WithBearer).
type Backend interface {
	i18n.Source
	i18n.Writer

	Ping(ctx context.Context) error
	Login(ctx context.Context, credentials Credentials) (Token, error)
	VerifyToken(ctx context.Context) (string, error)

	ListProjects(ctx context.Context, skip int, limit int) ([]Project, error)
	GetProject(ctx context.Context, id int) (Project, error)
	CreateProject(ctx context.Context, project Project) (Project, error)
	UpdateProject(ctx context.Context, id int, project Project) (Project, error)
	DeleteProject(ctx context.Context, id int) error

	GetCV(ctx context.Context) (CV, error)
	UpdateCV(ctx context.Context, cv CV) (CV, error)

	SendContact(ctx context.Context, message ContactMessage) error
	Upload(ctx context.Context, file UploadFile, progress Progress) (UploadResult, error)
}
