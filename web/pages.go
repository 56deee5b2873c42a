package web

import (
	"net/http"
	"strconv"

	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/errors"
	"github.com/soffa-projects/folio-web/log"
)

const projectsPageSize = 100

// technologies shown on the home page.
var technologies = []string{"Go", "Python", "FastAPI", "React", "PostgreSQL", "Docker"}

func Home(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Handle: func(c f.Context) any {
			return render(c, http.StatusOK, "home", "nav.home", map[string]any{
				"Technologies": technologies,
			})
		},
	}
}

func Projects(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Handle: func(c f.Context) any {
			projects, err := env.Backend.ListProjects(c, 0, projectsPageSize)
			if err != nil {
				return err
			}
			return render(c, http.StatusOK, "projects", "projects.title", map[string]any{
				"Projects": projects,
			})
		},
	}
}

func ProjectDetail(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Handle: func(c f.Context) any {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				return errors.NotFound("project not found")
			}
			project, err := env.Backend.GetProject(c, id)
			if err != nil {
				return err
			}
			return render(c, http.StatusOK, "project", "projects.title", map[string]any{
				"Project": project,
			})
		},
	}
}

// CV renders the page even when the backend fails, with a notice instead of the content.
func CV(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Handle: func(c f.Context) any {
			cv, err := env.Backend.GetCV(c)
			if err != nil {
				log.Warn("unable to load cv: %v", err)
			}
			return render(c, http.StatusOK, "cv", "cv.title", map[string]any{
				"CV":     cv,
				"Failed": err != nil,
			})
		},
	}
}

func ContactForm(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Handle: func(c f.Context) any {
			return render(c, http.StatusOK, "contact", "contact.title", map[string]any{
				"Email":   env.ContactEmail,
				"Message": f.ContactMessage{},
			})
		},
	}
}

func SendContact(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Pre:  []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			var input f.ContactMessage
			if err := c.ShouldBind(&input); err != nil {
				return render(c, http.StatusBadRequest, "contact", "contact.title", map[string]any{
					"Email":   env.ContactEmail,
					"Message": input,
					"Error":   err.Error(),
				})
			}
			if err := env.Backend.SendContact(c, input); err != nil {
				log.Warn("contact message from %s not delivered: %v", input.Email, err)
				return render(c, errors.GetStatusCode(err), "contact", "contact.title", map[string]any{
					"Email":   env.ContactEmail,
					"Message": input,
					"Error":   c.T("contact.failed"),
				})
			}
			if err := c.SetFlash(c.T("contact.sent")); err != nil {
				log.Warn("unable to set flash: %v", err)
			}
			return f.Redirect("/contact")
		},
	}
}

func LoginForm(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Handle: func(c f.Context) any {
			if c.Auth() != nil {
				return f.Redirect("/admin")
			}
			data := map[string]any{"Username": ""}
			if c.QueryParam("expired") != "" {
				data["Error"] = c.T("login.expired")
			}
			return render(c, http.StatusOK, "login", "login.welcome", data)
		},
	}
}

func Login(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Pre:  []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			var input f.Credentials
			invalid := func(status int) any {
				return render(c, status, "login", "login.welcome", map[string]any{
					"Username": input.Username,
					"Error":    c.T("login.invalid"),
				})
			}
			if err := c.ShouldBind(&input); err != nil {
				return invalid(http.StatusBadRequest)
			}
			token, err := env.Backend.Login(c, input)
			if errors.IsUnauthorized(err) {
				return invalid(http.StatusUnauthorized)
			}
			if err != nil {
				return err
			}
			if err := c.SetAuthToken(token.AccessToken); err != nil {
				return errors.Technical("unable to save session: " + err.Error())
			}
			log.Info("%s signed in", input.Username)
			return f.Redirect("/admin")
		},
	}
}

func Logout(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html: true,
		Pre:  []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			if err := c.ClearAuthToken(); err != nil {
				log.Warn("unable to clear session: %v", err)
			}
			return f.Redirect("/")
		},
	}
}

// RequireCsrf rejects a form post without a valid csrf field.
func RequireCsrf(c f.Context) error {
	csrf := c.Env().Csrf
	if csrf == nil {
		return nil
	}
	if err := csrf.Verify(c.FormValue("csrf")); err != nil {
		return errors.Forbidden("invalid csrf token")
	}
	return nil
}
