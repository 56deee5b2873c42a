package web

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/soffa-projects/folio-web/adapters"
	f "github.com/soffa-projects/folio-web/core"
	"github.com/soffa-projects/folio-web/errors"
	"github.com/soffa-projects/folio-web/h"
	"github.com/soffa-projects/folio-web/i18n"
	"github.com/soffa-projects/folio-web/log"
)

// session keys of the translations editor outcome
const (
	editorStateKey = "editor"
	editorErrorKey = "editorError"
)

var validate = validator.New()

func Dashboard(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html:          true,
		Authenticated: true,
		Handle: func(c f.Context) any {
			projects, err := env.Backend.ListProjects(c, 0, projectsPageSize)
			if err != nil {
				return err
			}
			cv, err := env.Backend.GetCV(c)
			if err != nil {
				log.Warn("unable to load cv: %v", err)
			}

			var editing *f.Project
			if id, err := strconv.Atoi(c.QueryParam("edit")); err == nil {
				for i := range projects {
					if projects[i].ID == id {
						editing = &projects[i]
					}
				}
			}

			editLang := i18n.NormalizeLanguage(c.QueryParam("tl"))
			if editLang == "" {
				editLang = c.Language()
			}
			set := c.Translations()
			flat := set.Flatten(editLang)
			keys := make([]string, 0, len(flat))
			for key := range flat {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			// the outcome of the last submission is shown once, then the editor is back to idle
			state := i18n.ParseState(c.Session(editorStateKey))
			editorError := c.Session(editorErrorKey)
			if state == i18n.StateSuccess || state == i18n.StateError {
				next, _ := state.Next(i18n.EventOpen)
				if err := c.SetSession(editorStateKey, next.String()); err != nil {
					log.Warn("unable to save editor state: %v", err)
				}
				env.Editor.Open()
			}
			if env.Editor.State() == i18n.StateLoading {
				state = i18n.StateLoading
			}

			return render(c, http.StatusOK, "admin", "admin.dashboard", map[string]any{
				"Projects":     projects,
				"Editing":      editing,
				"CV":           cv,
				"Skills":       formatSkills(cv.Skills),
				"EditLang":     editLang,
				"Keys":         keys,
				"Values":       flat,
				"EditorState":  state.String(),
				"EditorError":  editorError,
				"DefaultsOnly": set.DefaultsOnly(),
				"Rows":         []int{0, 1, 2},
			})
		},
	}
}

func projectFromForm(c f.Context) (f.Project, error) {
	project := f.Project{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		GithubLink:  strings.TrimSpace(c.FormValue("github_link")),
		Images:      h.SplitList(c.FormValue("images")),
		Tags:        h.SplitTags(c.FormValue("tags")),
	}
	if err := validate.Struct(project); err != nil {
		return project, errors.BadRequest(err.Error())
	}
	return project, nil
}

func CreateProject(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html:          true,
		Authenticated: true,
		Pre:           []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			project, err := projectFromForm(c)
			if err != nil {
				return err
			}
			if _, err := env.Backend.CreateProject(c, project); err != nil {
				return err
			}
			return savedAndBack(c, "admin.saved")
		},
	}
}

func UpdateProject(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html:          true,
		Authenticated: true,
		Pre:           []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				return errors.NotFound("project not found")
			}
			project, err := projectFromForm(c)
			if err != nil {
				return err
			}
			if _, err := env.Backend.UpdateProject(c, id, project); err != nil {
				return err
			}
			return savedAndBack(c, "admin.saved")
		},
	}
}

func DeleteProject(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html:          true,
		Authenticated: true,
		Pre:           []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				return errors.NotFound("project not found")
			}
			if err := env.Backend.DeleteProject(c, id); err != nil {
				return err
			}
			return savedAndBack(c, "admin.deleted")
		},
	}
}

// parseSkills reads one skill per line: name | level | description | certificate url.
func parseSkills(input string) []f.Skill {
	skills := []f.Skill{}
	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "|")
		for len(parts) < 4 {
			parts = append(parts, "")
		}
		skill := f.Skill{
			Name:           strings.TrimSpace(parts[0]),
			Level:          strings.TrimSpace(parts[1]),
			Description:    strings.TrimSpace(parts[2]),
			CertificateURL: strings.TrimSpace(parts[3]),
		}
		if skill.Name != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func formatSkills(skills []f.Skill) string {
	lines := make([]string, 0, len(skills))
	for _, s := range skills {
		lines = append(lines, strings.TrimRight(fmt.Sprintf("%s | %s | %s | %s", s.Name, s.Level, s.Description, s.CertificateURL), " |"))
	}
	return strings.Join(lines, "\n")
}

func UpdateCV(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html:          true,
		Authenticated: true,
		Pre:           []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			cv := f.CV{
				About:      strings.TrimSpace(c.FormValue("about")),
				Experience: strings.TrimSpace(c.FormValue("experience")),
				Education:  strings.TrimSpace(c.FormValue("education")),
				PhotoURL:   strings.TrimSpace(c.FormValue("photo_url")),
				Skills:     parseSkills(c.FormValue("skills")),
			}
			if _, err := env.Backend.UpdateCV(c, cv); err != nil {
				return err
			}
			return savedAndBack(c, "admin.saved")
		},
	}
}

func Upload(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html:          true,
		Authenticated: true,
		Pre:           []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			headers, err := c.FormFiles("files")
			if err != nil {
				return err
			}
			if len(headers) == 0 {
				return errors.BadRequest("no file selected")
			}
			files := make([]f.UploadFile, 0, len(headers))
			for _, header := range headers {
				file, err := header.Open()
				if err != nil {
					return errors.BadRequest(fmt.Sprintf("unable to read %s: %v", header.Filename, err))
				}
				defer file.Close()
				files = append(files, f.UploadFile{Name: header.Filename, Size: header.Size, Reader: file})
			}
			report := adapters.UploadAll(c, env.Backend, files, env.MaxUploadBytes, func(index int, name string, sent int64, total int64) {
				log.Debug("upload %d %s: %d/%d", index, name, sent, total)
			})
			message := c.Tf("admin.upload.done", map[string]any{"Done": report.Completed, "Total": report.Total})
			skipped := []string{}
			for _, o := range report.Outcomes {
				if o.Skipped {
					skipped = append(skipped, fmt.Sprintf("%s (%s)", o.Name, o.Reason))
				} else {
					message += "\n" + o.URL
				}
			}
			if len(skipped) > 0 {
				message += "\n" + c.T("admin.upload.skipped") + ": " + strings.Join(skipped, ", ")
			}
			if err := c.SetFlash(message); err != nil {
				log.Warn("unable to set flash: %v", err)
			}
			return f.Redirect("/admin#upload")
		},
	}
}

// translationRows reads the key/value rows of the editor form. Rows left
// blank are ignored; a value without a key is kept so validation rejects it.
func translationRows(c f.Context) (map[string]string, error) {
	req := c.Request()
	if err := req.ParseForm(); err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	keys := req.PostForm["key"]
	values := req.PostForm["value"]
	out := map[string]string{}
	for i, key := range keys {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		key = strings.TrimSpace(key)
		if key == "" && strings.TrimSpace(value) == "" {
			continue
		}
		out[key] = value
	}
	return out, nil
}

func SubmitTranslations(env f.ApplicationEnv) f.Handler {
	return f.Handler{
		Html:          true,
		Authenticated: true,
		Pre:           []f.Middleware{RequireCsrf},
		Handle: func(c f.Context) any {
			language := c.FormValue("language")
			back := "/admin?tl=" + i18n.NormalizeLanguage(language) + "#translations"
			values, err := translationRows(c)
			if err != nil {
				return err
			}
			_, err = env.Editor.Submit(c, language, values)
			if errors.Is(err, i18n.ErrEditorBusy) {
				if err := c.SetFlash(c.T("admin.translations.busy")); err != nil {
					log.Warn("unable to set flash: %v", err)
				}
				return f.Redirect(back)
			}
			if errors.IsUnauthorized(err) {
				return err
			}
			state := i18n.StateSuccess
			message := ""
			if err != nil {
				state = i18n.StateError
				message = err.Error()
			}
			if err := c.SetSession(editorStateKey, state.String()); err != nil {
				log.Warn("unable to save editor state: %v", err)
			}
			if err := c.SetSession(editorErrorKey, message); err != nil {
				log.Warn("unable to save editor state: %v", err)
			}
			return f.Redirect(back)
		},
	}
}

func savedAndBack(c f.Context, key string) any {
	if err := c.SetFlash(c.T(key)); err != nil {
		log.Warn("unable to set flash: %v", err)
	}
	return f.Redirect("/admin")
}
