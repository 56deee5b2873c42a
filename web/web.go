package web

import (
	f "github.com/soffa-projects/folio-web/core"
)

var I18n = f.Feature{
	Name: "i18n",
	OnInit: func(c f.InitContext) {
		c.Router.Use(LanguageMiddleware(c.Env.Languages, c.Env.DefaultLanguage))
		c.Router.GET("/lang/:code", SwitchLanguage)
	},
}

var Pages = f.Feature{
	Name:      "pages",
	DependsOn: []f.Feature{I18n},
	OnInit: func(c f.InitContext) {
		c.Router.GET("/", Home)
		c.Router.GET("/projects", Projects)
		c.Router.GET("/projects/:id", ProjectDetail)
		c.Router.GET("/cv", CV)
		c.Router.GET("/contact", ContactForm)
		c.Router.POST("/contact", SendContact)
		c.Router.GET("/login", LoginForm)
		c.Router.POST("/login", Login)
		c.Router.POST("/logout", Logout)
	},
}

var Admin = f.Feature{
	Name:      "admin",
	DependsOn: []f.Feature{Pages},
	OnInit: func(c f.InitContext) {
		c.Router.GET("/admin", Dashboard)
		g := c.Router.Group("/admin")
		g.POST("/projects", CreateProject)
		g.POST("/projects/:id", UpdateProject)
		g.POST("/projects/:id/delete", DeleteProject)
		g.POST("/cv", UpdateCV)
		g.POST("/upload", Upload)
		g.POST("/translations", SubmitTranslations)
	},
}

var Api = f.Feature{
	Name:      "api",
	DependsOn: []f.Feature{I18n},
	OnInit: func(c f.InitContext) {
		c.Router.GET("/health", Health)
		g := c.Router.Group("/api")
		g.GET("/translations", TranslationsAPI)
		g.POST("/translations/reload", ReloadTranslations)
	},
}

// Features lists everything the site serves.
func Features() []f.Feature {
	return []f.Feature{I18n, Pages, Admin, Api}
}
