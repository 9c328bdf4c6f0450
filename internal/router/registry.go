package router

import "github.com/gin-gonic/gin"

// Registry collects modules for the page routes (root) and the JSON API
// (/api). Both groups share the session middleware.
type Registry struct {
	Engine      *gin.Engine
	Web         *gin.RouterGroup
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	web         []Module
	api         []Module
}

func NewRegistry(engine *gin.Engine, session ...gin.HandlerFunc) *Registry {
	web := engine.Group("/", session...)
	return &Registry{Engine: engine, Web: web, API: web.Group("/api")}
}

// Use adds middleware to the API group only.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.web = append(r.web, mod)
}

func (r *Registry) AddAPI(mod Module) {
	r.api = append(r.api, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.web {
		m.Register(r.Web)
	}
	for _, m := range r.api {
		m.Register(r.API)
	}
}
