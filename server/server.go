package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/commette/backend/catalog"
	"github.com/commette/backend/identity"
	"github.com/commette/backend/internal/config"
	"github.com/commette/backend/notify"
	"github.com/commette/backend/oauth"
	"github.com/commette/backend/queue"
	"github.com/commette/backend/token"
	"github.com/commette/backend/users"
)

// Version is reported by the index route.
const Version = "1.0.0"

// Deps are the collaborators the handlers call into.
type Deps struct {
	Codec    *token.Codec
	O365     *oauth.Exchanger
	Google   *oauth.Exchanger
	Identity identity.Provider
	Users    users.Repo
	Catalog  catalog.Repo
	Queue    queue.Publisher
	Notifier *notify.Client
}

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config
	deps   Deps
}

func New(config config.Config, deps Deps) (*Server, error) {
	if deps.Codec == nil {
		return nil, fmt.Errorf("[Server New] missing token codec")
	}
	if deps.O365 == nil || deps.Google == nil {
		return nil, fmt.Errorf("[Server New] missing oauth exchanger")
	}
	if deps.Users == nil || deps.Catalog == nil {
		return nil, fmt.Errorf("[Server New] missing repository")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		deps:   deps,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Info().Str("path", parts[0]).Msg("route")
		}
	}
}
