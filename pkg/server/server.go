package server

import (
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/taskhub/rbac/pkg/authz"
	"github.com/taskhub/rbac/pkg/catalog"
	"github.com/taskhub/rbac/pkg/config"
	"github.com/taskhub/rbac/pkg/seed"
	"github.com/taskhub/rbac/pkg/server/middleware"
	"github.com/taskhub/rbac/pkg/store"
	"github.com/taskhub/rbac/pkg/workflow"
)

// Server wires the catalog, decision and workflow services to the admin API.
type Server struct {
	Router *mux.Router
	Config *config.Config
	Store  store.Store

	Roles          *catalog.RoleService
	Permissions    *catalog.PermissionService
	Workflows      *workflow.Service
	Decider        *authz.Decider
	RoleGate       *authz.RoleGate
	PermissionGate *authz.PermissionGate
	Seeder         *seed.Seeder

	// SeedDefinitions is the baseline POST /seed converges to.
	SeedDefinitions *seed.Definitions

	Verifier *middleware.TokenVerifier

	srv *http.Server
}

// NewServer creates a Server around the given store and configuration.
func NewServer(
	cfg *config.Config,
	st store.Store,
	logger *log.Logger,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()

	cors := handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
	)
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, cors(router)),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	decider := authz.NewDecider(st.Roles())

	return &Server{
		Router:          router,
		Config:          cfg,
		Store:           st,
		Roles:           catalog.NewRoleService(st),
		Permissions:     catalog.NewPermissionService(st),
		Workflows:       workflow.NewService(st, logger),
		Decider:         decider,
		RoleGate:        authz.NewRoleGate(cfg.SuperRoleName),
		PermissionGate:  authz.NewPermissionGate(decider),
		Seeder:          seed.NewSeeder(st, logger),
		SeedDefinitions: seed.Defaults(),
		Verifier:        middleware.NewTokenVerifier([]byte(cfg.TokenSigningKey), cfg),
		srv:             srv,
	}
}

// Start listens and serves until the listener fails.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener. Used by tests that need
// to know the bound port before the server accepts traffic.
func (s *Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}
