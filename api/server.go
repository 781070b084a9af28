// Package api exposes the intent exchange over HTTP. It is a thin
// adapter: all invariants live in the state, matching, and settlement
// packages.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openlane/crossfeed/internal/orderbook"
	"github.com/openlane/crossfeed/internal/settlement"
)

// Server is the HTTP front end over the session state and the
// settlement executor.
type Server struct {
	router   *gin.Engine
	logger   *zap.Logger
	state    *orderbook.State
	executor *settlement.Executor
	validate *validator.Validate
}

// NewServer wires routes and middleware around the injected state and
// executor.
func NewServer(logger *zap.Logger, state *orderbook.State, executor *settlement.Executor) *Server {
	s := &Server{
		logger:   logger,
		state:    state,
		executor: executor,
		validate: validator.New(),
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	s.router = router
	s.registerRoutes()
	return s
}

// Start runs the server on addr, blocking until it exits.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting API server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router returns the gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/deposit", s.deposit)
	s.router.POST("/order", s.createOrder)
	s.router.POST("/match", s.runMatching)
	s.router.GET("/orderbook", s.listOrderbook)
	s.router.GET("/balances", s.listBalances)
}
