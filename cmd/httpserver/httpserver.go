// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/akahu-finance/internal/middleware"
	"github.com/go-petr/akahu-finance/internal/reportdelivery"
	"github.com/go-petr/akahu-finance/internal/reportservice"
	"github.com/go-petr/akahu-finance/pkg/configpkg"
)

// Server holds the store, handlers router and configuration.
type Server struct {
	Store  reportservice.Store
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(store reportservice.Store, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	reportService := reportservice.New(store, config.HouseValue())
	reportHandler := reportdelivery.NewHandler(reportService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	reportHandler.Register(engine)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("accountid", reportdelivery.ValidAccountID)
		if err != nil {
			return nil, errors.New("cannot register accountid validator")
		}
	}

	server := &Server{
		Store:  store,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
