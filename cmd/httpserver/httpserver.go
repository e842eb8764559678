// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/peerbank/ledgercore/internal/accountdelivery"
	"github.com/peerbank/ledgercore/internal/accountrepo"
	"github.com/peerbank/ledgercore/internal/accountservice"
	"github.com/peerbank/ledgercore/internal/beneficiarydelivery"
	"github.com/peerbank/ledgercore/internal/beneficiaryrepo"
	"github.com/peerbank/ledgercore/internal/beneficiaryservice"
	"github.com/peerbank/ledgercore/internal/events"
	"github.com/peerbank/ledgercore/internal/middleware"
	"github.com/peerbank/ledgercore/internal/transferdelivery"
	"github.com/peerbank/ledgercore/internal/transferrepo"
	"github.com/peerbank/ledgercore/internal/transferservice"
	"github.com/peerbank/ledgercore/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)
	beneficiaryRepo := beneficiaryrepo.NewRepoPGS(conn)

	var publisher events.Publisher = events.NoopPublisher{}
	if config.KafkaBroker != "" {
		publisher = events.NewKafkaPublisher(config.KafkaBroker, config.KafkaTopic)
	}

	accountService := accountservice.New(accountRepo)
	beneficiaryService := beneficiaryservice.New(beneficiaryRepo, accountService)
	transferService := transferservice.New(transferRepo, accountService, beneficiaryService, publisher)

	accountHandler := accountdelivery.NewHandler(accountService)
	beneficiaryHandler := beneficiarydelivery.NewHandler(beneficiaryService)
	transferHandler := transferdelivery.NewHandler(transferService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)

	authRoutes := engine.Group("/").Use(middleware.GatewayAuth())

	authRoutes.GET("/accounts/:account_number", accountHandler.Search)

	authRoutes.GET("/transfers", transferHandler.List)
	authRoutes.POST("/transfers", transferHandler.Create)
	authRoutes.POST("/transfers/quick", transferHandler.CreateQuick)

	authRoutes.GET("/beneficiaries", beneficiaryHandler.List)
	authRoutes.POST("/beneficiaries", beneficiaryHandler.Add)
	authRoutes.DELETE("/beneficiaries/:account_number", beneficiaryHandler.Remove)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("accountnumber", accountdelivery.ValidAccountNumber)
		if err != nil {
			return nil, errors.New("cannot register account number validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
