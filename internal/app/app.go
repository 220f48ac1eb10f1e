package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/clock"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goroutine"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/jwt"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/router"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initEnv()
	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
