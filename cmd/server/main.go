package main

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	tasks "github.com/goliatone/go-tasks"
	"github.com/goliatone/go-tasks/middleware/authware"
	"github.com/kelseyhightower/envconfig"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Config is read from the environment. The signing key has no default on
// purpose; the process refuses to start without one.
type Config struct {
	Addr string `envconfig:"ADDR" default:":3000"`

	DSN   string `envconfig:"DSN" default:"file:tasks.db?cache=shared&_pragma=foreign_keys(1)"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	SigningKey        string `envconfig:"SIGNING_KEY" required:"true"`
	Issuer            string `envconfig:"ISSUER" default:"go-tasks"`
	SessionExpiration int    `envconfig:"SESSION_EXPIRATION_HOURS" default:"168"`
	InviteExpiration  int    `envconfig:"INVITE_EXPIRATION_HOURS" default:"24"`

	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

func (c Config) GetSigningKey() string     { return c.SigningKey }
func (c Config) GetIssuer() string         { return c.Issuer }
func (c Config) GetSessionExpiration() int { return c.SessionExpiration }
func (c Config) GetInviteExpiration() int  { return c.InviteExpiration }

func (c Config) GetDSN() string    { return c.DSN }
func (c Config) GetServer() string { return "" }

func (c Config) GetOtelIdentifier() string { return "go-tasks" }
func (c Config) GetDebug() bool    { return c.Debug }
func (c Config) GetDriver() string { return sqliteshim.ShimName }
func (c Config) GetPingTimeout() time.Duration {
	return 5 * time.Second
}

type App struct {
	config Config
	logger *glog.BaseLogger
	bunDB  *bun.DB
	repo   tasks.RepositoryManager
	tokens tasks.TokenService
	auth   *tasks.Auther
	guard  *tasks.Gatekeeper
	srv    router.Server[*fiber.App]
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("tasks"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	var cfg Config
	if err := envconfig.Process("TASKS", &cfg); err != nil {
		lgr.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := withPersistence(ctx, app); err != nil {
		lgr.Error("persistence setup failed", "error", err)
		os.Exit(1)
	}

	if err := withAuth(ctx, app); err != nil {
		lgr.Error("auth setup failed", "error", err)
		os.Exit(1)
	}

	withHTTPServer(app)

	lgr.Info("server listening", "addr", cfg.Addr)

	app.srv.Serve(cfg.Addr)

	waitExitSignal()
}

func withPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.GetDSN())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*tasks.User)(nil))
	persistence.RegisterModel((*tasks.Invitation)(nil))
	persistence.RegisterModel((*tasks.Task)(nil))

	client, err := persistence.New(app.config, db, sqlitedialect.New())
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(tasks.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("sqlite"),
	)

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = tasks.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func withAuth(ctx context.Context, app *App) error {
	app.tokens = tasks.NewTokenService(
		[]byte(app.config.GetSigningKey()),
		app.config,
		app.GetLogger("tokens"),
	)

	app.auth = tasks.NewAuthenticator(app.repo, app.tokens).
		WithLogger(app.GetLogger("auth"))

	app.guard = tasks.NewGatekeeper(app.tokens, app.repo).
		WithLogger(app.GetLogger("guard"))

	if app.config.AdminEmail != "" && app.config.AdminPassword != "" {
		admin, err := tasks.EnsureAdmin(
			ctx,
			app.repo,
			app.config.AdminName,
			app.config.AdminEmail,
			app.config.AdminPassword,
		)
		if err != nil {
			return err
		}
		app.GetLogger("seed").Info("admin account present", "email", admin.Email)
	}

	return nil
}

func withHTTPServer(app *App) {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName: "go-tasks",
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	mwCfg := authware.Config{Guard: app.guard}
	mw := tasks.RouteMiddleware{
		Authenticated: authware.New(mwCfg),
		AdminOnly:     authware.RequireAdmin(mwCfg),
		Invited:       authware.RequireInvite(mwCfg),
	}

	authController := tasks.NewAuthController(app.auth, app.repo, app.tokens).
		WithLogger(app.GetLogger("users"))
	taskController := tasks.NewTaskController(app.repo).
		WithLogger(app.GetLogger("tasks"))

	tasks.RegisterAuthRoutes(srv.Router(), authController, mw)
	tasks.RegisterTaskRoutes(srv.Router(), taskController, mw)

	app.srv = srv
}

func waitExitSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
