package main

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/oliverisaac/goli"
	"github.com/oliverisaac/pushdemo/lib/pushclient"
	"github.com/oliverisaac/pushdemo/lib/pushsender"
	"github.com/oliverisaac/pushdemo/lib/store"
	"github.com/oliverisaac/pushdemo/static"
	"github.com/oliverisaac/pushdemo/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func init() {
	goli.InitLogrus(logrus.DebugLevel)
}

func render(ctx echo.Context, status int, t templ.Component) error {
	ctx.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	ctx.Response().WriteHeader(status)

	err := t.Render(ctx.Request().Context(), ctx.Response().Writer)
	if err != nil {
		return ctx.String(http.StatusInternalServerError, "failed to render response template")
	}

	return nil
}

func main() {
	err := run()
	if err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	err := godotenv.Load(".env")
	if err != nil {
		logrus.Error(errors.Wrap(err, "Failed to load .env"))
	}

	cfg, err := types.ConfigFromEnv()
	if err != nil {
		return errors.Wrap(err, "Loading config from env")
	}

	st, err := openStore(cfg)
	if err != nil {
		return errors.Wrap(err, "opening subscription store")
	}
	defer st.Close()

	sender, err := pushsender.NewWebPush(pushsender.Options{
		VapidPublicKey:  cfg.VapidPublicKey,
		VapidPrivateKey: cfg.VapidPrivateKey,
		Subscriber:      cfg.VapidSubject,
		TTL:             cfg.PushTTL,
		Urgency:         cfg.PushUrgency,
	}, logrus.StandardLogger())
	if err != nil {
		return errors.Wrap(err, "configuring push provider")
	}

	e := newServer(cfg, st, sender)
	return e.Start(cfg.ListenAddr)
}

func openStore(cfg types.Config) (store.Store, error) {
	mode := store.ModeFromConfig(cfg)
	if cfg.StoreBackend == types.StoreBackendSQLite {
		return store.OpenSQLite(cfg.DBPath, mode)
	}
	return store.NewMemory(mode), nil
}

func newServer(cfg types.Config, st store.Store, sender pushsender.Provider) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.StaticFS("/static", static.FS)

	origErrHandler := e.HTTPErrorHandler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		logrus.Error(err)
		origErrHandler(err, c)
	}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		Skipper:           middleware.DefaultSkipper,
		StackSize:         4 << 10, // 4 KB
		DisableStackAll:   false,
		DisablePrintStack: false,
		LogLevel:          log.ERROR,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logrus.Error(errors.Wrap(err, "recovered panic:"))
			for _, l := range strings.Split(string(stack), "\n") {
				logrus.Errorf("stack: %s", strings.ReplaceAll(l, "\t", "  "))
			}
			return nil
		},
		DisableErrorHandler: false,
	}))

	e.Use(middleware.Secure())

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/healthz"
		},
	}))

	if len(cfg.CookieSecret) > 0 {
		e.Use(session.Middleware(sessions.NewCookieStore(cfg.CookieSecret)))
		e.Use(SubscriberMiddleware())
	}

	e.GET(pushclient.ServiceWorkerPath, func(c echo.Context) error {
		sw, err := static.FS.ReadFile("sw.js")
		if err != nil {
			return errors.Wrap(err, "reading service worker from embed fs")
		}
		c.Response().Header().Set("Service-Worker-Allowed", "/")
		c.Response().Header().Set("Cache-Control", "no-cache")
		return c.Blob(http.StatusOK, "application/javascript", sw)
	})

	// Pages
	e.GET("/", homePageHandler(cfg, st))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// push
	e.POST("/api/push/*", pushAPI(cfg, st, sender))

	return e
}
