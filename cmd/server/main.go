package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/commette/backend/identity/firebaseauth"
	"github.com/commette/backend/internal/config"
	"github.com/commette/backend/notify"
	"github.com/commette/backend/oauth"
	"github.com/commette/backend/oauth/verifierrepo"
	"github.com/commette/backend/queue/azurequeue"
	"github.com/commette/backend/server"
	"github.com/commette/backend/store/sqlserver"
	"github.com/commette/backend/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	initLogging(c)
	displayAppname(c.GetAppName())

	deps, cleanup, err := buildDeps(c)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := server.New(c, deps)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildDeps(c config.Config) (server.Deps, func(), error) {
	ctx := context.Background()

	store, err := sqlserver.Open(c.GetSQLServerDSN())
	if err != nil {
		return server.Deps{}, nil, fmt.Errorf("sqlserver.Open: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}

	identityProvider, err := firebaseauth.New(ctx, c.GetFirebaseCredentialsFile(), c.GetFirebaseAPIKey())
	if err != nil {
		cleanup()
		return server.Deps{}, nil, fmt.Errorf("firebaseauth.New: %w", err)
	}

	publisher, err := azurequeue.New(c.GetQueueConnectionString(), c.GetQueueName())
	if err != nil {
		cleanup()
		return server.Deps{}, nil, fmt.Errorf("azurequeue.New: %w", err)
	}

	codec := token.NewCodec(
		token.NewHMACSigner(c.GetSessionSecret()),
		token.WithExpiry(c.GetTokenExpiry()),
	)

	o365 := oauth.NewExchanger(oauth.Provider{
		Name:         "o365",
		ClientID:     c.GetO365ClientID(),
		ClientSecret: c.GetO365ClientSecret(),
		AuthURL:      c.GetO365AuthURL(),
		TokenURL:     c.GetO365TokenURL(),
		RedirectURI:  c.GetO365RedirectURI(),
		Scopes:       c.GetO365Scopes(),
		AuthParams:   map[string]string{"response_mode": "query"},
	}, verifierrepo.NewInMemoryRepo(), oauth.WithExchangeTimeout(c.GetExchangeTimeout()))

	google := oauth.NewExchanger(oauth.Provider{
		Name:         "google",
		ClientID:     c.GetGoogleClientID(),
		ClientSecret: c.GetGoogleClientSecret(),
		AuthURL:      c.GetGoogleAuthURL(),
		TokenURL:     c.GetGoogleTokenURL(),
		RedirectURI:  c.GetGoogleRedirectURI(),
		Scopes:       c.GetGoogleScopes(),
	}, verifierrepo.NewInMemoryRepo(), oauth.WithExchangeTimeout(c.GetExchangeTimeout()))

	deps := server.Deps{
		Codec:    codec,
		O365:     o365,
		Google:   google,
		Identity: identityProvider,
		Users:    store.Users(),
		Catalog:  store.Catalog(),
		Queue:    publisher,
	}
	if endpoint := c.GetNotifyEndpoint(); endpoint != "" {
		deps.Notifier = notify.NewClient(endpoint, c.GetServiceKey())
	}

	return deps, cleanup, nil
}

func initLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
