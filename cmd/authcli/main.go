// Command authcli exercises the auth subsystem from a terminal: it
// drives a full authorization-code-with-PKCE login through a local
// callback server, then refreshes, inspects and ends the session.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	retry "github.com/appleboy/go-httpretry"
	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/adminconsole/go-auth-client/authflow"
	"github.com/adminconsole/go-auth-client/internal/config"
	"github.com/adminconsole/go-auth-client/internal/cryptoutil"
	"github.com/adminconsole/go-auth-client/session"
	"github.com/adminconsole/go-auth-client/statemgr"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(os.Args[1], logger); err != nil {
		logger.Fatal().Err(err).Msg("command failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: authcli <login|status|refresh|logout>")
}

func run(command string, logger zerolog.Logger) error {
	cfg := config.New()
	displayAppname("authcli")

	controller, err := newController(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	switch command {
	case "login":
		return login(ctx, cfg, controller, logger)
	case "status":
		return status(ctx, controller)
	case "refresh":
		return refresh(ctx, controller, logger)
	case "logout":
		if err := controller.Logout(ctx, ""); err != nil {
			return err
		}
		logger.Info().Msg("signed out")
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// newController assembles the auth flow controller with an in-memory
// transient scope, an encrypted file as the durable scope, and a
// retrying HTTP client.
func newController(cfg config.Config, logger zerolog.Logger) (*authflow.Controller, error) {
	key := cryptoutil.SHA256([]byte(config.GetEnv("AUTH_STORE_SECRET", "authcli-dev-secret")))
	fileStore, err := session.NewFileStore(config.GetEnv("AUTH_STORE_FILE", tokenFilePath()), key[:])
	if err != nil {
		return nil, err
	}

	store := session.NewDualScopeStore(session.NewMemoryStore(), fileStore)

	states, err := statemgr.NewManager(cfg, store, logger)
	if err != nil {
		return nil, err
	}
	tokens, err := session.NewTokenStore(cfg, store)
	if err != nil {
		return nil, err
	}

	httpClient, err := newRetryHTTPClient(cfg.GetHTTPTimeout())
	if err != nil {
		return nil, err
	}

	return authflow.NewController(cfg, states, tokens, store, logger,
		authflow.WithHTTPClient(httpClient))
}

func tokenFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".authcli/session"
	}
	return home + "/.authcli/session"
}

// retryTransport adapts the retrying client to http.RoundTripper so
// the controller and the OIDC discovery client share it.
type retryTransport struct {
	client *retry.Client
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.client.DoWithContext(req.Context(), req)
}

func newRetryHTTPClient(timeout time.Duration) (*http.Client, error) {
	base := &http.Client{Timeout: timeout}
	retryClient, err := retry.NewBackgroundClient(retry.WithHTTPClient(base))
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: &retryTransport{client: retryClient}}, nil
}

func status(ctx context.Context, controller *authflow.Controller) error {
	token, err := controller.StoredToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Println("not signed in")
		return nil
	}
	scopes, err := controller.StoredScopes(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("signed in: %v\n", controller.IsAuthenticated(ctx))
	fmt.Printf("token expired: %v\n", controller.IsTokenExpired(ctx))
	fmt.Printf("granted scopes: %v\n", scopes)
	return nil
}

func refresh(ctx context.Context, controller *authflow.Controller, logger zerolog.Logger) error {
	refreshToken, err := controller.StoredRefreshToken(ctx)
	if err != nil {
		return err
	}
	tokens, err := controller.RefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	logger.Info().Int("expires_in", tokens.ExpiresIn).Msg("token refreshed")
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
