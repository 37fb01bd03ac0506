package main

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminconsole/go-auth-client/authflow"
	"github.com/adminconsole/go-auth-client/internal/config"
)

// callbackTimeout is how long we wait for the browser to deliver the code.
const callbackTimeout = 5 * time.Minute

type callbackParams struct {
	code  string
	state string
	err   string
	desc  string
}

// login starts a login attempt, prints the authorization URL for the
// user to open, and serves the redirect URI locally until the
// authorization server delivers the code, which is then fed through
// the controller's callback handler.
func login(ctx context.Context, cfg config.Config, controller *authflow.Controller, logger zerolog.Logger) error {
	authURL, err := controller.InitiateLogin(ctx, "authcli://login")
	if err != nil {
		return err
	}

	fmt.Println("Open this URL in your browser to sign in:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()

	params, err := waitForCallback(ctx, cfg.GetRedirectURI())
	if err != nil {
		return err
	}
	if params.err != "" {
		return fmt.Errorf("authorization server returned %s: %s", params.err, params.desc)
	}

	result, err := controller.HandleAuthCallback(ctx, params.code, params.state)
	if err != nil {
		return err
	}

	logger.Info().
		Str("user", result.User.UserName).
		Str("profile_source", string(result.ProfileSource)).
		Strs("roles", result.User.Roles).
		Msg("signed in")
	return nil
}

// waitForCallback serves the redirect URI until the first callback
// request arrives. State verification happens in the controller, not
// here; this server only collects the parameters.
func waitForCallback(ctx context.Context, redirectURI string) (*callbackParams, error) {
	target, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}

	resultCh := make(chan *callbackParams, 1)

	// Deliver the result exactly once; browser retries are discarded.
	var once sync.Once
	sendResult := func(p *callbackParams) {
		once.Do(func() { resultCh <- p })
	}

	mux := http.NewServeMux()
	mux.HandleFunc(target.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if oauthErr := q.Get("error"); oauthErr != "" {
			writeCallbackPage(w, false, q.Get("error_description"))
			sendResult(&callbackParams{err: oauthErr, desc: q.Get("error_description")})
			return
		}
		writeCallbackPage(w, true, "")
		sendResult(&callbackParams{code: q.Get("code"), state: q.Get("state")})
	})

	srv := &http.Server{
		Addr:         target.Host,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sendResult(&callbackParams{err: "server_error", desc: err.Error()})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case params := <-resultCh:
		return params, nil
	case <-time.After(callbackTimeout):
		return nil, fmt.Errorf("timed out waiting for the browser callback")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func writeCallbackPage(w http.ResponseWriter, ok bool, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if ok {
		fmt.Fprint(w, "<html><body><h2>Sign-in received</h2><p>You can close this tab.</p></body></html>")
		return
	}
	fmt.Fprintf(w, "<html><body><h2>Sign-in failed</h2><p>%s</p></body></html>", html.EscapeString(detail))
}
