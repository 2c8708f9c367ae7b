package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// AuthTimeout is how long to wait for the user to complete auth
const AuthTimeout = 5 * time.Minute

// ErrStateMismatch is returned when the callback carries a foreign state
var ErrStateMismatch = errors.New("state mismatch - possible CSRF attack")

const successPage = `<!DOCTYPE html>
<html>
<head><title>critspeed</title></head>
<body style="font-family: system-ui; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0;">
<div style="text-align: center;">
<h1 style="color: #10B981;">Connected to Strava</h1>
<p>You can close this window and return to the terminal.</p>
</div>
</body>
</html>`

// Authenticate runs the authorization code flow with a callback server on
// port, printing the URL the user has to open to prompt
func Authenticate(ctx context.Context, cfg *oauth2.Config, port int, prompt io.Writer) (*Result, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/callback", callbackHandler(state, codeChan, errChan))
	server := &http.Server{Handler: mux}

	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			sendErr(errChan, fmt.Errorf("server error: %w", err))
		}
	}()
	defer shutdownServer(server)

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintln(prompt)
	fmt.Fprintln(prompt, "To connect Strava, open this URL in your browser:")
	fmt.Fprintln(prompt)
	fmt.Fprintf(prompt, "  %s\n", authURL)
	fmt.Fprintln(prompt)
	fmt.Fprintln(prompt, "Waiting for authorization...")

	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-time.After(AuthTimeout):
		return nil, fmt.Errorf("authentication timeout after %v", AuthTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}

	return &Result{
		Token:     token,
		AthleteID: ExtractAthleteID(token),
	}, nil
}

// callbackHandler forwards the authorization code, or the failure, of the
// first valid callback
func callbackHandler(state string, codeChan chan<- string, errChan chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			sendErr(errChan, ErrStateMismatch)
			http.Error(w, "State mismatch", http.StatusBadRequest)
			return
		}

		if errMsg := q.Get("error"); errMsg != "" {
			sendErr(errChan, fmt.Errorf("auth error: %s", errMsg))
			http.Error(w, "Authentication failed", http.StatusBadRequest)
			return
		}

		code := q.Get("code")
		if code == "" {
			sendErr(errChan, errors.New("no code in callback"))
			http.Error(w, "No authorization code", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, successPage)
		select {
		case codeChan <- code:
		default:
		}
	})
}

// sendErr never blocks: only the first failure matters
func sendErr(errChan chan<- error, err error) {
	select {
	case errChan <- err:
	default:
	}
}

// generateState creates a random state string for CSRF protection
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// shutdownServer gracefully shuts down the HTTP server
func shutdownServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
