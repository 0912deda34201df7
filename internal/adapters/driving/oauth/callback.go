// Package oauth receives the authorization redirect on a loopback HTTP
// server and opens the user's browser.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/vkauth/internal/logger"
)

// CallbackPath is where the provider redirects back to.
const CallbackPath = "/callback"

// ErrStateMismatch is returned when the redirect does not carry the state
// the flow was started with.
var ErrStateMismatch = errors.New("oauth: state mismatch")

// ErrNoCode is returned when the redirect carries neither a code nor an error.
var ErrNoCode = errors.New("oauth callback: no authorization code received")

// CallbackError is an error reported by the provider on the redirect.
type CallbackError struct {
	Code        string
	Description string
}

func (e *CallbackError) Error() string {
	if e.Description == "" {
		return "oauth callback: " + e.Code
	}
	return fmt.Sprintf("oauth callback: %s - %s", e.Code, e.Description)
}

// CallbackServer handles the authorization redirect.
// It starts a local HTTP server to receive the authorization code.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a new callback server.
// The expectedState is used to validate the callback matches the request.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Handler returns the router serving CallbackPath.
func (s *CallbackServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(CallbackPath, s.handleCallback).Methods(http.MethodGet)
	return r
}

// Start listens on 127.0.0.1. If port is 0, a random available port is
// chosen and reported by Port.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.report(err)
		}
	}()

	logger.Debug("Callback server listening on %s", s.redirectURI())
	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	code, err := codeFrom(r.URL.Query(), s.expectedState)
	if err != nil {
		s.report(err)
		renderPage(w, http.StatusBadRequest, "Authorization failed", failureMessage(err))
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}
	renderPage(w, http.StatusOK, "Authorization successful", "You can close this window and return to the terminal.")
}

// codeFrom extracts the authorization code from redirect parameters.
func codeFrom(q url.Values, expectedState string) (string, error) {
	if code := q.Get("error"); code != "" {
		return "", &CallbackError{Code: code, Description: q.Get("error_description")}
	}
	if q.Get("state") != expectedState {
		return "", ErrStateMismatch
	}
	code := q.Get("code")
	if code == "" {
		return "", ErrNoCode
	}
	return code, nil
}

func failureMessage(err error) string {
	var cbErr *CallbackError
	switch {
	case errors.As(err, &cbErr):
		return cbErr.Description
	case errors.Is(err, ErrStateMismatch):
		return "Invalid state parameter."
	default:
		return "No code received."
	}
}

// ParseRedirect extracts the authorization code from the URL the browser
// was redirected to, as pasted by the user. The provider's blank page
// receives the parameters in the fragment, so the fragment is read when
// the query carries none. Input that is not an absolute URL is taken as
// the bare code.
func ParseRedirect(input, expectedState string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrNoCode
	}

	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return input, nil
	}

	q := u.Query()
	if len(q) == 0 {
		q, err = url.ParseQuery(u.Fragment)
		if err != nil {
			return "", fmt.Errorf("oauth: malformed redirect fragment: %w", err)
		}
	}
	return codeFrom(q, expectedState)
}

// report delivers the first error; later ones are dropped.
func (s *CallbackServer) report(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until the authorization code arrives, the callback
// reports an error, or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server. It is safe to call more than once.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
func (s *CallbackServer) RedirectURI() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirectURI()
}

func (s *CallbackServer) redirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, CallbackPath)
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>vkauth</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 15vh">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, struct{ Title, Message string }{title, message})
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// LoopbackPort returns the port of a redirect URI that a CallbackServer
// can receive: plain http to localhost or 127.0.0.1 on CallbackPath.
func LoopbackPort(redirectURI string) (int, bool) {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Scheme != "http" || u.Path != CallbackPath {
		return 0, false
	}
	if host := u.Hostname(); host != "localhost" && host != "127.0.0.1" {
		return 0, false
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil || port <= 0 || port > 65535 {
		return 0, false
	}
	return port, true
}
