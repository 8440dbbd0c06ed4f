package djlint

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

// maxRequestSize bounds the body of a format request.
const maxRequestSize = 8 << 20

// wsUpgrader is a Gorilla WebSocket instance, used to respond HTTP requests with WebSocket.
var wsUpgrader = websocket.Upgrader{}

// Server formats templates sent by editors.
//
// POST / formats the request body and answers 200 with the formatted text,
// or 204 when the text is already formatted. The X-Indent,
// X-Max-Line-Length and X-Profile headers override the configuration for
// one request.
//
// GET /ws upgrades to a websocket that answers each FormatRequest message
// with a FormatResponse.
type Server struct {
	// Config is cloned for each request.
	Config Config

	// OnError is a callback that is called when an error occurs while serving a request.
	OnError func(*http.Request, error)

	// Logger configures logging for internal events.
	Logger *slog.Logger

	// init is used to initialize the server only once.
	init sync.Once

	// logger is a private logger instance that is used to log internal events.
	logger *slog.Logger
}

// FormatRequest is a websocket message asking to format Text.
type FormatRequest struct {
	ID     string         `json:"id"`
	Text   string         `json:"text"`
	Config *RequestConfig `json:"config,omitempty"`
}

// RequestConfig overrides the server configuration for one request. Zero
// fields keep the server value.
type RequestConfig struct {
	Indent        int    `json:"indent,omitempty"`
	MaxLineLength int    `json:"max_line_length,omitempty"`
	Profile       string `json:"profile,omitempty"`
}

// FormatResponse answers a FormatRequest with the same ID. Text is empty
// when Changed is false or Error is set.
type FormatResponse struct {
	ID      string `json:"id"`
	Text    string `json:"text,omitempty"`
	Changed bool   `json:"changed"`
	Error   string `json:"error,omitempty"`
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.init.Do(func() {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if s.Logger != nil {
			s.logger = s.Logger
		}
	})

	if err := s.handleRequest(w, r); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		s.logger.Error("Serve HTTP request", "url", r.URL.Redacted(), "error", err)

		if s.OnError != nil {
			s.OnError(r, err)
		}
	}
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) error {
	switch r.URL.Path {
	case "/":
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return nil
		}
		return s.serveFormat(w, r)
	case "/ws":
		if !websocket.IsWebSocketUpgrade(r) {
			http.Error(w, "websocket upgrade required", http.StatusBadRequest)
			return nil
		}
		return s.serveWebsocket(w, r)
	}
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	return nil
}

func (s *Server) serveFormat(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return nil
		}
		return fmt.Errorf("read request body: %w", err)
	}

	rc, err := headerConfig(r.Header)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	cfg, err := s.requestConfig(rc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	src := string(body)
	out := Format(src, cfg)
	s.logger.Debug("Format request", "size", len(body), "changed", out != src)

	if out == src {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) error {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		s.logger.Debug("Upgrade websocket", "error", err)
		return nil
	}
	defer ws.Close()

	for {
		var req FormatRequest
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			s.logger.Error("Read websocket message", "error", err)
			return nil
		}

		if err := ws.WriteJSON(s.formatMessage(req)); err != nil {
			s.logger.Error("Write websocket message", "id", req.ID, "error", err)
			return nil
		}
	}
}

func (s *Server) formatMessage(req FormatRequest) FormatResponse {
	resp := FormatResponse{ID: req.ID}

	var rc RequestConfig
	if req.Config != nil {
		rc = *req.Config
	}
	cfg, err := s.requestConfig(rc)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	out := Format(req.Text, cfg)
	if out != req.Text {
		resp.Text, resp.Changed = out, true
	}
	return resp
}

// requestConfig applies the overrides of rc to a clone of the server
// configuration.
func (s *Server) requestConfig(rc RequestConfig) (Config, error) {
	cfg := s.Config.Clone().withDefaults()
	if rc.Indent != 0 {
		cfg.Indent = rc.Indent
	}
	if rc.MaxLineLength != 0 {
		cfg.MaxLineLength = rc.MaxLineLength
	}
	if rc.Profile != "" {
		cfg.Profile = rc.Profile
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func headerConfig(h http.Header) (RequestConfig, error) {
	var rc RequestConfig
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"X-Indent", &rc.Indent},
		{"X-Max-Line-Length", &rc.MaxLineLength},
	} {
		v := h.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return rc, fmt.Errorf("invalid %s header: %q", f.name, v)
		}
		*f.dst = n
	}
	rc.Profile = h.Get("X-Profile")
	return rc, nil
}
