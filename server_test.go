package djlint

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Format(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		header     map[string]string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "formats body",
			method:     "POST",
			path:       "/",
			body:       "<div><p>x</p></div>",
			wantStatus: 200,
			wantBody:   "<div>\n    <p>x</p>\n</div>\n",
		},
		{
			name:       "already formatted",
			method:     "POST",
			path:       "/",
			body:       "<p>x</p>\n",
			wantStatus: 204,
		},
		{
			name:       "indent header",
			method:     "POST",
			path:       "/",
			header:     map[string]string{"X-Indent": "2"},
			body:       "<ul><li>a</li></ul>",
			wantStatus: 200,
			wantBody:   "<ul>\n  <li>a</li>\n</ul>\n",
		},
		{
			name:       "profile header",
			method:     "POST",
			path:       "/",
			header:     map[string]string{"X-Profile": "handlebars"},
			body:       "<p>{{ x }}</p>",
			wantStatus: 200,
			wantBody:   "<p>{{x}}</p>\n",
		},
		{
			name:       "invalid width header",
			method:     "POST",
			path:       "/",
			header:     map[string]string{"X-Max-Line-Length": "wide"},
			body:       "<p>x</p>",
			wantStatus: 400,
			wantBody:   "invalid X-Max-Line-Length header: \"wide\"\n",
		},
		{
			name:       "invalid profile header",
			method:     "POST",
			path:       "/",
			header:     map[string]string{"X-Profile": "mustache"},
			body:       "<p>x</p>",
			wantStatus: 400,
			wantBody:   "invalid configuration: profile must be one of all html django jinja nunjucks handlebars golang angular\n",
		},
		{
			name:       "wrong method",
			method:     "GET",
			path:       "/",
			wantStatus: 405,
			wantBody:   "Method Not Allowed\n",
		},
		{
			name:       "unknown path",
			method:     "POST",
			path:       "/format",
			wantStatus: 404,
			wantBody:   "Not Found\n",
		},
		{
			name:       "websocket path without upgrade",
			method:     "GET",
			path:       "/ws",
			wantStatus: 400,
			wantBody:   "websocket upgrade required\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()

			var serveErr error
			s := &Server{OnError: func(r *http.Request, err error) { serveErr = err }}
			s.ServeHTTP(rr, req)

			require.NoError(t, serveErr)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestServer_Websocket(t *testing.T) {
	srv := httptest.NewServer(&Server{Config: Config{Indent: 2}})
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()

	exchange := func(req FormatRequest) FormatResponse {
		t.Helper()
		require.NoError(t, ws.WriteJSON(req))
		var resp FormatResponse
		require.NoError(t, ws.ReadJSON(&resp))
		return resp
	}

	resp := exchange(FormatRequest{ID: "1", Text: "<ul><li>a</li></ul>"})
	assert.Equal(t, FormatResponse{ID: "1", Text: "<ul>\n  <li>a</li>\n</ul>\n", Changed: true}, resp)

	resp = exchange(FormatRequest{ID: "2", Text: "<p>x</p>\n"})
	assert.Equal(t, FormatResponse{ID: "2"}, resp)

	resp = exchange(FormatRequest{ID: "3", Text: "<ul><li>a</li></ul>", Config: &RequestConfig{Indent: 3}})
	assert.Equal(t, "<ul>\n   <li>a</li>\n</ul>\n", resp.Text)

	resp = exchange(FormatRequest{ID: "4", Text: "x", Config: &RequestConfig{Indent: 99}})
	assert.Equal(t, "4", resp.ID)
	assert.Contains(t, resp.Error, "indent must be at most 16")

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	require.NoError(t, ws.WriteMessage(websocket.CloseMessage, msg))
}
