package listener

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const websocketWriteTimeout = 5 * time.Second

// WebsocketListener serves the builder console to browser clients. Each
// text frame from the client is one line of input.
type WebsocketListener struct {
	port     uint16
	path     string
	cm       *ConnectionManager
	upgrader websocket.Upgrader
}

func NewWebsocketListener(port uint16, path string, cm *ConnectionManager) *WebsocketListener {
	if path == "" {
		path = "/"
	}
	return &WebsocketListener{
		port: port,
		path: path,
		cm:   cm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup

	mux := http.NewServeMux()
	mux.HandleFunc(l.path, func(rw http.ResponseWriter, r *http.Request) {
		conn, err := l.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.WarnContext(ctx, "websocket upgrade", "remote", r.RemoteAddr, "error", err)
			return
		}
		wg.Add(1)
		defer wg.Done()

		go func() {
			<-connCtx.Done()
			conn.Close()
		}()
		defer conn.Close()

		l.cm.AcceptConnection(connCtx, "websocket", r.RemoteAddr, newWebsocketReadWriter(conn))
	})

	srv := &http.Server{
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		cancelConns()
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}
	slog.InfoContext(ctx, "listening for websocket", "port", l.port, "path", l.path)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("websocket shutdown", "error", err)
		}
	}()

	err = srv.Serve(ln)
	cancelConns()
	wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
	}
	return nil
}

// websocketReadWriter turns text frames into newline terminated input and
// writes output as one text frame per Write.
type websocketReadWriter struct {
	conn *websocket.Conn
	cur  io.Reader
	wmu  sync.Mutex
}

func newWebsocketReadWriter(conn *websocket.Conn) *websocketReadWriter {
	return &websocketReadWriter{conn: conn}
}

func (w *websocketReadWriter) Read(p []byte) (int, error) {
	for {
		if w.cur != nil {
			n, err := w.cur.Read(p)
			if errors.Is(err, io.EOF) {
				w.cur = nil
				if n > 0 {
					return n, nil
				}
				continue
			}
			return n, err
		}

		kind, msg, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		w.cur = bytes.NewReader(append(msg, '\n'))
	}
}

func (w *websocketReadWriter) Write(p []byte) (int, error) {
	w.wmu.Lock()
	defer w.wmu.Unlock()

	if err := w.conn.SetWriteDeadline(time.Now().Add(websocketWriteTimeout)); err != nil {
		return 0, err
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
