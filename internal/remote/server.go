// Package remote hosts the pendulum in a browser tab. Each websocket
// connection gets its own stage mounted on a display list; the browser
// replays every frame's canvas calls on a real <canvas> and sends pointer
// moves and resizes back.
package remote

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/san-kum/swing/internal/config"
)

const DefaultAddr = ":8080"

//go:embed index.html
var indexHTML []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	sessions atomic.Int64
	ctx      context.Context
}

// NewServer builds the router. Sessions end when ctx is done.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, ctx: ctx}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/", s.index)
	router.GET("/ws", s.connect)
	router.GET("/health", s.health)
	s.router = router
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

// Sessions is the number of connected browsers.
func (s *Server) Sessions() int { return int(s.sessions.Load()) }

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.Sessions(), "fps": s.cfg.FPS})
}

func (s *Server) connect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("remote: upgrade: %v", err)
		return
	}
	session, err := NewSession(conn, s.cfg)
	if err != nil {
		log.Printf("remote: mount: %v", err)
		conn.Close()
		return
	}

	addr := c.Request.RemoteAddr
	s.sessions.Add(1)
	log.Printf("remote: session from %s", addr)
	go func() {
		defer s.sessions.Add(-1)
		if err := session.Run(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("remote: session: %v", err)
		}
		log.Printf("remote: session from %s closed after %d steps", addr, session.Stage().Steps())
	}()
}

// ListenAndServe serves until ctx is done, then shuts the listener down.
func ListenAndServe(ctx context.Context, addr string, cfg *config.Config) error {
	if addr == "" {
		addr = DefaultAddr
	}
	s, err := NewServer(ctx, cfg)
	if err != nil {
		return err
	}
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		log.Printf("remote: listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
