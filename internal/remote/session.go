package remote

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/loop"
	"github.com/san-kum/swing/internal/render"
	"github.com/san-kum/swing/internal/stage"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 30 * time.Second
	maxMessage  = 4096
	sendBacklog = 16
)

// ClientMessage is what the browser sends. Type is "pointer" or "resize".
type ClientMessage struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// FrameMessage carries one frame's display list to the browser.
type FrameMessage struct {
	Type   string  `json:"type"`
	Step   int     `json:"step"`
	Energy float64 `json:"energy"`
	Ops    []Op    `json:"ops"`
}

// Session is one browser tab. It owns a stage mounted on a display list.
// Pointer and resize messages and the frame ticker are all handled on the
// Run goroutine, so the stage is driven from a single goroutine.
type Session struct {
	conn    *websocket.Conn
	stage   *stage.Stage
	sched   *loop.Manual
	display *DisplayList
	fps     int

	send  chan []byte
	inbox chan ClientMessage
	done  chan struct{}
}

func NewSession(conn *websocket.Conn, cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Session{
		conn:    conn,
		sched:   loop.NewManual(),
		display: NewDisplayList(),
		fps:     cfg.FPS,
		send:    make(chan []byte, sendBacklog),
		inbox:   make(chan ClientMessage, sendBacklog),
		done:    make(chan struct{}),
	}
	st, err := stage.Mount(s.display, s.sched, cfg)
	if err != nil {
		return nil, err
	}
	s.stage = st
	st.OnFrame(s.publish)
	return s, nil
}

func (s *Session) Stage() *stage.Stage { return s.stage }

// Run pumps frames until ctx is done or the browser goes away, then
// unmounts the stage.
func (s *Session) Run(ctx context.Context) error {
	closed := make(chan struct{})
	go s.readPump(closed)
	go s.writePump()
	defer close(s.send)
	defer close(s.done)

	if err := s.stage.Start(); err != nil {
		return err
	}
	defer s.stage.Unmount()

	ticker := time.NewTicker(time.Second / time.Duration(max(s.fps, 1)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-closed:
			return nil
		case msg := <-s.inbox:
			s.handle(msg)
		case now := <-ticker.C:
			s.sched.Fire(now)
		}
	}
}

func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case "pointer":
		if finite(msg.X, msg.Y) {
			s.stage.PointerMove(msg.X, msg.Y)
		}
	case "resize":
		if !finite(msg.Width, msg.Height, msg.Scale) {
			return
		}
		d := s.stage.Resize(msg.Width, msg.Height, msg.Scale)
		log.Printf("remote: resized to %.0fx%.0f at %.2fx", d.Width, d.Height, d.PixelScale)
	default:
		log.Printf("remote: unknown message type %q", msg.Type)
	}
}

// publish runs after every draw. A slow browser drops frames rather than
// stalling the loop.
func (s *Session) publish(render.Frame) {
	ops := s.display.Flush()
	if s.stage.Dimensions().Empty() {
		return
	}
	data, err := json.Marshal(FrameMessage{
		Type:   "frame",
		Step:   s.stage.Steps(),
		Energy: s.stage.Energy(),
		Ops:    ops,
	})
	if err != nil {
		log.Printf("remote: encode frame: %v", err)
		return
	}
	select {
	case s.send <- data:
	default:
	}
}

func (s *Session) readPump(closed chan<- struct{}) {
	defer close(closed)

	s.conn.SetReadLimit(maxMessage)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("remote: read: %v", err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		select {
		case s.inbox <- msg:
		case <-s.done:
			return
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("remote: write: %v", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
