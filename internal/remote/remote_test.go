package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/pivot"
	"github.com/san-kum/swing/internal/render"
	"github.com/san-kum/swing/internal/surface"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func names(ops []Op) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = o.Op
	}
	return out
}

func TestDisplayListRecordsFrame(t *testing.T) {
	d := NewDisplayList()
	d.SetBackingSize(1600, 1200)
	d.SetScale(2)
	dims := surface.Dimensions{Width: 800, Height: 600, PixelScale: 2}
	render.New().Draw(d, dynamo.InitialState(), dynamo.DefaultParams(), pivot.Point{X: 400, Y: 200}, dims)

	ops := d.Flush()
	want := "size scale clearRect beginPath strokeStyle lineWidth moveTo lineTo lineTo stroke fillStyle beginPath moveTo arc moveTo arc fill"
	if got := strings.Join(names(ops), " "); got != want {
		t.Fatalf("ops = %s\nwant  %s", got, want)
	}
	if ops[0].Args[0] != 1600 || ops[0].Args[1] != 1200 {
		t.Errorf("size args = %v", ops[0].Args)
	}
	if ops[1].Args[0] != 2 {
		t.Errorf("scale args = %v", ops[1].Args)
	}
	if ops[6].Args[0] != 400 || ops[6].Args[1] != 200 {
		t.Errorf("rods start at %v, want the pivot", ops[6].Args)
	}
	if ops[10].Color != "#888888" {
		t.Errorf("fill color = %q", ops[10].Color)
	}
	// the arc's subpath opens at its start angle, radius to the right
	if ops[12].Args[0] != ops[13].Args[0]+ops[13].Args[2] || ops[12].Args[1] != ops[13].Args[1] {
		t.Errorf("arc subpath starts at %v for arc %v", ops[12].Args, ops[13].Args)
	}
	if d.Len() != 0 {
		t.Errorf("Len after Flush = %d", d.Len())
	}
}

func TestDisplayListPartialClearKeepsOps(t *testing.T) {
	d := NewDisplayList()
	d.SetBackingSize(100, 100)
	d.SetScale(1)
	d.BeginPath()
	d.ClearRect(10, 10, 20, 20)
	if got := strings.Join(names(d.Flush()), " "); got != "size scale beginPath clearRect" {
		t.Errorf("ops = %s", got)
	}

	d.BeginPath()
	d.ClearRect(0, 0, 100, 100)
	if got := strings.Join(names(d.Flush()), " "); got != "size scale clearRect" {
		t.Errorf("full clear ops = %s", got)
	}
}

func TestDisplayListNilColor(t *testing.T) {
	d := NewDisplayList()
	d.SetStrokeColor(nil)
	if ops := d.Flush(); ops[0].Color != "transparent" {
		t.Errorf("nil color = %q", ops[0].Color)
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s, err := NewServer(ctx, config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestServerPages(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<canvas") {
		t.Errorf("index: %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var health struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" || health.Sessions != 0 {
		t.Errorf("health = %+v", health)
	}
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FPS = 0
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Error("expected an error for fps 0")
	}
}

// nextFrame reads frames until one satisfies match.
func nextFrame(t *testing.T, conn *websocket.Conn, match func(FrameMessage) bool) FrameMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg FrameMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if msg.Type == "frame" && match(msg) {
			return msg
		}
	}
}

func hasOp(msg FrameMessage, op string, args ...float64) bool {
	for _, o := range msg.Ops {
		if o.Op != op || len(o.Args) < len(args) {
			continue
		}
		same := true
		for i, a := range args {
			if o.Args[i] != a {
				same = false
			}
		}
		if same {
			return true
		}
	}
	return false
}

func TestSessionStreamsFrames(t *testing.T) {
	s, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(ClientMessage{Type: "resize", Width: 800, Height: 600, Scale: 2}); err != nil {
		t.Fatal(err)
	}
	first := nextFrame(t, conn, func(m FrameMessage) bool { return hasOp(m, "size", 1600, 1200) })
	if !hasOp(first, "moveTo", 400, 200) {
		t.Errorf("first frame does not hang from the recentred pivot: %+v", first.Ops)
	}

	if err := conn.WriteJSON(ClientMessage{Type: "pointer", X: 120, Y: 80}); err != nil {
		t.Fatal(err)
	}
	moved := nextFrame(t, conn, func(m FrameMessage) bool { return hasOp(m, "moveTo", 120, 80) })
	if moved.Step <= first.Step {
		t.Errorf("step %d after %d, want the loop to keep stepping", moved.Step, first.Step)
	}
	if s.Sessions() != 1 {
		t.Errorf("Sessions = %d, want 1", s.Sessions())
	}

	conn.Close()
	deadline := time.Now().Add(3 * time.Second)
	for s.Sessions() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Sessions() != 0 {
		t.Errorf("Sessions = %d after disconnect", s.Sessions())
	}
}

func TestSessionIgnoresBadMessages(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteJSON(ClientMessage{Type: "wiggle"})
	conn.WriteJSON(ClientMessage{Type: "resize", Width: 400, Height: 300, Scale: 1})

	msg := nextFrame(t, conn, func(m FrameMessage) bool { return hasOp(m, "size", 400, 300) })
	if !hasOp(msg, "clearRect", 0, 0, 400, 300) {
		t.Errorf("frame ops = %+v", msg.Ops)
	}
}
