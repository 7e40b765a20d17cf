package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/motion/internal/core/observability/log"
	"github.com/zeusync/motion/internal/core/reactive"
	"github.com/zeusync/motion/internal/core/runtime"
	"github.com/zeusync/motion/internal/core/stream"
	"github.com/zeusync/motion/internal/core/systems/physics"
	"github.com/zeusync/motion/internal/core/transition"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	clientBuffer = 64
	writeTimeout = 2 * time.Second
)

// Command is a client request. Value is a direction name for "direction" and
// a number for "tension", "friction" and "initial_velocity".
type Command struct {
	Op    string          `json:"op"`
	Value json.RawMessage `json:"value"`
}

// Frame is broadcast to every client on each property change and returned by
// GET /state.
type Frame struct {
	Value       float64 `json:"value"`
	Destination float64 `json:"destination"`
	Direction   string  `json:"direction"`
	State       string  `json:"state"`
	Tension     float64 `json:"tension"`
	Friction    float64 `json:"friction"`
}

// Console exposes a transition spring over websocket so its direction and
// parameters can be tuned while it runs.
type Console struct {
	rt        *runtime.Runtime
	spring    *transition.Spring[physics.Scalar]
	direction *reactive.Cell[transition.Direction]
	logger    log.Log

	mu      sync.Mutex
	clients map[*client]struct{}
	server  *http.Server
	watch   stream.Subscription
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewConsole creates a console for ts. Commands are executed on the runtime
// loop, so rt.Run must be running for them to take effect.
func NewConsole(rt *runtime.Runtime, ts *transition.Spring[physics.Scalar], direction *reactive.Cell[transition.Direction], logger log.Log) *Console {
	c := &Console{
		rt:        rt,
		spring:    ts,
		direction: direction,
		logger:    logger.With(log.String("component", "console")),
		clients:   make(map[*client]struct{}),
	}
	c.watch = ts.Property.Subscribe(func(physics.Scalar) { c.broadcast() })
	return c
}

// Start listens on addr in the background.
func (c *Console) Start(ctx context.Context, addr string) error {
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("console listen: %w", err)
	}

	c.mu.Lock()
	c.server = &http.Server{Handler: c, ReadHeaderTimeout: 5 * time.Second}
	srv := c.server
	c.mu.Unlock()

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("console stopped", log.Error(err))
		}
	}()
	c.logger.Info("console listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Stop shuts the HTTP server down and disconnects every client.
func (c *Console) Stop(ctx context.Context) error {
	c.watch.Unsubscribe()

	c.mu.Lock()
	srv := c.server
	c.server = nil
	clients := c.clients
	c.clients = make(map[*client]struct{})
	c.mu.Unlock()

	for cl := range clients {
		close(cl.send)
	}
	if srv == nil {
		return ErrNotRunning
	}
	return srv.Shutdown(ctx)
}

func (c *Console) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ws":
		c.handleWebSocket(w, r)
	case "/state":
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	default:
		http.NotFound(w, r)
	}
}

// Snapshot returns the current frame.
func (c *Console) Snapshot() Frame {
	return Frame{
		Value:       float64(c.spring.Property.Get()),
		Destination: float64(c.spring.Destination.Get()),
		Direction:   c.direction.Get().String(),
		State:       c.spring.Spring.State.Get().String(),
		Tension:     c.spring.Tension.Get(),
		Friction:    c.spring.Friction.Get(),
	}
}

// Apply validates cmd and queues it on the runtime loop.
func (c *Console) Apply(ctx context.Context, cmd Command) error {
	write, err := c.decode(cmd)
	if err != nil {
		return err
	}
	return c.rt.Do(ctx, write)
}

func (c *Console) decode(cmd Command) (func(), error) {
	switch cmd.Op {
	case "direction":
		var name string
		if err := json.Unmarshal(cmd.Value, &name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		d, err := transition.ParseDirection(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		return func() { c.direction.Set(d) }, nil
	case "tension", "friction", "initial_velocity":
		var v float64
		if err := json.Unmarshal(cmd.Value, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		switch cmd.Op {
		case "tension":
			return func() { c.spring.Tension.Set(v) }, nil
		case "friction":
			return func() { c.spring.Friction.Set(v) }, nil
		default:
			return func() { c.spring.InitialVelocity.Set(physics.Scalar(v)) }, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}

func (c *Console) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	c.mu.Lock()
	c.clients[cl] = struct{}{}
	c.mu.Unlock()
	c.logger.Debug("client connected", log.String("remote", conn.RemoteAddr().String()))

	go c.writeLoop(cl)
	c.readLoop(r.Context(), cl)
}

func (c *Console) readLoop(ctx context.Context, cl *client) {
	defer c.drop(cl)
	for {
		var cmd Command
		if err := cl.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("client read failed", log.Error(err))
			}
			return
		}
		if err := c.Apply(ctx, cmd); err != nil {
			c.logger.Warn("command rejected", log.String("op", cmd.Op), log.Error(err))
			_ = c.sendTo(cl, map[string]string{"error": err.Error()})
		}
	}
}

func (c *Console) writeLoop(cl *client) {
	defer cl.conn.Close()
	for msg := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.logger.Debug("client write failed", log.Error(err))
			return
		}
	}
}

func (c *Console) drop(cl *client) {
	c.mu.Lock()
	_, ok := c.clients[cl]
	delete(c.clients, cl)
	c.mu.Unlock()
	if ok {
		close(cl.send)
	}
}

// broadcast runs on the runtime goroutine and never blocks it: slow clients
// lose frames.
func (c *Console) broadcast() {
	msg, err := json.Marshal(c.Snapshot())
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for cl := range c.clients {
		select {
		case cl.send <- msg:
		default:
		}
	}
}

func (c *Console) sendTo(cl *client, v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.clients[cl]; !ok {
		return ErrNotRunning
	}
	select {
	case cl.send <- msg:
	default:
	}
	return nil
}
