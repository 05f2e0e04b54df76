package debugger

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// ErrRemoteClosed is returned by Remote.Next once the Remote is closed.
var ErrRemoteClosed = errors.New("debugger: remote closed")

const (
	writeWait = 10 * time.Second
	sendQueue = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Remote is a CommandSource serving the command set over a websocket
// at /debug. Every text message received is one command line, and
// every reply is sent to all connected clients.
type Remote struct {
	addr   string
	server *http.Server
	mux    *http.ServeMux

	commands chan string
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	clients map[*remoteClient]bool
	// last is replayed to clients that connect while paused
	last string

	log log.Logger
}

type remoteClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewRemote returns a Remote that will listen on addr once started.
func NewRemote(addr string, logger log.Logger) *Remote {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	r := &Remote{
		addr:     addr,
		mux:      http.NewServeMux(),
		commands: make(chan string),
		done:     make(chan struct{}),
		clients:  make(map[*remoteClient]bool),
		log:      logger,
	}
	r.mux.HandleFunc("/debug", r.handle)
	return r
}

// Start listens on the Remote's address and serves in the background.
func (r *Remote) Start() error {
	l, err := net.Listen("tcp", r.addr)
	if err != nil {
		return err
	}
	r.addr = l.Addr().String()
	r.server = &http.Server{Handler: r.mux}

	go func() {
		if err := r.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.log.Errorf("remote debugger: %v", err)
		}
	}()
	r.log.Infof("remote debugger listening on ws://%s/debug", r.addr)
	return nil
}

// Addr returns the listening address.
func (r *Remote) Addr() string {
	return r.addr
}

// ServeHTTP allows the Remote to be mounted on another server.
func (r *Remote) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Remote) handle(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Errorf("remote debugger: upgrade: %v", err)
		return
	}

	c := &remoteClient{conn: conn, send: make(chan []byte, sendQueue)}
	r.mu.Lock()
	r.clients[c] = true
	if r.last != "" {
		c.send <- []byte(r.last)
	}
	r.mu.Unlock()
	r.log.Debugf("remote debugger: client %s connected", req.RemoteAddr)

	go r.writePump(c)
	go r.readPump(c)
}

// readPump hands each text message to Next.
func (r *Remote) readPump(c *remoteClient) {
	defer r.unregister(c)

	for {
		kind, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if kind != websocket.TextMessage {
			continue
		}

		select {
		case r.commands <- string(message):
		case <-r.done:
			return
		}
	}
}

func (r *Remote) writePump(c *remoteClient) {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (r *Remote) unregister(c *remoteClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		close(c.send)
	}
}

// Next blocks until a client sends a command line.
func (r *Remote) Next(ctx context.Context) (string, error) {
	select {
	case line := <-r.commands:
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-r.done:
		return "", ErrRemoteClosed
	}
}

// Reply sends msg to every connected client. Slow clients that have
// filled their queue miss the message.
func (r *Remote) Reply(msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last = msg
	for c := range r.clients {
		select {
		case c.send <- []byte(msg):
		default:
			r.log.Debugf("remote debugger: dropping message for slow client")
		}
	}
	return nil
}

// Close disconnects every client and stops the server.
func (r *Remote) Close() error {
	r.once.Do(func() {
		close(r.done)
	})

	r.mu.Lock()
	for c := range r.clients {
		delete(r.clients, c)
		close(c.send)
	}
	r.mu.Unlock()

	if r.server != nil {
		return r.server.Close()
	}
	return nil
}
