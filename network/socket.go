package network

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// outboxSize is the number of frames Send can queue before it blocks.
const outboxSize = 64

// event is one queued stream event.
type event struct {
	msg    SocketMessage
	closed bool
	err    error
}

// session is one websocket connection to a room.
type session struct {
	conn   *websocket.Conn
	out    chan frame
	done   chan struct{}
	joined chan SocketMessage

	handshake atomic.Bool
	leaving   atomic.Bool

	mu      sync.Mutex
	pending map[string]*Receipt
}

// Receipt tracks a sent message until the server confirms it.
type Receipt struct {
	// ID is the uuid sent with the message.
	ID   string
	done chan struct{}
	msg  SocketMessage
	err  error
}

// Done is closed once the receipt is resolved.
func (r *Receipt) Done() <-chan struct{} { return r.done }

// Wait blocks until the server confirms the message, the connection ends,
// or ctx is done.
func (r *Receipt) Wait(ctx context.Context) (SocketMessage, error) {
	select {
	case <-r.done:
		return r.msg, r.err
	case <-ctx.Done():
		return SocketMessage{}, ctx.Err()
	}
}

func (r *Receipt) resolve(msg SocketMessage, err error) {
	r.msg, r.err = msg, err
	close(r.done)
}

// Connected reports whether a room stream is open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess != nil
}

// Join opens the stream of room uid, replacing any open stream, and waits
// for the server's answer. A full room yields an error response and
// ErrRoomFull.
func (m *Manager) Join(ctx context.Context, uid string) (Response, error) {
	if m.cfg.WSURL == "" {
		return Response{}, fmt.Errorf("join room: %w", ErrNoEndpoint)
	}
	if uid == "" {
		return Response{}, fmt.Errorf("join room: %w", ErrNoRoom)
	}
	m.leaveSession()

	target, err := url.JoinPath(m.cfg.WSURL, "room", uid, "join")
	if err != nil {
		return Response{}, fmt.Errorf("join room %s: %w", uid, err)
	}
	conn, _, err := m.dialer.DialContext(ctx, target, nil)
	if err != nil {
		return Response{}, fmt.Errorf("join room %s: %w", uid, err)
	}

	s := &session{
		conn:    conn,
		out:     make(chan frame, outboxSize),
		done:    make(chan struct{}),
		joined:  make(chan SocketMessage, 1),
		pending: make(map[string]*Receipt),
	}
	m.mu.Lock()
	m.roomUID = uid
	m.sess = s
	m.mu.Unlock()
	m.start(s)

	select {
	case msg := <-s.joined:
		resp := Response{Status: StatusSuccess, Code: msg.Code, Data: msg.Data}
		if msg.Code == CodeRoomFull {
			resp.Status = StatusError
			m.leaveSession()
			m.log.Warn("room full", zap.String("room", uid))
			return resp, ErrRoomFull
		}
		m.log.Info("joined room", zap.String("room", uid))
		return resp, nil
	case <-s.done:
		select {
		case msg := <-s.joined:
			// The server answered and hung up right away.
			return Response{Status: StatusSuccess, Code: msg.Code, Data: msg.Data}, nil
		default:
		}
		return Response{}, fmt.Errorf("join room %s: %w", uid, ErrClosed)
	case <-ctx.Done():
		m.leaveSession()
		return Response{}, ctx.Err()
	}
}

// Leave closes the room stream. OnConnectionClosed is not called for a
// stream closed this way.
func (m *Manager) Leave() error {
	if !m.leaveSession() {
		return ErrNotConnected
	}
	m.log.Info("left room", zap.String("room", m.RoomUID()))
	return nil
}

func (m *Manager) leaveSession() bool {
	m.mu.Lock()
	s := m.sess
	m.sess = nil
	m.mu.Unlock()
	if s == nil {
		return false
	}
	s.leaving.Store(true)
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = s.conn.Close()
	<-s.done
	return true
}

// Send writes msg to the room stream under a fresh id. The receipt resolves
// when the server echoes msg_sent for that id.
func (m *Manager) Send(msg any) (*Receipt, error) {
	m.mu.Lock()
	s := m.sess
	m.mu.Unlock()
	if s == nil {
		return nil, ErrNotConnected
	}

	r := &Receipt{ID: uuid.NewString(), done: make(chan struct{})}
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.pending[r.ID] = r
	s.mu.Unlock()

	select {
	case s.out <- frame{ID: r.ID, Msg: msg}:
		return r, nil
	case <-s.done:
		return nil, ErrClosed
	}
}

// Poll delivers every queued stream event to h, in arrival order, and
// returns how many were delivered.
func (m *Manager) Poll(h Hooks) int {
	m.mu.Lock()
	batch := m.inbox
	m.inbox = nil
	m.mu.Unlock()

	for _, ev := range batch {
		if ev.closed {
			h.OnConnectionClosed(ev.err)
			continue
		}
		switch ev.msg.Code {
		case CodePlayerJoin:
			h.OnPlayerJoin(ev.msg)
		case CodePlayerLeave:
			h.OnPlayerLeave(ev.msg)
		case CodeBroadcast:
			h.OnNetworkMessage(ev.msg)
		default:
			m.log.Debug("unhandled message", zap.String("code", ev.msg.Code))
		}
	}
	return len(batch)
}

// Pending returns the number of queued stream events.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inbox)
}

func (m *Manager) enqueue(ev event) {
	m.mu.Lock()
	m.inbox = append(m.inbox, ev)
	m.mu.Unlock()
}

// start runs the reader and writer. When either fails the other is stopped
// and the session is finished.
func (m *Manager) start(s *session) {
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return m.readLoop(s) })
	g.Go(func() error { return m.writeLoop(ctx, s) })
	go func() {
		m.finish(s, g.Wait())
	}()
}

func (m *Manager) readLoop(s *session) error {
	for {
		var msg SocketMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			return err
		}
		switch msg.Code {
		case CodeConnected, CodeRoomFull:
			if s.handshake.CompareAndSwap(false, true) {
				s.joined <- msg
			}
		case CodeMsgSent:
			s.confirm(msg)
		default:
			m.enqueue(event{msg: msg})
		}
	}
}

func (m *Manager) writeLoop(ctx context.Context, s *session) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(m.cfg.Timeout))
			if err := s.conn.WriteJSON(f); err != nil {
				_ = s.conn.Close()
				return fmt.Errorf("write frame: %w", err)
			}
		}
	}
}

func (m *Manager) finish(s *session, err error) {
	s.failPending(ErrClosed)
	_ = s.conn.Close()

	m.mu.Lock()
	if m.sess == s {
		m.sess = nil
	}
	if !s.leaving.Load() && s.handshake.Load() {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			err = nil
		}
		m.inbox = append(m.inbox, event{closed: true, err: err})
		m.log.Warn("connection closed", zap.Error(err))
	}
	m.mu.Unlock()
	close(s.done)
}

func (s *session) confirm(msg SocketMessage) {
	id, ok := msg.sentID()
	if !ok {
		return
	}
	s.mu.Lock()
	r := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if r != nil {
		r.resolve(msg, nil)
	}
}

func (s *session) failPending(err error) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, r := range pending {
		r.resolve(SocketMessage{}, err)
	}
}
