// Package network is the client side of the room server: an HTTP JSON API
// to create, list, open and close rooms, and a websocket stream to exchange
// messages with the other players of a room.
//
// Stream events are queued by a background reader and delivered to Hooks
// by Poll, which the board calls once per tick.
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	// ErrNotConnected is returned by Send and Leave without a joined room.
	ErrNotConnected = errors.New("network: not connected")
	// ErrClosed fails receipts whose connection ended before confirmation.
	ErrClosed = errors.New("network: connection closed")
	// ErrRoomFull is returned by Join when the room rejected the player.
	ErrRoomFull = errors.New("network: room full")
	// ErrNoRoom is returned by room operations before a room is selected.
	ErrNoRoom = errors.New("network: no room selected")
	// ErrNoEndpoint is returned when the needed URL is not configured.
	ErrNoEndpoint = errors.New("network: endpoint not configured")
)

// Manager talks to a room server. HTTP calls are safe from any goroutine;
// stream events are only delivered through Poll.
type Manager struct {
	cfg    Config
	client *http.Client
	dialer *websocket.Dialer
	log    *zap.Logger

	mu      sync.Mutex
	roomUID string
	sess    *session
	inbox   []event
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithDialer replaces the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(m *Manager) { m.dialer = d }
}

// WithLogger sets the logger. The manager logs through a child named
// "network".
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager creates a manager for cfg.
func NewManager(cfg Config, opts ...Option) *Manager {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	m := &Manager{
		cfg:    cfg,
		client: http.DefaultClient,
		dialer: websocket.DefaultDialer,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("network")
	m.log.Info("network manager ready", zap.String("api", cfg.APIURL), zap.String("ws", cfg.WSURL))
	return m
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config { return m.cfg }

// RoomUID returns the current room, set by CreateRoom, Join or SetRoomUID.
func (m *Manager) RoomUID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomUID
}

// SetRoomUID selects the room used by the room data calls.
func (m *Manager) SetRoomUID(uid string) {
	m.mu.Lock()
	m.roomUID = uid
	m.mu.Unlock()
}

func (m *Manager) currentRoom(uid string) (string, error) {
	if uid != "" {
		return uid, nil
	}
	if cur := m.RoomUID(); cur != "" {
		return cur, nil
	}
	return "", ErrNoRoom
}

// Ping checks that the API answers and returns the round trip time.
func (m *Manager) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := m.do(ctx, http.MethodGet, "/ping", nil, nil); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

type createRoomRequest struct {
	Game    string `json:"game"`
	Version string `json:"version"`
	Name    string `json:"name"`
	Limit   int    `json:"limit"`
	Data    any    `json:"data,omitempty"`
}

// CreateRoom asks the server for a new room and makes it current. A limit
// of zero means unlimited. With autoJoin the stream is joined before
// returning, and the join response is returned instead.
func (m *Manager) CreateRoom(ctx context.Context, name string, limit int, data any, autoJoin bool) (Response, error) {
	m.log.Info("creating room", zap.String("name", name), zap.Int("limit", limit))
	resp, err := m.do(ctx, http.MethodPost, "/room/create", nil, createRoomRequest{
		Game:    m.cfg.Game,
		Version: m.cfg.Version,
		Name:    name,
		Limit:   limit,
		Data:    data,
	})
	if err != nil {
		return resp, err
	}
	var room Room
	if err := resp.Decode(&room); err != nil {
		return resp, fmt.Errorf("create room: %w", err)
	}
	if room.UID == "" {
		return resp, fmt.Errorf("create room: missing uid in response")
	}
	m.SetRoomUID(room.UID)
	if autoJoin {
		return m.Join(ctx, room.UID)
	}
	return resp, nil
}

type roomDataRequest struct {
	Data  any  `json:"data"`
	Merge bool `json:"merge"`
}

// SetRoomData stores data on the current room. With merge the server merges
// it into the existing data instead of replacing it.
func (m *Manager) SetRoomData(ctx context.Context, data any, merge bool) (Response, error) {
	uid, err := m.currentRoom("")
	if err != nil {
		return Response{}, err
	}
	return m.do(ctx, http.MethodPost, "/room/"+url.PathEscape(uid)+"/data", nil, roomDataRequest{Data: data, Merge: merge})
}

// RoomData fetches the current room's data.
func (m *Manager) RoomData(ctx context.Context) (Response, error) {
	uid, err := m.currentRoom("")
	if err != nil {
		return Response{}, err
	}
	return m.do(ctx, http.MethodGet, "/room/"+url.PathEscape(uid)+"/data", nil, nil)
}

// CloseRoom stops a room from accepting players. An empty uid means the
// current room.
func (m *Manager) CloseRoom(ctx context.Context, uid string) (Response, error) {
	uid, err := m.currentRoom(uid)
	if err != nil {
		return Response{}, err
	}
	return m.do(ctx, http.MethodPost, "/room/"+url.PathEscape(uid)+"/close", nil, nil)
}

// OpenRoom undoes CloseRoom.
func (m *Manager) OpenRoom(ctx context.Context, uid string) (Response, error) {
	uid, err := m.currentRoom(uid)
	if err != nil {
		return Response{}, err
	}
	return m.do(ctx, http.MethodPost, "/room/"+url.PathEscape(uid)+"/open", nil, nil)
}

// OpenedRooms lists the open rooms of this game and version.
func (m *Manager) OpenedRooms(ctx context.Context) ([]Room, error) {
	return m.rooms(ctx, "/rooms/opened")
}

// ClosedRooms lists the closed rooms of this game and version.
func (m *Manager) ClosedRooms(ctx context.Context) ([]Room, error) {
	return m.rooms(ctx, "/rooms/closed")
}

func (m *Manager) rooms(ctx context.Context, path string) ([]Room, error) {
	q := url.Values{}
	q.Set("game", m.cfg.Game)
	q.Set("version", m.cfg.Version)
	resp, err := m.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	var rooms []Room
	if err := resp.Decode(&rooms); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rooms, nil
}

// do sends one API request and decodes the uniform response. A response
// with a non-success status is returned together with a *ResponseError.
func (m *Manager) do(ctx context.Context, method, path string, query url.Values, body any) (Response, error) {
	if m.cfg.APIURL == "" {
		return Response{}, fmt.Errorf("%s %s: %w", method, path, ErrNoEndpoint)
	}
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	target := strings.TrimSuffix(m.cfg.APIURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("%s %s: encode: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := m.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var resp Response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return Response{}, fmt.Errorf("%s %s: %s", method, path, res.Status)
		}
		return Response{}, fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	if !resp.OK() {
		m.log.Warn("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("code", resp.Code),
			zap.String("message", resp.Message))
		return resp, &ResponseError{Response: resp}
	}
	return resp, nil
}
