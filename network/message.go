package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Socket message codes.
const (
	CodeConnected   = "connected"
	CodeRoomFull    = "room_full"
	CodePlayerJoin  = "player_join"
	CodePlayerLeave = "player_leave"
	CodeBroadcast   = "broadcast"
	CodeMsgSent     = "msg_sent"
)

// Config points the manager at a room server.
type Config struct {
	// APIURL is the base URL of the HTTP room API.
	APIURL string `yaml:"api_url"`
	// WSURL is the base URL of the websocket server.
	WSURL string `yaml:"ws_url"`
	// Game and Version identify the game when creating and listing rooms.
	Game    string `yaml:"game"`
	Version string `yaml:"version"`
	// Timeout bounds every HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultTimeout is the HTTP request timeout used when Config.Timeout is
// zero.
const DefaultTimeout = time.Second

// Enabled reports whether any endpoint is configured.
func (c Config) Enabled() bool { return c.APIURL != "" || c.WSURL != "" }

// Validate checks the URL schemes. An empty Config is valid.
func (c Config) Validate() error {
	var errs []error
	if c.APIURL != "" {
		if err := checkURL(c.APIURL, "http", "https"); err != nil {
			errs = append(errs, fmt.Errorf("network api_url: %w", err))
		}
	}
	if c.WSURL != "" {
		if err := checkURL(c.WSURL, "ws", "wss"); err != nil {
			errs = append(errs, fmt.Errorf("network ws_url: %w", err))
		}
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("network timeout %v must not be negative", c.Timeout))
	}
	return errors.Join(errs...)
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%q must be an absolute %v URL", raw, schemes)
}

// Response is the uniform reply of every room API endpoint, and the result
// of joining a room.
type Response struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OK reports whether the server accepted the request.
func (r Response) OK() bool { return r.Status == StatusSuccess }

// Decode unmarshals Data into v.
func (r Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// ResponseError is returned alongside a Response whose status is not
// success.
type ResponseError struct {
	Response Response
}

func (e *ResponseError) Error() string {
	if e.Response.Message != "" {
		return fmt.Sprintf("network: %s: %s", e.Response.Code, e.Response.Message)
	}
	return fmt.Sprintf("network: %s", e.Response.Code)
}

// Room describes a game room on the server.
type Room struct {
	UID     string            `json:"uid"`
	Game    string            `json:"game"`
	Version string            `json:"version"`
	Name    string            `json:"name"`
	Open    bool              `json:"open"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Limit   int               `json:"limit"`
	Clients []json.RawMessage `json:"clients,omitempty"`
}

// SocketMessage is one message received on the room stream.
type SocketMessage struct {
	Code string          `json:"code"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals Data into v.
func (m SocketMessage) Decode(v any) error {
	if len(m.Data) == 0 {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// frame is one message written to the room stream.
type frame struct {
	ID  string `json:"id"`
	Msg any    `json:"msg"`
}

// sentID extracts the id of the frame a msg_sent message confirms.
func (m SocketMessage) sentID() (string, bool) {
	var body struct {
		Msg struct {
			ID string `json:"id"`
		} `json:"msg"`
	}
	if err := m.Decode(&body); err != nil || body.Msg.ID == "" {
		return "", false
	}
	return body.Msg.ID, true
}

// Hooks receives room stream events. The board's active step implements
// it; events are delivered from Manager.Poll.
type Hooks interface {
	OnNetworkMessage(msg SocketMessage)
	OnPlayerJoin(msg SocketMessage)
	OnPlayerLeave(msg SocketMessage)
	// OnConnectionClosed is called once when the stream ends without Leave.
	// err is nil for a normal close.
	OnConnectionClosed(err error)
}
