package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const commandTimeout = 3 * time.Second

// ipcMessage is a single line read from the mpv IPC socket. Responses
// carry request_id and error; events carry event plus event-specific
// fields.
type ipcMessage struct {
	RequestID *int            `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	Event     string          `json:"event"`
	ID        int             `json:"id"`
	Name      string          `json:"name"`
}

type ipcResponse struct {
	err  error
	data json.RawMessage
}

func (r ipcResponse) decode(v any) error {
	if len(r.data) == 0 {
		return errors.New("empty mpv response")
	}
	return json.Unmarshal(r.data, v)
}

// command sends one mpv command and waits for its matching response.
func (m *MPV) command(args ...any) (ipcResponse, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ipcResponse{}, errors.New("player closed")
	}
	m.nextID++
	id := m.nextID
	ch := make(chan ipcResponse, 1)
	m.pending[id] = ch
	m.mu.Unlock()

	payload, err := json.Marshal(map[string]any{
		"command":    args,
		"request_id": id,
	})
	if err != nil {
		m.dropPending(id)
		return ipcResponse{}, err
	}

	m.writeMu.Lock()
	_, err = m.conn.Write(append(payload, '\n'))
	m.writeMu.Unlock()
	if err != nil {
		m.dropPending(id)
		return ipcResponse{}, fmt.Errorf("mpv ipc write failed: %w", err)
	}

	select {
	case resp := <-ch:
		return resp, resp.err
	case <-time.After(commandTimeout):
		m.dropPending(id)
		return ipcResponse{}, errors.New("mpv ipc command timed out")
	}
}

func (m *MPV) dropPending(id int) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

// readLoop consumes the socket line by line, matching responses to
// pending commands and dispatching events. Exits when the socket closes.
func (m *MPV) readLoop() {
	scanner := bufio.NewScanner(m.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.RequestID != nil {
			m.deliverResponse(*msg.RequestID, msg)
			continue
		}
		m.handleEvent(msg)
	}
	m.failPending(errors.New("mpv ipc connection closed"))
}

func (m *MPV) deliverResponse(id int, msg ipcMessage) {
	resp := ipcResponse{data: msg.Data}
	if msg.Error != "" && msg.Error != "success" {
		resp.err = fmt.Errorf("mpv: %s", msg.Error)
	}
	m.mu.Lock()
	ch, ok := m.pending[id]
	if ok {
		delete(m.pending, id)
	}
	m.mu.Unlock()
	if ok {
		ch <- resp
	}
}

func (m *MPV) handleEvent(msg ipcMessage) {
	switch msg.Event {
	case "property-change":
		if msg.Name != "eof-reached" {
			return
		}
		var reached bool
		if err := json.Unmarshal(msg.Data, &reached); err != nil || !reached {
			return
		}
		m.mu.Lock()
		fn := m.onEnd
		m.mu.Unlock()
		// Off the read loop: the handler may issue commands whose
		// responses arrive on this loop.
		if fn != nil {
			go fn()
		}
	case "video-reconfig":
		// Queried off the read loop: the answer arrives on this loop.
		go m.refreshVideoParams()
	}
}

func (m *MPV) failPending(err error) {
	m.mu.Lock()
	pending := m.pending
	m.pending = make(map[int]chan ipcResponse)
	m.mu.Unlock()
	for _, ch := range pending {
		ch <- ipcResponse{err: err}
	}
}
