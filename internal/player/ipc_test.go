package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"
)

// newTestMPV wires an MPV onto one end of an in-memory pipe so the IPC
// layer can be exercised without a real mpv process.
func newTestMPV(t *testing.T) (*MPV, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	m := &MPV{
		conn:    client,
		pending: make(map[int]chan ipcResponse),
	}
	go m.readLoop()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return m, server
}

// respondTo reads one command line off the server side and answers it.
func respondTo(t *testing.T, server net.Conn, reply func(id int, cmd []any) string) {
	t.Helper()
	scanner := bufio.NewScanner(server)
	if !scanner.Scan() {
		t.Errorf("no command received: %v", scanner.Err())
		return
	}
	var req struct {
		Command   []any `json:"command"`
		RequestID int   `json:"request_id"`
	}
	if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
		t.Errorf("bad command line %q: %v", scanner.Text(), err)
		return
	}
	if _, err := fmt.Fprintln(server, reply(req.RequestID, req.Command)); err != nil {
		t.Errorf("write reply: %v", err)
	}
}

func TestCommandMatchesResponseByID(t *testing.T) {
	m, server := newTestMPV(t)

	go respondTo(t, server, func(id int, cmd []any) string {
		if len(cmd) == 0 || cmd[0] != "get_property" {
			t.Errorf("unexpected command %v", cmd)
		}
		return fmt.Sprintf(`{"request_id":%d,"error":"success","data":1080}`, id)
	})

	resp, err := m.command("get_property", "video-params/h")
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	var v float64
	if err := resp.decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != 1080 {
		t.Errorf("data = %v, want 1080", v)
	}
}

func TestCommandErrorResponse(t *testing.T) {
	m, server := newTestMPV(t)

	go respondTo(t, server, func(id int, cmd []any) string {
		return fmt.Sprintf(`{"request_id":%d,"error":"property not found"}`, id)
	})

	if _, err := m.command("get_property", "nope"); err == nil {
		t.Fatal("expected error for failed command")
	}
}

func TestEndOfMediaEventDispatch(t *testing.T) {
	m, server := newTestMPV(t)

	fired := make(chan struct{}, 1)
	m.OnEndOfMedia(func() { fired <- struct{}{} })

	// eof-reached=false must not fire the observer.
	fmt.Fprintln(server, `{"event":"property-change","id":1,"name":"eof-reached","data":false}`)
	fmt.Fprintln(server, `{"event":"property-change","id":1,"name":"eof-reached","data":true}`)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("end-of-media observer never fired")
	}
	select {
	case <-fired:
		t.Fatal("observer fired for eof-reached=false")
	default:
	}
}

func TestConnectionCloseFailsPending(t *testing.T) {
	m, server := newTestMPV(t)

	errc := make(chan error, 1)
	go func() {
		_, err := m.command("get_property", "pause")
		errc <- err
	}()

	// Wait for the command to land, then drop the connection.
	scanner := bufio.NewScanner(server)
	if !scanner.Scan() {
		t.Fatalf("no command received: %v", scanner.Err())
	}
	server.Close()

	select {
	case err := <-errc:
		if err == nil {
			t.Fatal("expected error after connection close")
		}
	case <-time.After(time.Second):
		t.Fatal("command did not fail after connection close")
	}
}

func TestGravityArgs(t *testing.T) {
	tests := []struct {
		gravity Gravity
		want    []string
	}{
		{GravityAspectFill, []string{"--keepaspect=yes", "--panscan=1.0"}},
		{GravityAspect, []string{"--keepaspect=yes", "--panscan=0.0"}},
		{GravityStretch, []string{"--keepaspect=no"}},
	}
	for _, tt := range tests {
		got := gravityArgs(tt.gravity)
		if len(got) != len(tt.want) {
			t.Errorf("gravityArgs(%v) = %v, want %v", tt.gravity, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("gravityArgs(%v) = %v, want %v", tt.gravity, got, tt.want)
				break
			}
		}
	}
}
