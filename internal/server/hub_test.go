package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfbench/internal/api"
)

func statuses(name string, status api.TaskStatus) []api.ParallelWorkflowStatus {
	return []api.ParallelWorkflowStatus{{WorkflowID: "1", WorkflowName: name, Status: status}}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == n }, 5*time.Second, 10*time.Millisecond)
}

func TestHub_StatusesSnapshot(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/statuses")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"workflows":[]`)

	hub.Publish(statuses("purchase-flow", api.TaskRunning))

	resp, err = http.Get(srv.URL + "/statuses")
	require.NoError(t, err)
	defer resp.Body.Close()
	var msg Message
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	assert.Equal(t, "status", msg.Type)
	require.Len(t, msg.Workflows, 1)
	assert.Equal(t, api.TaskRunning, msg.Workflows[0].Status)
}

func TestHub_WebSocketReceivesUpdates(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	hub.Publish(statuses("a", api.TaskPending))
	conn := dial(t, srv, nil)
	waitForClients(t, hub, 1)

	first := readMessage(t, conn)
	require.Len(t, first.Workflows, 1)
	assert.Equal(t, api.TaskPending, first.Workflows[0].Status)

	hub.Publish(statuses("a", api.TaskCompleted))
	next := readMessage(t, conn)
	assert.Equal(t, api.TaskCompleted, next.Workflows[0].Status)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	// a client that never reads
	dial(t, srv, nil)
	waitForClients(t, hub, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer*20; i++ {
			hub.Publish(statuses("a", api.TaskRunning))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a slow client")
	}
}

func TestHub_Token(t *testing.T) {
	hub := NewHub(WithToken("s3cret"))
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/statuses")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/statuses", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/statuses?token=s3cret")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	conn := dial(t, srv, http.Header{"Authorization": []string{"Bearer s3cret"}})
	msg := readMessage(t, conn)
	assert.Empty(t, msg.Workflows)
}

func TestHub_StatusesRejectsPost(t *testing.T) {
	srv := httptest.NewServer(NewHub().Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/statuses", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
