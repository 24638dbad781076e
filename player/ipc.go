package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is anything mpv writes back: a reply carries a request_id, an event carries an event name.
type ipcMessage struct {
	RequestID *int64 `json:"request_id,omitempty"`
	Error     string `json:"error,omitempty"`
	Data      any    `json:"data,omitempty"`

	Event     string `json:"event,omitempty"`
	Name      string `json:"name,omitempty"`
	Reason    string `json:"reason,omitempty"`
	FileError string `json:"file_error,omitempty"`
}

const (
	maxRetries     = 3
	retryDelay     = 100 * time.Millisecond
	commandTimeout = 2 * time.Second
)

var errIPCClosed = errors.New("ipc connection closed")

// ipcClient multiplexes commands and events over one persistent mpv connection.
type ipcClient struct {
	conn    net.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan ipcMessage
	err     error

	onEvent func(ipcMessage)
	done    chan struct{}
}

// dialIPC connects to the socket, retrying transient failures.
func dialIPC(socketPath string, onEvent func(ipcMessage)) (*ipcClient, error) {
	var (
		conn    net.Conn
		lastErr error
	)

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		conn, lastErr = net.Dial("unix", socketPath)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("ipc connect failed after %d attempts: %w", maxRetries, lastErr)
	}

	c := &ipcClient{
		conn:    conn,
		pending: make(map[int64]chan ipcMessage),
		onEvent: onEvent,
		done:    make(chan struct{}),
	}
	go c.readLoop()

	return c, nil
}

// send issues a command and waits for its reply.
func (c *ipcClient) send(ctx context.Context, command ...any) (any, error) {
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return nil, c.err
	}
	c.nextID++
	id := c.nextID
	reply := make(chan ipcMessage, 1)
	c.pending[id] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(payload, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	select {
	case msg := <-reply:
		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", msg.Error)
		}
		return msg.Data, nil
	case <-c.done:
		return nil, c.closedErr()
	case <-ctx.Done():
		return nil, fmt.Errorf("mpv %v: %w", command[0], ctx.Err())
	}
}

// readLoop dispatches replies to waiting senders and everything else to onEvent.
// mpv writes newline-delimited JSON.
func (c *ipcClient) readLoop() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		if msg.RequestID != nil && msg.Event == "" {
			c.mu.Lock()
			reply, ok := c.pending[*msg.RequestID]
			c.mu.Unlock()
			if ok {
				reply <- msg
			}
			continue
		}

		if msg.Event != "" && c.onEvent != nil {
			c.onEvent(msg)
		}
	}

	c.mu.Lock()
	c.err = errIPCClosed
	if err := scanner.Err(); err != nil {
		c.err = fmt.Errorf("%w: %w", errIPCClosed, err)
	}
	c.mu.Unlock()
}

func (c *ipcClient) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		return errIPCClosed
	}
	return c.err
}

func (c *ipcClient) close() error {
	return c.conn.Close()
}
