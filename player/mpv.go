package player

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/quarrel-cli/quarrel/constant"
	"github.com/quarrel-cli/quarrel/log"
	"github.com/quarrel-cli/quarrel/media"
	"github.com/quarrel-cli/quarrel/where"
	"github.com/samber/mo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPVOptions tune how mpv processes are launched.
type MPVOptions struct {
	// Binary is the mpv executable. Defaults to "mpv".
	Binary string
	// Title is shown in the video window.
	Title string
}

// MPV is a media.Resource backed by its own idle mpv process driven over JSON-IPC.
// Video resources are always muted; audio resources never open a window.
type MPV struct {
	kind   media.Kind
	source string
	opts   MPVOptions

	socketPath string

	// launchMu is held while mpv is started and while it is torn down.
	launchMu sync.Mutex
	// abort is closed by Release to cut a pending start short.
	abort chan struct{}

	observers media.Observers

	mu         sync.Mutex
	cmd        *exec.Cmd
	exited     chan struct{}
	ipc        *ipcClient
	fileLoaded bool
	cacheIdle  bool
	ready      bool
	ended      bool
	failed     bool
	position   float64
	duration   mo.Option[float64]
	released   bool
}

// NewMPV prepares a resource. No process is started until Load.
func NewMPV(kind media.Kind, source string, opts MPVOptions) (*MPV, error) {
	target, err := sanitizeMediaTarget(source)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	if opts.Binary == "" {
		opts.Binary = "mpv"
	}

	return &MPV{
		kind:   kind,
		source: target,
		opts:   opts,
		abort:  make(chan struct{}),
	}, nil
}

func (m *MPV) Kind() media.Kind { return m.kind }
func (m *MPV) Source() string   { return m.source }

// Load starts mpv on first use and (re)loads the file paused at the beginning.
// A Release while mpv is still starting makes Load return media.ErrReleased.
func (m *MPV) Load(ctx context.Context) error {
	m.launchMu.Lock()
	defer m.launchMu.Unlock()

	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return media.ErrReleased
	}
	m.fileLoaded, m.cacheIdle, m.ready, m.ended, m.failed = false, false, false, false, false
	m.position = 0
	client := m.ipc
	m.mu.Unlock()

	if client == nil {
		var err error
		if client, err = m.start(ctx); err != nil {
			return err
		}
	}

	if _, err := client.send(ctx, "loadfile", m.source, "replace"); err != nil {
		return fmt.Errorf("loadfile: %w", err)
	}
	return nil
}

// start launches mpv and connects to it. Callers hold launchMu.
func (m *MPV) start(ctx context.Context) (*ipcClient, error) {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return nil, fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%s-%x.sock", constant.Quarrel, m.kind, randomBytes))
	}

	cmd := exec.Command(m.opts.Binary, m.args()...)

	// Detach from parent process group so a terminal signal to quarrel does not hit mpv first.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	// Reap the process to prevent zombies.
	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	m.mu.Lock()
	m.cmd, m.exited = cmd, exited
	m.mu.Unlock()

	if err := m.waitForSocket(ctx, exited); err != nil {
		m.teardown()
		return nil, err
	}

	client, err := dialIPC(m.socketPath, m.handleEvent)
	if err != nil {
		m.teardown()
		return nil, err
	}

	m.mu.Lock()
	m.ipc = client
	released := m.released
	m.mu.Unlock()
	if released {
		m.teardown()
		return nil, media.ErrReleased
	}

	if err := m.observe(ctx, client); err != nil {
		m.teardown()
		return nil, err
	}

	log.Debugf("mpv %s started on %s", m.kind, m.socketPath)
	return client, nil
}

func (m *MPV) args() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--idle=yes",
		"--pause=yes",
		"--keep-open=yes",
		"--cache=yes",
	}

	switch m.kind {
	case media.Video:
		args = append(args, "--mute=yes", "--audio=no", "--force-window=yes")
		if title := sanitizeTitle(m.opts.Title); title != "" {
			args = append(args, fmt.Sprintf("--title=%s", title))
		}
	case media.Audio:
		args = append(args, "--video=no", "--force-window=no")
	}

	return args
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket(ctx context.Context, exited <-chan struct{}) error {
	timer := time.NewTimer(socketWaitDelay)
	defer timer.Stop()

	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-m.abort:
			return media.ErrReleased
		case <-ctx.Done():
			return ctx.Err()
		case <-exited:
			return fmt.Errorf("mpv exited before socket was ready")
		case <-timer.C:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
		timer.Reset(socketWaitDelay)
	}

	log.Warnf("mpv %s: socket never became ready", m.kind)
	return fmt.Errorf("mpv socket not ready: %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *MPV) Duration() mo.Option[float64] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *MPV) Observe(fn func(media.Event)) (cancel func()) {
	return m.observers.Add(fn)
}

func (m *MPV) Play(ctx context.Context) error {
	m.mu.Lock()
	m.ended = false
	m.mu.Unlock()
	return m.set(ctx, "pause", false)
}

func (m *MPV) Pause() error {
	return m.set(context.Background(), "pause", true)
}

func (m *MPV) Seek(seconds float64) error {
	client, err := m.client()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.ended = false
	m.position = seconds
	m.mu.Unlock()
	_, err = client.send(context.Background(), "seek", seconds, "absolute+exact")
	return err
}

func (m *MPV) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *MPV) SetMuted(muted bool) error {
	if m.kind == media.Video {
		muted = true
	}
	return m.set(context.Background(), "mute", muted)
}

func (m *MPV) SetLoop(loop bool) error {
	value := "no"
	if loop {
		value = "inf"
	}
	return m.set(context.Background(), "loop-file", value)
}

// Release quits mpv, force killing it if it does not exit in time, and removes the socket.
// A start in progress is aborted and its process is stopped before Release returns.
func (m *MPV) Release() error {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return nil
	}
	m.released = true
	m.mu.Unlock()

	close(m.abort)
	m.observers.Clear()

	m.launchMu.Lock()
	defer m.launchMu.Unlock()
	m.teardown()
	return nil
}

// teardown stops whatever process start left behind. Callers hold launchMu.
func (m *MPV) teardown() {
	m.mu.Lock()
	cmd, exited, client := m.cmd, m.exited, m.ipc
	m.cmd, m.exited, m.ipc = nil, nil, nil
	m.mu.Unlock()

	if cmd == nil {
		return
	}

	if client != nil {
		_, _ = client.send(context.Background(), "quit")
	} else {
		_ = killProcess(cmd)
	}

	select {
	case <-exited:
	case <-time.After(quitTimeout):
		_ = killProcess(cmd)
		<-exited
	}

	if client != nil {
		_ = client.close()
	}
	_ = os.Remove(m.socketPath)
}

// client returns the connection of a loaded, unreleased resource.
func (m *MPV) client() (*ipcClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return nil, media.ErrReleased
	}
	if m.ipc == nil {
		return nil, fmt.Errorf("%s not loaded", m.source)
	}
	return m.ipc, nil
}

func (m *MPV) set(ctx context.Context, property string, value any) error {
	client, err := m.client()
	if err != nil {
		return err
	}
	_, err = client.send(ctx, "set_property", property, value)
	return err
}

func (m *MPV) setDuration(d float64) {
	m.mu.Lock()
	if existing, ok := m.duration.Get(); ok && existing == d {
		m.mu.Unlock()
		return
	}
	m.duration = mo.Some(d)
	m.mu.Unlock()

	m.observers.Emit(media.Event{Type: media.EventDuration, Duration: d})
}

// checkReady fires EventReady once per load, when the file is open and the demuxer has filled its cache.
func (m *MPV) checkReady() {
	m.mu.Lock()
	if m.ready || m.failed || !m.fileLoaded || !m.cacheIdle {
		m.mu.Unlock()
		return
	}
	m.ready = true
	m.mu.Unlock()

	m.observers.Emit(media.Event{Type: media.EventReady})
}

func (m *MPV) finish() {
	m.mu.Lock()
	if m.ended {
		m.mu.Unlock()
		return
	}
	m.ended = true
	m.mu.Unlock()

	m.observers.Emit(media.Event{Type: media.EventEnded})
}

func (m *MPV) fail(err error) {
	m.mu.Lock()
	if m.failed {
		m.mu.Unlock()
		return
	}
	m.failed = true
	m.ready = false
	m.mu.Unlock()

	log.Errorf("mpv %s: %v", m.kind, err)
	m.observers.Emit(media.Event{Type: media.EventError, Err: err})
}

// sanitizeMediaTarget validates that a source is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty source")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in source")
	}

	// A leading dash would be read as a flag.
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("source must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
