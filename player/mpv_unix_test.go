//go:build !windows

package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/quarrel-cli/quarrel/media"
	. "github.com/smartystreets/goconvey/convey"
)

// The test binary doubles as a stand-in mpv when these are set.
const (
	fakeMPVEnv      = "QUARREL_FAKE_MPV"
	fakeMPVDelayEnv = "QUARREL_FAKE_MPV_LISTEN_DELAY"
	fakeMPVPidEnv   = "QUARREL_FAKE_MPV_PID_FILE"
)

func TestMain(m *testing.M) {
	if os.Getenv(fakeMPVEnv) == "1" {
		fakeMPV(os.Args[1:])
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// fakeMPV writes its pid, waits the configured delay, then answers every IPC
// command with success until it is told to quit.
func fakeMPV(args []string) {
	var socket string
	for _, a := range args {
		if v, ok := strings.CutPrefix(a, "--input-ipc-server="); ok {
			socket = v
		}
	}

	if path := os.Getenv(fakeMPVPidEnv); path != "" {
		_ = os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
	}
	if delay, err := time.ParseDuration(os.Getenv(fakeMPVDelayEnv)); err == nil {
		time.Sleep(delay)
	}

	ln, err := net.Listen("unix", socket)
	if err != nil {
		os.Exit(2)
	}
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go serveFakeMPV(conn)
	}
}

func serveFakeMPV(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if json.Unmarshal(scanner.Bytes(), &cmd) != nil {
			continue
		}
		reply, _ := json.Marshal(map[string]any{"request_id": cmd.RequestID, "error": "success"})
		_, _ = conn.Write(append(reply, '\n'))
		if len(cmd.Command) > 0 && cmd.Command[0] == "quit" {
			os.Exit(0)
		}
	}
}

func newFakeMPV(t *testing.T, listenDelay time.Duration) (*MPV, string) {
	dir, err := os.MkdirTemp("", "qmpv")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	pidFile := filepath.Join(dir, "pid")
	t.Setenv(fakeMPVEnv, "1")
	t.Setenv(fakeMPVDelayEnv, listenDelay.String())
	t.Setenv(fakeMPVPidEnv, pidFile)

	m, err := NewMPV(media.Audio, "voices/a.mp3", MPVOptions{Binary: os.Args[0]})
	if err != nil {
		t.Fatal(err)
	}
	m.socketPath = filepath.Join(dir, "mpv.sock")
	return m, pidFile
}

// waitForPid returns the pid the fake wrote, or 0 if it never did.
func waitForPid(path string) int {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
			pid, _ := strconv.Atoi(string(b))
			return pid
		}
		time.Sleep(10 * time.Millisecond)
	}
	return 0
}

func processAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

func TestMPVLifecycle(t *testing.T) {
	Convey("Releasing while mpv is still starting", t, func() {
		m, pidFile := newFakeMPV(t, time.Second)

		loaded := make(chan error, 1)
		go func() { loaded <- m.Load(context.Background()) }()

		pid := waitForPid(pidFile)
		So(pid, ShouldBeGreaterThan, 0)
		So(processAlive(pid), ShouldBeTrue)

		So(m.Release(), ShouldBeNil)

		Convey("stops the process before returning", func() {
			So(processAlive(pid), ShouldBeFalse)
			_, err := os.Stat(m.socketPath)
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("makes the pending Load fail as released", func() {
			select {
			case err := <-loaded:
				So(errors.Is(err, media.ErrReleased), ShouldBeTrue)
			case <-time.After(5 * time.Second):
				So("load still pending", ShouldBeEmpty)
			}
		})

		Convey("refuses later loads", func() {
			<-loaded
			So(errors.Is(m.Load(context.Background()), media.ErrReleased), ShouldBeTrue)
		})
	})

	Convey("Releasing a loaded resource", t, func() {
		m, pidFile := newFakeMPV(t, 0)

		So(m.Load(context.Background()), ShouldBeNil)
		pid := waitForPid(pidFile)
		So(pid, ShouldBeGreaterThan, 0)
		So(m.Pause(), ShouldBeNil)
		So(m.Seek(1.5), ShouldBeNil)
		So(m.Position(), ShouldEqual, 1.5)

		So(m.Release(), ShouldBeNil)

		Convey("quits mpv and removes its socket", func() {
			So(processAlive(pid), ShouldBeFalse)
			_, err := os.Stat(m.socketPath)
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("refuses further commands", func() {
			So(errors.Is(m.Pause(), media.ErrReleased), ShouldBeTrue)
		})
	})
}
