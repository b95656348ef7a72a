// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package wsi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

var wl struct {
	once sync.Once
	err  error

	dispatchPending func(disp uintptr) int32
	flush           func(disp uintptr) int32
	prepareRead     func(disp uintptr) int32
	readEvents      func(disp uintptr) int32
	cancelRead      func(disp uintptr)
	getFd           func(disp uintptr) int32
}

func loadWayland() error {
	wl.once.Do(func() {
		h, err := purego.Dlopen("libwayland-client.so.0", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			wl.err = fmt.Errorf("wayland: %w", err)
			return
		}
		procs := map[string]interface{}{
			"wl_display_dispatch_pending": &wl.dispatchPending,
			"wl_display_flush":            &wl.flush,
			"wl_display_prepare_read":     &wl.prepareRead,
			"wl_display_read_events":      &wl.readEvents,
			"wl_display_cancel_read":      &wl.cancelRead,
			"wl_display_get_fd":           &wl.getFd,
		}
		for sym, fptr := range procs {
			if _, err := purego.Dlsym(h, sym); err != nil {
				wl.err = fmt.Errorf("wayland: failed to locate %s: %w", sym, err)
				return
			}
			purego.RegisterLibFunc(fptr, h, sym)
		}
	})
	return wl.err
}

type waylandConn struct {
	disp uintptr
	fd   int32
}

// WrapWaylandDisplay returns a Conn over an existing wl_display*. The
// connection stays owned by the caller.
func WrapWaylandDisplay(disp uintptr) (Conn, error) {
	if disp == 0 {
		return nil, errors.New("wayland: nil display")
	}
	if err := loadWayland(); err != nil {
		return nil, err
	}
	return &waylandConn{disp: disp, fd: wl.getFd(disp)}, nil
}

func (c *waylandConn) Dispatch() error {
	if wl.dispatchPending(c.disp) < 0 {
		return errors.New("wayland: wl_display_dispatch_pending failed")
	}
	return nil
}

func (c *waylandConn) Flush() error {
	if wl.flush(c.disp) >= 0 {
		return nil
	}
	// The output buffer was full. Wait until the socket is writable
	// and try again.
	if err := c.poll(unix.POLLOUT); err != nil {
		return err
	}
	if wl.flush(c.disp) < 0 {
		return errors.New("wayland: wl_display_flush failed")
	}
	return nil
}

func (c *waylandConn) Read() error {
	if wl.prepareRead(c.disp) != 0 {
		// Events are already queued.
		return c.Dispatch()
	}
	if err := c.poll(unix.POLLIN); err != nil {
		wl.cancelRead(c.disp)
		return err
	}
	if wl.readEvents(c.disp) < 0 {
		return errors.New("wayland: wl_display_read_events failed")
	}
	return nil
}

func (c *waylandConn) poll(events int16) error {
	fds := []unix.PollFd{{Fd: c.fd, Events: events}}
	for {
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("wayland: poll failed: %w", err)
		}
		break
	}
	if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return errors.New("wayland: display connection closed")
	}
	return nil
}
