//go:build linux && !android

package platform

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// X11WindowManager enumerates this process's top-level X11 windows
type X11WindowManager struct {
	xu  *xgbutil.XUtil
	pid int
}

// NewX11WindowManager opens a fresh connection to $DISPLAY
func NewX11WindowManager() (*X11WindowManager, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("x11: DISPLAY is not set")
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11WindowManager{xu: xu, pid: os.Getpid()}, nil
}

// NewNativeWindowManager returns the X11 window manager on Linux
func NewNativeWindowManager() (WindowManager, error) {
	return NewX11WindowManager()
}

// Windows lists managed client windows whose _NET_WM_PID is this process
func (m *X11WindowManager) Windows() ([]Window, error) {
	clients, err := ewmh.ClientListGet(m.xu)
	if err != nil {
		return nil, fmt.Errorf("failed to read client list: %w", err)
	}

	windows := make([]Window, 0, 1)
	for _, id := range clients {
		pid, err := ewmh.WmPidGet(m.xu, id)
		if err != nil || int(pid) != m.pid {
			continue
		}
		windows = append(windows, &x11Window{m: m, id: id})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].(*x11Window).id < windows[j].(*x11Window).id
	})
	return windows, nil
}

// Main returns the oldest (lowest id) window of this process
func (m *X11WindowManager) Main() (Window, error) {
	windows, err := m.Windows()
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, ErrNoWindows
	}
	return windows[0], nil
}

// Close disconnects from the X server
func (m *X11WindowManager) Close() error {
	if m != nil && m.xu != nil {
		m.xu.Conn().Close()
	}
	return nil
}

func (m *X11WindowManager) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(m.xu.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

type x11Window struct {
	m  *X11WindowManager
	id xproto.Window
}

func (w *x11Window) ID() string {
	return "0x" + strconv.FormatUint(uint64(w.id), 16)
}

// Minimize iconifies the window via WM_CHANGE_STATE
func (w *x11Window) Minimize() error {
	atom, err := w.m.internAtom("WM_CHANGE_STATE")
	if err != nil {
		return err
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w.id,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		w.m.xu.Conn(),
		false,
		w.m.xu.RootWin(),
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Close requests a graceful close via WM_DELETE_WINDOW
func (w *x11Window) Close() error {
	deleteAtom, err := w.m.internAtom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocolsAtom, err := w.m.internAtom("WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w.id,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		w.m.xu.Conn(),
		false,
		w.id,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// State reports viewable-and-not-hidden as visible, _NET_ACTIVE_WINDOW as focused
func (w *x11Window) State() (WindowState, error) {
	attrs, err := xproto.GetWindowAttributes(w.m.xu.Conn(), w.id).Reply()
	if err != nil {
		return WindowState{}, fmt.Errorf("failed to read window attributes: %w", err)
	}

	visible := attrs.MapState == xproto.MapStateViewable
	if visible {
		if states, err := ewmh.WmStateGet(w.m.xu, w.id); err == nil {
			for _, s := range states {
				if s == "_NET_WM_STATE_HIDDEN" {
					visible = false
					break
				}
			}
		}
	}

	focused := false
	if active, err := ewmh.ActiveWindowGet(w.m.xu); err == nil {
		focused = active == w.id
	}

	return WindowState{Visible: visible, Focused: focused}, nil
}
