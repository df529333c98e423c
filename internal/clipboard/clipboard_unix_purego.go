//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// x11Backend owns the CLIPBOARD selection through a hidden window and serves
// requests for it from an event loop.
type x11Backend struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu      sync.RWMutex
	payload map[Format][]byte
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func newBackend() (backend, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, errNoDisplay
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	const eventMask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{eventMask}).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	b := &x11Backend{conn: conn, window: window, atoms: atoms, payload: make(map[Format][]byte)}
	go b.eventLoop()
	return b, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "SPRAYWALL_SELECTION"}
	atoms := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", name, err)
		}
		atoms[i] = reply.Atom
	}
	return atomSet{
		clipboard: atoms[0],
		targets:   atoms[1],
		utf8:      atoms[2],
		textPlain: atoms[3],
		png:       atoms[4],
		property:  atoms[5],
	}, nil
}

// write replaces the owned payload; one format is offered at a time.
func (b *x11Backend) write(f Format, data []byte) error {
	b.mu.Lock()
	b.payload = map[Format][]byte{f: append([]byte(nil), data...)}
	b.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(b.conn, b.window, b.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (b *x11Backend) read(f Format) ([]byte, error) {
	if f == FormatPNG {
		return b.readSelection(b.atoms.png)
	}
	data, err := b.readSelection(b.atoms.utf8)
	if err != nil {
		data, err = b.readSelection(xproto.AtomString)
		if err != nil {
			return nil, err
		}
	}
	// Some owners include a trailing NUL in STRING replies.
	if n := len(data); n > 0 && data[n-1] == 0 {
		data = data[:n-1]
	}
	return data, nil
}

func (b *x11Backend) eventLoop() {
	for {
		ev, err := b.conn.WaitForEvent()
		if ev == nil && err == nil {
			return // connection closed
		}
		if err != nil {
			continue
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			b.serve(e)
		case xproto.SelectionClearEvent:
			b.mu.Lock()
			b.payload = make(map[Format][]byte)
			b.mu.Unlock()
		}
	}
}

func (b *x11Backend) serve(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	b.mu.RLock()
	text := b.payload[FormatText]
	img := b.payload[FormatPNG]
	b.mu.RUnlock()

	var (
		typ     xproto.Atom
		format  byte = 8
		payload []byte
	)
	switch e.Target {
	case b.atoms.targets:
		targets := []xproto.Atom{b.atoms.targets}
		if len(text) > 0 {
			targets = append(targets, b.atoms.utf8, xproto.AtomString, b.atoms.textPlain)
		}
		if len(img) > 0 {
			targets = append(targets, b.atoms.png)
		}
		payload = make([]byte, len(targets)*4)
		for i, a := range targets {
			xgb.Put32(payload[i*4:], uint32(a))
		}
		typ, format = xproto.AtomAtom, 32
	case b.atoms.utf8, xproto.AtomString, b.atoms.textPlain:
		payload, typ = text, b.atoms.utf8
	case b.atoms.png:
		payload, typ = img, b.atoms.png
	}
	if len(payload) == 0 {
		property = xproto.AtomNone
	}

	if property != xproto.AtomNone {
		length := uint32(len(payload))
		if format == 32 {
			length /= 4
		}
		xproto.ChangeProperty(b.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, length, payload)
	}

	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(b.conn, false, e.Requestor, 0, string(reply.Bytes()))
}

// readSelection asks the current owner for target on a separate connection,
// so requests to our own window are still served by eventLoop.
func (b *x11Backend) readSelection(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, b.atoms.clipboard, target, b.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, fmt.Errorf("x11 connection closed")
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, ErrEmpty
		}
		reply, perr := xproto.GetProperty(conn, true, window, e.Property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
