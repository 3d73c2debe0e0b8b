// Package ports declares the boundaries the refinement core consumes.
// Transports (SSH today) implement TerminalConn; the core never touches
// raw escape sequences or protocol framing.
package ports

import (
	"io"
	"strings"
)

// ColorMode is the client terminal's negotiated color capability.
type ColorMode int

const (
	ColorMono ColorMode = iota
	Color256
	ColorTrue
)

func (m ColorMode) String() string {
	switch m {
	case ColorTrue:
		return "truecolor"
	case Color256:
		return "256color"
	default:
		return "mono"
	}
}

// DetectColorMode maps the client's TERM and COLORTERM values to a color
// mode. Unknown terminals fall back to the basic ANSI palette.
func DetectColorMode(term, colorterm string) ColorMode {
	if strings.Contains(strings.ToLower(colorterm), "truecolor") {
		return ColorTrue
	}
	if strings.Contains(term, "256") {
		return Color256
	}
	return ColorMono
}

// Winsize is a terminal geometry in character cells.
type Winsize struct {
	Cols int
	Rows int
}

// TerminalConn is one authenticated client terminal: an exclusively owned
// bidirectional byte stream plus the capabilities negotiated by the outer
// transport. The session handler that receives a TerminalConn owns it
// until teardown.
type TerminalConn interface {
	io.ReadWriteCloser

	// User is the authenticated username supplied by the transport.
	User() string
	// Window is the terminal geometry negotiated at connect time.
	Window() Winsize
	// ColorMode is the color capability negotiated at connect time.
	ColorMode() ColorMode
	// Resizes delivers geometry changes pushed by the client. The channel
	// closes when the connection goes away.
	Resizes() <-chan Winsize
}
