package sshd

import (
	"golang.org/x/crypto/ssh"

	"github.com/lumonlabs/refinery/internal/ports"
)

// termConn adapts one accepted SSH session channel to ports.TerminalConn.
// The channel is exclusively owned by the session handler; resize requests
// keep arriving on the request stream and are forwarded through resizes.
type termConn struct {
	ssh.Channel

	user    string
	window  ports.Winsize
	colors  ports.ColorMode
	resizes chan ports.Winsize
}

func (c *termConn) User() string { return c.user }
func (c *termConn) Window() ports.Winsize { return c.window }
func (c *termConn) ColorMode() ports.ColorMode { return c.colors }
func (c *termConn) Resizes() <-chan ports.Winsize { return c.resizes }

// ptyReq is the payload of an SSH "pty-req" channel request (RFC 4254 §6.2).
type ptyReq struct {
	Term     string
	Cols     uint32
	Rows     uint32
	WidthPx  uint32
	HeightPx uint32
	Modes    string
}

// windowChange is the payload of a "window-change" request (RFC 4254 §6.7).
type windowChange struct {
	Cols     uint32
	Rows     uint32
	WidthPx  uint32
	HeightPx uint32
}

// envReq is the payload of an "env" request (RFC 4254 §6.4).
type envReq struct {
	Name  string
	Value string
}

func parsePtyReq(payload []byte) (ptyReq, error) {
	var req ptyReq
	if err := ssh.Unmarshal(payload, &req); err != nil {
		return ptyReq{}, err
	}
	return req, nil
}

func parseWindowChange(payload []byte) (ports.Winsize, error) {
	var req windowChange
	if err := ssh.Unmarshal(payload, &req); err != nil {
		return ports.Winsize{}, err
	}
	return ports.Winsize{Cols: int(req.Cols), Rows: int(req.Rows)}, nil
}

func parseEnv(payload []byte) (envReq, error) {
	var req envReq
	if err := ssh.Unmarshal(payload, &req); err != nil {
		return envReq{}, err
	}
	return req, nil
}
