// Package sshd exposes the refinement floor over SSH. Any username is
// admitted without credentials; the username labels the session and the
// pty negotiation decides geometry and colors.
package sshd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/crypto/ssh"

	"github.com/lumonlabs/refinery/internal/application"
	"github.com/lumonlabs/refinery/internal/ports"
)

const rejectionBanner = "\r\nAll refinement stations are currently occupied.\r\nPlease try again later, and enjoy all amenities equally.\r\n\r\n"

// Handler admits one negotiated terminal. A returned error refuses the
// session; application.ErrServerFull gets the occupancy banner.
type Handler func(conn ports.TerminalConn) error

type Server struct {
	log     *slog.Logger
	handler Handler
	config  *ssh.ServerConfig
	ln      net.Listener
}

func NewServer(addr string, signer ssh.Signer, handler Handler, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	config := &ssh.ServerConfig{
		NoClientAuth:  true,
		ServerVersion: "SSH-2.0-LumonMDR",
	}
	config.AddHostKey(signer)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Server{log: log, handler: handler, config: config, ln: ln}, nil
}

// Addr is the bound listen address, useful when addr requested port 0.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve accepts connections until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(netConn net.Conn) {
	sconn, chans, reqs, err := ssh.NewServerConn(netConn, s.config)
	if err != nil {
		s.log.Debug("handshake failed",
			slog.String("remote", netConn.RemoteAddr().String()),
			slog.Any("error", err))
		_ = netConn.Close()
		return
	}
	defer sconn.Close()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			_ = newChan.Reject(ssh.UnknownChannelType, "only session channels are supported")
			continue
		}
		ch, chReqs, err := newChan.Accept()
		if err != nil {
			s.log.Debug("channel accept failed", slog.Any("error", err))
			continue
		}
		go s.handleSession(sconn.User(), ch, chReqs)
	}
}

// handleSession services one session channel's request stream: it gathers
// the pty negotiation, starts the session on "shell", and keeps relaying
// window changes until the channel dies.
func (s *Server) handleSession(user string, ch ssh.Channel, reqs <-chan *ssh.Request) {
	var (
		window    = ports.Winsize{Cols: 80, Rows: 24}
		term      string
		colorterm string
		started   bool
		resizes   = make(chan ports.Winsize, 4)
	)
	defer close(resizes)

	for req := range reqs {
		switch req.Type {
		case "pty-req":
			p, err := parsePtyReq(req.Payload)
			if err == nil {
				term = p.Term
				window = ports.Winsize{Cols: int(p.Cols), Rows: int(p.Rows)}
			}
			reply(req, err == nil)

		case "env":
			e, err := parseEnv(req.Payload)
			if err == nil {
				switch e.Name {
				case "COLORTERM":
					colorterm = e.Value
				case "TERM":
					term = e.Value
				}
			}
			reply(req, err == nil)

		case "shell", "exec":
			if started {
				reply(req, false)
				continue
			}
			started = true
			reply(req, true)
			s.startSession(&termConn{
				Channel: ch,
				user:    user,
				window:  window,
				colors:  ports.DetectColorMode(term, colorterm),
				resizes: resizes,
			})

		case "window-change":
			ws, err := parseWindowChange(req.Payload)
			if err == nil && started {
				select {
				case resizes <- ws:
				default: // a stale size is fine, the next change supersedes it
				}
			}
			reply(req, err == nil)

		default:
			reply(req, false)
		}
	}
}

func (s *Server) startSession(conn *termConn) {
	err := s.handler(conn)
	if err == nil {
		return
	}
	if errors.Is(err, application.ErrServerFull) {
		_, _ = conn.Write([]byte(rejectionBanner))
	} else {
		s.log.Warn("session refused", slog.String("user", conn.user), slog.Any("error", err))
	}
	_, _ = conn.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{1}))
	_ = conn.Close()
}

func reply(req *ssh.Request, ok bool) {
	if req.WantReply {
		_ = req.Reply(ok, nil)
	}
}
