package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"golang.org/x/crypto/ssh"
)

const sshServerVersion = "SSH-2.0-satchel"

// SshListener accepts unauthenticated SSH connections and runs one session
// per shell request.
type SshListener struct {
	host    string
	port    uint16
	cm      *ConnectionManager
	hostKey ssh.Signer
	logger  *slog.Logger
}

func NewSshListener(host string, port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	return &SshListener{
		host:    host,
		port:    port,
		cm:      cm,
		hostKey: hostKey,
		logger:  slog.Default().With("listener", "ssh"),
	}
}

func (l *SshListener) serverConfig() *ssh.ServerConfig {
	config := &ssh.ServerConfig{
		NoClientAuth:  true,
		ServerVersion: sshServerVersion,
	}
	config.AddHostKey(l.hostKey)
	return config
}

func (l *SshListener) Start(ctx context.Context) error {
	addr := net.JoinHostPort(l.host, strconv.Itoa(int(l.port)))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	l.logger.InfoContext(ctx, "listening for ssh", "addr", ln.Addr())

	config := l.serverConfig()
	connCtx, cancelConns := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// Closing the listener unblocks Accept on shutdown.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				cancelConns()
				wg.Wait()
				return nil
			}
			l.logger.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.serveConn(connCtx, conn, config)
		}()
	}
}

func (l *SshListener) serveConn(ctx context.Context, conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()
	logger := l.logger.With("remote", conn.RemoteAddr().String())

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		logger.WarnContext(ctx, "ssh handshake", "error", err)
		return
	}
	defer sshConn.Close()

	logger.InfoContext(ctx, "ssh connection established", "client", string(sshConn.ClientVersion()))

	// Closing the connection ends the channel loop below.
	go func() {
		<-ctx.Done()
		sshConn.Close()
	}()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		l.serveChannel(ctx, logger, newChan)
	}
}

// serveChannel waits for a shell request on a session channel, then runs an
// agent session over it.
func (l *SshListener) serveChannel(ctx context.Context, logger *slog.Logger, newChan ssh.NewChannel) {
	ch, requests, err := newChan.Accept()
	if err != nil {
		logger.ErrorContext(ctx, "accepting ssh channel", "error", err)
		return
	}
	defer ch.Close()

	// Clients hold back input until the shell request is answered.
	shellReady := make(chan struct{})
	go func() {
		var once sync.Once
		for req := range requests {
			switch req.Type {
			case "shell":
				req.Reply(true, nil)
				once.Do(func() { close(shellReady) })
			default:
				// Declining pty-req keeps local echo and line buffering on
				// the client.
				req.Reply(false, nil)
			}
		}
	}()

	select {
	case <-shellReady:
	case <-ctx.Done():
		return
	}

	l.cm.AcceptConnection(ctx, newCRLFReadWriter(ch))
}
