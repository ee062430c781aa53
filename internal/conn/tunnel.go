package conn

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// tunnel forwards a local listener to a remote address through an SSH hop.
type tunnel struct {
	client   *ssh.Client
	listener net.Listener
	remote   string
	log      *zap.Logger
	wg       sync.WaitGroup
}

func sshAuth(cfg SSHConfig) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if cfg.KeyFile != "" {
		key, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse ssh key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("ssh tunnel to %s needs key_file or password", cfg.Host)
	}
	return methods, nil
}

// openTunnel dials the SSH host and starts forwarding 127.0.0.1:<random>
// to remote. The returned port is the local end.
func openTunnel(cfg SSHConfig, remote string, log *zap.Logger) (*tunnel, int, error) {
	auth, err := sshAuth(cfg)
	if err != nil {
		return nil, 0, err
	}
	port := cfg.Port
	if port == 0 {
		port = 22
	}
	client, err := ssh.Dial("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(port)), &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("connect to ssh server %s: %w", cfg.Host, err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		client.Close()
		return nil, 0, fmt.Errorf("listen for tunnel: %w", err)
	}

	t := &tunnel{client: client, listener: listener, remote: remote, log: log}
	t.wg.Add(1)
	go t.serve()

	local := listener.Addr().(*net.TCPAddr).Port
	log.Debug("ssh tunnel open", zap.String("via", cfg.Host), zap.String("remote", remote), zap.Int("local_port", local))
	return t, local, nil
}

func (t *tunnel) serve() {
	defer t.wg.Done()
	for {
		local, err := t.listener.Accept()
		if err != nil {
			return // listener closed
		}
		remote, err := t.client.Dial("tcp", t.remote)
		if err != nil {
			t.log.Warn("tunnel dial failed", zap.String("remote", t.remote), zap.Error(err))
			local.Close()
			continue
		}
		go pipe(local, remote)
		go pipe(remote, local)
	}
}

func pipe(dst, src net.Conn) {
	defer dst.Close()
	defer src.Close()
	_, _ = io.Copy(dst, src)
}

func (t *tunnel) Close() error {
	err := t.listener.Close()
	t.wg.Wait()
	if cerr := t.client.Close(); err == nil {
		err = cerr
	}
	return err
}
