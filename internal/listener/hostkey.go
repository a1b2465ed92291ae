package listener

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// LoadHostKey reads a PEM encoded private key for the ssh listener. An empty
// path yields a fresh ed25519 key that lasts until the process exits.
func LoadHostKey(path string) (signer ssh.Signer, ephemeral bool, err error) {
	if path == "" {
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, true, fmt.Errorf("generating host key: %w", err)
		}
		signer, err := ssh.NewSignerFromKey(key)
		if err != nil {
			return nil, true, fmt.Errorf("wrapping host key: %w", err)
		}
		return signer, true, nil
	}

	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading host key: %w", err)
	}
	signer, err = ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, false, fmt.Errorf("parsing host key %s: %w", path, err)
	}
	return signer, false, nil
}
