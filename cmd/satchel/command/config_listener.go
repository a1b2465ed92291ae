package command

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-satchel/internal/listener"
	"github.com/pixil98/go-service"
)

type ListenerType int

const (
	ListenerTypeTelnet ListenerType = iota
	ListenerTypeSSH
)

var listenerTypeNames = map[ListenerType]string{
	ListenerTypeTelnet: "telnet",
	ListenerTypeSSH:    "ssh",
}

func (lt *ListenerType) UnmarshalText(text []byte) error {
	for t, name := range listenerTypeNames {
		if name == string(text) {
			*lt = t
			return nil
		}
	}
	return fmt.Errorf("unknown listener type: %s", text)
}

func (lt ListenerType) MarshalText() ([]byte, error) {
	name, ok := listenerTypeNames[lt]
	if !ok {
		return nil, fmt.Errorf("unknown listener type: %d", int(lt))
	}
	return []byte(name), nil
}

func (lt ListenerType) String() string {
	if name, ok := listenerTypeNames[lt]; ok {
		return name
	}
	return fmt.Sprintf("ListenerType(%d)", int(lt))
}

type ListenerConfig struct {
	Protocol    ListenerType `json:"protocol"`
	Host        string       `json:"host,omitempty"`
	Port        uint16       `json:"port"`
	HostKeyPath string       `json:"host_key_path,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.HostKeyPath != "" && cl.Protocol != ListenerTypeSSH {
		el.Add(fmt.Errorf("host_key_path is only valid for ssh listeners"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(cm *listener.ConnectionManager) (service.Worker, error) {
	switch cl.Protocol {
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.Host, cl.Port, cm), nil
	case ListenerTypeSSH:
		hostKey, ephemeral, err := listener.LoadHostKey(cl.HostKeyPath)
		if err != nil {
			return nil, fmt.Errorf("ssh listener on port %d: %w", cl.Port, err)
		}
		if ephemeral {
			slog.Warn("ssh listener has no host_key_path, clients will see a new key each start", "port", cl.Port)
		}
		return listener.NewSshListener(cl.Host, cl.Port, cm, hostKey), nil
	default:
		return nil, fmt.Errorf("unknown listener type: %v", cl.Protocol)
	}
}
