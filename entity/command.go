package entity

import (
	"net/http"
	"strings"
	"time"

	"ServerDesk/internal/lib/validate"
)

// CommandKind names a remote command. Values outside the known set are kept
// verbatim so they can be echoed back in the unknown-command reply.
type CommandKind string

const (
	CommandInfo     CommandKind = "info"
	CommandList     CommandKind = "list"
	CommandStatus   CommandKind = "status"
	CommandBackup   CommandKind = "backup"
	CommandShutdown CommandKind = "shutdown"
	CommandStop     CommandKind = "stop"
	CommandStart    CommandKind = "start"
	CommandUpdate   CommandKind = "update"
)

var knownCommands = map[CommandKind]bool{
	CommandInfo:     true,
	CommandList:     true,
	CommandStatus:   true,
	CommandBackup:   true,
	CommandShutdown: true,
	CommandStop:     true,
	CommandStart:    true,
	CommandUpdate:   true,
}

// ParseCommandKind normalizes a known command name; anything else is returned
// trimmed but otherwise untouched.
func ParseCommandKind(s string) CommandKind {
	trimmed := strings.TrimSpace(s)
	kind := CommandKind(strings.ToLower(trimmed))
	if knownCommands[kind] {
		return kind
	}
	return CommandKind(trimmed)
}

func (k CommandKind) Known() bool {
	return knownCommands[k]
}

func (k CommandKind) String() string {
	return string(k)
}

// CommandRequest is one inbound chat command.
type CommandRequest struct {
	Kind      CommandKind `json:"command" validate:"required"`
	TenantID  string      `json:"server_id"`
	ChannelID string      `json:"channel_id"`
	ProfileID string      `json:"profile_id,omitempty"`
}

func (c *CommandRequest) Bind(_ *http.Request) error {
	c.Kind = ParseCommandKind(string(c.Kind))
	return validate.Struct(c)
}

// Lines is an ordered chat reply. A nil value means the request was malformed
// and nothing should be sent; an empty value means the request was ignored.
type Lines []string

// DispatchEvent describes one processed command, for feeds and audit logs.
type DispatchEvent struct {
	ID        string        `json:"id"`
	Kind      CommandKind   `json:"command"`
	ChannelID string        `json:"channel_id"`
	ProfileID string        `json:"profile_id,omitempty"`
	Lines     int           `json:"lines"`
	Duration  time.Duration `json:"duration"`
	Time      time.Time     `json:"time"`
}
