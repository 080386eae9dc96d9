package entity

import (
	"fmt"
	"net/http"
	"strings"

	"ServerDesk/internal/lib/validate"
)

// ServerProfile is the static configuration of one managed game server.
type ServerProfile struct {
	ProfileID   string `json:"profile_id" bson:"_id" yaml:"profile_id" validate:"required"`
	ProfileName string `json:"profile_name" bson:"profile_name" yaml:"profile_name" validate:"omitempty"`
	ServerName  string `json:"server_name" bson:"server_name" yaml:"server_name" validate:"omitempty"`
	ChannelID   string `json:"channel_id" bson:"channel_id" yaml:"channel_id" validate:"required"`
	ServerIP    string `json:"server_ip" bson:"server_ip" yaml:"server_ip" validate:"omitempty"`
	QueryPort   int    `json:"query_port" bson:"query_port" yaml:"query_port" validate:"min=0,max=65535"`
}

func (p *ServerProfile) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityUnavailable
	AvailabilityWaiting
	AvailabilityAvailable
)

// Availabilities lists every variant, in declaration order.
var Availabilities = []Availability{
	AvailabilityUnknown,
	AvailabilityUnavailable,
	AvailabilityWaiting,
	AvailabilityAvailable,
}

func (a Availability) String() string {
	switch a {
	case AvailabilityUnavailable:
		return "Unavailable"
	case AvailabilityWaiting:
		return "Waiting"
	case AvailabilityAvailable:
		return "Available"
	default:
		return "Unknown"
	}
}

// ParseAvailability is the inverse of Availability.String, case-insensitive.
func ParseAvailability(s string) (Availability, error) {
	for _, a := range Availabilities {
		if strings.EqualFold(a.String(), strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return AvailabilityUnknown, fmt.Errorf("unknown availability %q", s)
}

func (a Availability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Availability) UnmarshalText(text []byte) error {
	parsed, err := ParseAvailability(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ServerRuntime is the live state of a managed server as seen by its owner.
type ServerRuntime struct {
	StatusString string       `json:"status"`
	Availability Availability `json:"availability"`
}

func (r *ServerRuntime) Bind(_ *http.Request) error {
	return nil
}

type ManagedServer struct {
	Profile ServerProfile `json:"profile"`
	Runtime ServerRuntime `json:"runtime"`
}

// QueryResult is the answer of a live server query.
type QueryResult struct {
	Name       string `json:"name"`
	Map        string `json:"map"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
}
