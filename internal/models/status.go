package models

import "strings"

type ProtectionLevel string

const (
	ProtectionHigh   ProtectionLevel = "High"
	ProtectionMedium ProtectionLevel = "Medium"
	ProtectionLow    ProtectionLevel = "Low"
	ProtectionNone   ProtectionLevel = "None"
)

// ProxyStatus is the backend's snapshot of the current proxy connection.
// The client only relays it.
type ProxyStatus struct {
	Connected       bool            `json:"connected"`
	IPAddress       string          `json:"ip_address,omitempty"`
	Location        string          `json:"location,omitempty"`
	ISP             string          `json:"isp,omitempty"`
	ASN             string          `json:"asn,omitempty"`
	Lat             float64         `json:"lat,omitempty"`
	Lon             float64         `json:"lon,omitempty"`
	Latency         int64           `json:"latency,omitempty"` // milliseconds
	KillSwitch      bool            `json:"killSwitch,omitempty"`
	ProtectionLevel ProtectionLevel `json:"protection_level,omitempty"`
	LastCheck       string          `json:"last_check,omitempty"`
	Error           string          `json:"error,omitempty"`
}

func (s *ProxyStatus) GetLocation() string {
	if len(s.Location) > 0 {
		return s.Location
	}
	return "Unknown"
}

func (s *ProxyStatus) IsProtected() bool {
	return s.Connected && !strings.EqualFold(string(s.ProtectionLevel), string(ProtectionNone))
}

// Stream message types reserved by the status feed.
const (
	StreamMessagePing       = "ping"
	StreamMessagePong       = "pong"
	StreamMessageKillSwitch = "killswitch"
)

// StreamEnvelope is the minimal shape every status feed payload is decoded
// into before it is routed.
type StreamEnvelope struct {
	Type string `json:"type,omitempty"`
}

// KillSwitchEvent is pushed by the backend whenever the kill switch is
// toggled.
type KillSwitchEvent struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

type KillSwitchState struct {
	Enabled bool `json:"enabled"`
}
