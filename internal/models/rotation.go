package models

import (
	"fmt"
	"time"
)

type RotationMode string

const (
	RotationPerRequest  RotationMode = "per-request"
	RotationSticky1Min  RotationMode = "sticky-1min"
	RotationSticky10Min RotationMode = "sticky-10min"
	RotationSticky30Min RotationMode = "sticky-30min"
)

var RotationModes = []RotationMode{
	RotationPerRequest,
	RotationSticky1Min,
	RotationSticky10Min,
	RotationSticky30Min,
}

func (m RotationMode) IsValid() bool {
	for _, mode := range RotationModes {
		if m == mode {
			return true
		}
	}
	return false
}

// StickyDuration returns how long an egress IP is kept. Per-request
// rotation returns zero.
func (m RotationMode) StickyDuration() time.Duration {
	switch m {
	case RotationSticky1Min:
		return 1 * time.Minute
	case RotationSticky10Min:
		return 10 * time.Minute
	case RotationSticky30Min:
		return 30 * time.Minute
	default:
		return 0
	}
}

type RotationConfig struct {
	Mode    RotationMode `json:"mode" yaml:"mode"`
	Country string       `json:"country" yaml:"country"`
	City    string       `json:"city,omitempty" yaml:"city,omitempty"`
	State   string       `json:"state,omitempty" yaml:"state,omitempty"`
}

func (c *RotationConfig) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("invalid rotation mode: %q", c.Mode)
	}
	return nil
}

type GeoTarget struct {
	Country string `json:"country"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}

type RotationEvent struct {
	Timestamp string `json:"Timestamp"`
	SessionID string `json:"SessionID"`
	Reason    string `json:"Reason"`
	Mode      string `json:"Mode"`
	Country   string `json:"Country"`
}

type RotationStats struct {
	TotalRotations int             `json:"total_rotations"`
	SuccessCount   int             `json:"success_count"`
	FailureCount   int             `json:"failure_count"`
	SuccessRate    float64         `json:"success_rate"`
	GeoStats       map[string]int  `json:"geo_stats"`
	HourlyStats    map[string]int  `json:"hourly_stats"`
	RecentEvents   []RotationEvent `json:"recent_events"`
}
