package models

type SecurityStatus struct {
	AnonymityScore     int      `json:"anonymity_score"`
	IPLeakDetected     bool     `json:"ip_leak_detected"`
	DNSLeakDetected    bool     `json:"dns_leak_detected"`
	WebRTCLeakDetected bool     `json:"webrtc_leak_detected"`
	StrictKillSwitch   bool     `json:"strict_killswitch"`
	DetectedDNS        []string `json:"detected_dns"`
	Message            string   `json:"message"`
}

func (s *SecurityStatus) HasLeaks() bool {
	return s.IPLeakDetected || s.DNSLeakDetected || s.WebRTCLeakDetected
}
