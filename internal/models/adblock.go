package models

import "encoding/json"

type WhitelistResponse struct {
	Whitelist []string `json:"whitelist"`
}

type WhitelistRequest struct {
	Domain string `json:"domain"`
}

type CustomRules struct {
	Rules []string `json:"rules"`
}

// AdblockStats carries the fixed counters plus whatever extra counters the
// blocklist engine reports.
type AdblockStats struct {
	RulesCount  int            `json:"rules_count"`
	LastUpdated string         `json:"last_updated"`
	Extra       map[string]any `json:"-"`
}

func (s *AdblockStats) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type plain AdblockStats
	var fixed plain
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}

	*s = AdblockStats(fixed)
	delete(raw, "rules_count")
	delete(raw, "last_updated")
	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}

func (s AdblockStats) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+2)
	for k, v := range s.Extra {
		out[k] = v
	}
	out["rules_count"] = s.RulesCount
	out["last_updated"] = s.LastUpdated
	return json.Marshal(out)
}
