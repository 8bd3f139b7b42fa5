package config

import "time"

const refreshLeadTimeVar = "REFRESH_LEAD_TIME"

type Session struct {
	src source
}

var _ SessionConfig = Session{}

// GetRefreshLeadTime is how long before token expiry the silent refresh fires.
func (s Session) GetRefreshLeadTime() time.Duration {
	return s.src.duration(refreshLeadTimeVar, 5*time.Minute)
}
