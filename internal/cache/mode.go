package cache

import (
	"fmt"
	"strings"
)

// Mode gates every cache operation.
type Mode uint8

const (
	ModeEnabled Mode = iota
	ModeDisabled
)

func (m Mode) String() string {
	if m == ModeDisabled {
		return "disabled"
	}
	return "enabled"
}

// ParseMode accepts "enabled"/"on"/"true" and "disabled"/"off"/"false".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "enabled", "on", "true":
		return ModeEnabled, nil
	case "disabled", "off", "false":
		return ModeDisabled, nil
	}
	return ModeEnabled, fmt.Errorf("unknown cache mode %q", s)
}

// ModeFromBool maps a config flag to a Mode.
func ModeFromBool(enabled bool) Mode {
	if enabled {
		return ModeEnabled
	}
	return ModeDisabled
}
