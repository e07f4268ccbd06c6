package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui setting shared by check and test.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// enabled decides whether the progress view runs. The view draws on
// stderr; in auto mode it stays off for JSON output so that stdout can be
// piped while stderr is still a terminal.
func (m uiMode) enabled(format string) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return format != "json" && isTerminal(os.Stderr) && isTerminal(os.Stdout)
}
