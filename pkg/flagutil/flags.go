// Package flagutil implements custom pflag value types for the nuq CLI.
package flagutil

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// validate these types implement the pflag.Value interface at compile time
var _ pflag.Value = &ColorFlag{}

// ColorMode is the tri-state color setting: colorize only when writing to
// a terminal, always, or never.
type ColorMode int

// The color modes.
const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// ColorFlag implements pflag.Value for a ColorMode.
type ColorFlag struct {
	mode *ColorMode
}

// NewColorFlag returns a ColorFlag that stores its result in mode.
func NewColorFlag(mode *ColorMode) *ColorFlag {
	return &ColorFlag{mode: mode}
}

// String implements pflag.Value
func (f *ColorFlag) String() string {
	if f.mode == nil {
		return ColorAuto.String()
	}
	return f.mode.String()
}

// Set implements pflag.Value
func (f *ColorFlag) Set(input string) error {
	switch strings.ToLower(input) {
	case "auto":
		*f.mode = ColorAuto
	case "always", "on", "true":
		*f.mode = ColorAlways
	case "never", "off", "false":
		*f.mode = ColorNever
	default:
		return fmt.Errorf("must be one of: auto, always, never")
	}
	return nil
}

// Type implements pflag.Value
func (f *ColorFlag) Type() string {
	return "string"
}
