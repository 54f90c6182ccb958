package models

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/constants"
)

// Theme is the persisted light/dark preference
type Theme string

const (
	ThemeLight Theme = constants.ThemeLight
	ThemeDark  Theme = constants.ThemeDark
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (use light or dark)", s)
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) IsDark() bool { return t == ThemeDark }

func (t Theme) String() string { return string(t) }
