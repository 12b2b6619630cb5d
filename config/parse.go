package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anisan-cli/mediapool/icon"
	"github.com/anisan-cli/mediapool/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Choices returns the accepted values of keys limited to a fixed set, or nil.
func Choices(name string) []string {
	switch name {
	case key.Player:
		return []string{"mpv", "memory"}
	case key.IconsVariant:
		return icon.AvailableVariants()
	case key.LogsLevel:
		return lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() })
	default:
		return nil
	}
}

// Parse converts command line values into the type of the key's default value.
func Parse(name string, raw []string) (any, error) {
	field, ok := Default[name]
	if !ok {
		return nil, fmt.Errorf("unknown key %s", name)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("no value given for %s", name)
	}

	switch field.Value.(type) {
	case string:
		value := raw[0]
		if choices := Choices(name); choices != nil && !lo.Contains(choices, value) {
			return nil, fmt.Errorf("invalid value %q for %s, expected one of: %s", value, name, strings.Join(choices, ", "))
		}
		return value, nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value %q for %s", raw[0], name)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s must not be negative", name)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value %q for %s", raw[0], name)
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported type %T for %s", field.Value, name)
	}
}
