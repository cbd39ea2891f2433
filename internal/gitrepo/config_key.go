package gitrepo

import (
	"fmt"
	"sort"
	"strings"
)

const (
	configKeySeparatorConstant          = "."
	configKeyTemplateConstant           = "%s.%s"
	configKeyParseErrorTemplateConstant = "invalid git config key %q: expected section.option"
	pushDefaultConfigSectionConstant    = "remote"
	pushDefaultConfigOptionConstant     = "pushdefault"
)

// ConfigKey identifies a git configuration entry as a section and option pair.
type ConfigKey struct {
	Section string
	Option  string
}

// PushDefaultConfigKey addresses the remote.pushdefault configuration entry.
var PushDefaultConfigKey = ConfigKey{Section: pushDefaultConfigSectionConstant, Option: pushDefaultConfigOptionConstant}

// ParseConfigKey splits a section.option string on the first separator.
func ParseConfigKey(raw string) (ConfigKey, error) {
	section, option, separatorFound := strings.Cut(raw, configKeySeparatorConstant)
	if !separatorFound || len(section) == 0 || len(option) == 0 {
		return ConfigKey{}, fmt.Errorf(configKeyParseErrorTemplateConstant, raw)
	}
	return ConfigKey{Section: section, Option: option}, nil
}

// String renders the key in section.option form.
func (key ConfigKey) String() string {
	return fmt.Sprintf(configKeyTemplateConstant, key.Section, key.Option)
}

// ConfigValues maps configuration keys to desired values; a nil value declares the entry absent.
type ConfigValues map[ConfigKey]*string

// RemoteValues maps remote names to desired URLs; a nil value declares the remote absent.
type RemoteValues map[string]*string

// ParseConfigValues converts a section.option keyed map into typed configuration values.
func ParseConfigValues(raw map[string]*string) (ConfigValues, error) {
	parsedValues := make(ConfigValues, len(raw))
	for rawKey, desiredValue := range raw {
		parsedKey, parseError := ParseConfigKey(rawKey)
		if parseError != nil {
			return nil, parseError
		}
		parsedValues[parsedKey] = desiredValue
	}
	return parsedValues, nil
}

// SortedConfigKeys returns the keys of the supplied values in lexical order.
func SortedConfigKeys(values ConfigValues) []ConfigKey {
	sortedKeys := make([]ConfigKey, 0, len(values))
	for configKey := range values {
		sortedKeys = append(sortedKeys, configKey)
	}
	sort.Slice(sortedKeys, func(firstIndex int, secondIndex int) bool {
		return sortedKeys[firstIndex].String() < sortedKeys[secondIndex].String()
	})
	return sortedKeys
}

// SortedRemoteNames returns the remote names of the supplied values in lexical order.
func SortedRemoteNames(values RemoteValues) []string {
	sortedNames := make([]string, 0, len(values))
	for remoteName := range values {
		sortedNames = append(sortedNames, remoteName)
	}
	sort.Strings(sortedNames)
	return sortedNames
}

// DesiredValue returns a pointer to the supplied value for use in desired-state maps.
func DesiredValue(value string) *string {
	return &value
}
