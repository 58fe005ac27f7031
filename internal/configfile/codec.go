package configfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/ini.v1"

	"github.com/netpwr/pwrctl/internal/logging"
	"github.com/netpwr/pwrctl/internal/registry"
)

// GeneralSection is the reserved section holding credentials and ports.
const GeneralSection = "GENERAL"

// Built-in fallbacks used when the file (or an individual key) is absent.
const (
	DefaultUser     = "admin"
	DefaultPassword = "anel"
	DefaultPortIn   = 75
	DefaultPortOut  = 77
)

// plugKeyPattern matches plug keys inside a device section, e.g. "plug_3".
// The digit suffix is the outlet index.
var plugKeyPattern = regexp.MustCompile(`^plug_(\d+)$`)

// Settings are the general-section values, merged with built-in defaults.
type Settings struct {
	User     string
	Password string
	PortIn   int
	PortOut  int
}

// DeviceEntry is one device section, ready to be fed into
// registry.CreateDevice. Plugs are sorted by ascending index.
type DeviceEntry struct {
	Address string
	Name    string
	Plugs   []registry.PlugDef
}

// DefaultSettings returns the built-in credential and port defaults.
func DefaultSettings() Settings {
	return Settings{
		User:     DefaultUser,
		Password: DefaultPassword,
		PortIn:   DefaultPortIn,
		PortOut:  DefaultPortOut,
	}
}

// Load reads the configuration file at path. A missing file is not an
// error: the built-in defaults and an empty device list are returned.
// Device sections without a name key are skipped with a warning; keys
// not matching the plug pattern are ignored.
func Load(path string) (Settings, []DeviceEntry, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return settings, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	general := cfg.Section(GeneralSection)
	settings.User = general.Key("user").MustString(DefaultUser)
	settings.Password = general.Key("password").MustString(DefaultPassword)
	settings.PortIn = general.Key("pin").MustInt(DefaultPortIn)
	settings.PortOut = general.Key("pout").MustInt(DefaultPortOut)

	var entries []DeviceEntry

	for _, section := range cfg.Sections() {
		name := section.Name()
		if name == ini.DefaultSection || name == GeneralSection {
			continue
		}

		if !section.HasKey("name") {
			logging.Warn("Device without name in configuration, skipping",
				zap.String("section", name),
			)
			continue
		}

		entry := DeviceEntry{
			Address: name,
			Name:    section.Key("name").String(),
			Plugs:   parsePlugKeys(section),
		}
		entries = append(entries, entry)
	}

	return settings, entries, nil
}

// parsePlugKeys extracts the plug_<index> keys of one device section as
// a typed list sorted by index. Non-conforming keys are ignored.
func parsePlugKeys(section *ini.Section) []registry.PlugDef {
	var defs []registry.PlugDef

	for _, key := range section.Keys() {
		matches := plugKeyPattern.FindStringSubmatch(key.Name())
		if matches == nil {
			continue
		}

		index, err := strconv.Atoi(matches[1])
		if err != nil {
			// Unreachable for \d+ of sane length, but don't guess on overflow.
			continue
		}

		defs = append(defs, registry.PlugDef{Index: index, Name: key.String()})
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Index < defs[j].Index })
	return defs
}

// Save writes the registry to path, overwriting any previous content.
// The general section is written from the registry's live settings,
// then one section per device in registry order with one plug_<index>
// key per plug in plug order. The write is atomic (temp file + rename).
func Save(reg *registry.Registry, path string) error {
	cfg := ini.Empty()

	general, err := cfg.NewSection(GeneralSection)
	if err != nil {
		return fmt.Errorf("failed to create general section: %w", err)
	}
	if _, err := general.NewKey("user", reg.User); err != nil {
		return fmt.Errorf("failed to write general section: %w", err)
	}
	if _, err := general.NewKey("password", reg.Password); err != nil {
		return fmt.Errorf("failed to write general section: %w", err)
	}
	if _, err := general.NewKey("pin", strconv.Itoa(reg.PortIn)); err != nil {
		return fmt.Errorf("failed to write general section: %w", err)
	}
	if _, err := general.NewKey("pout", strconv.Itoa(reg.PortOut)); err != nil {
		return fmt.Errorf("failed to write general section: %w", err)
	}

	for _, device := range reg.Devices {
		section, err := cfg.NewSection(device.Address)
		if err != nil {
			return fmt.Errorf("failed to create section for %s: %w", device.Address, err)
		}
		if _, err := section.NewKey("name", device.Name); err != nil {
			return fmt.Errorf("failed to write section for %s: %w", device.Address, err)
		}
		for _, plug := range device.Plugs {
			key := fmt.Sprintf("plug_%d", plug.Index)
			if _, err := section.NewKey(key, plug.Name); err != nil {
				return fmt.Errorf("failed to write section for %s: %w", device.Address, err)
			}
		}
	}

	// Create directory with user-only permissions (0700)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to temporary file first (atomic write)
	tmpPath := path + ".tmp"
	if err := cfg.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	// Atomic rename (this is atomic on all platforms)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}
