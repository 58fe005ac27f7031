// Package configfile converts between the in-memory device registry and
// its persisted INI representation.
//
// The file has one reserved [GENERAL] section holding the credentials
// and port pair, and one section per device keyed by the device's
// network address:
//
//	[GENERAL]
//	user     = admin
//	password = anel
//	pin      = 75
//	pout     = 77
//
//	[192.168.1.50]
//	name   = Strip1
//	plug_1 = Lamp
//	plug_2 = Fan
//
// Keys of the form plug_<index> carry plug names; the decimal suffix is
// the outlet index on the physical device. Other keys inside a device
// section are ignored, which keeps the format forward-compatible with
// unknown metadata. A device section without a name key is skipped with
// a warning rather than failing the whole load, and a missing file is
// not an error at all - Load then just returns the built-in defaults.
//
// Saving always rewrites the file wholesale (atomically, via a temp file
// and rename); there are no merge semantics. Plug states are never
// persisted: a freshly loaded registry reports every plug as unknown.
//
// # File Location
//
// The default file lives in the platform config directory:
//   - Linux: $XDG_CONFIG_HOME/pwrctl/devices.ini or $HOME/.config/pwrctl/devices.ini
//   - macOS: $HOME/.config/pwrctl/devices.ini
//   - Windows: %LOCALAPPDATA%\pwrctl\devices.ini
//
// The path is always passed in explicitly so tests can point the codec
// at a temporary file.
package configfile
