// Package inventory defines the structure and parsing of host inventory
// files.
package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Host describes one remote target and its credentials.
type Host struct {
	// Name is the inventory key the host was defined under.
	Name string `yaml:"-"`

	// Address is the hostname or IP address.
	Address string `yaml:"address"`

	// Port is the SSH port (default: 22).
	Port int `yaml:"port"`

	// User is the username for authentication (default: root).
	User string `yaml:"user"`

	// Password authenticates with a password.
	Password string `yaml:"password"`

	// Identity authenticates with a private key file.
	Identity string `yaml:"identity"`
}

// Inventory holds the named hosts from one inventory file.
type Inventory struct {
	// Path is the file the inventory was loaded from.
	Path string

	// Hosts maps names to host definitions.
	Hosts map[string]*Host
}

// ParseFile parses an inventory from a YAML file.
func ParseFile(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	inv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}

	inv.Path = path
	return inv, nil
}

// Parse parses an inventory from YAML data.
func Parse(data []byte) (*Inventory, error) {
	var raw struct {
		Hosts map[string]*Host `yaml:"hosts"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid inventory format: %w", err)
	}

	if len(raw.Hosts) == 0 {
		return nil, fmt.Errorf("inventory defines no hosts")
	}

	for name, host := range raw.Hosts {
		host.Name = name
		applyDefaults(host)
		if err := host.Validate(); err != nil {
			return nil, fmt.Errorf("host '%s': %w", name, err)
		}
	}

	return &Inventory{Hosts: raw.Hosts}, nil
}

// applyDefaults fills in the defaults for unset fields.
func applyDefaults(h *Host) {
	if h.Port == 0 {
		h.Port = 22
	}
	if h.User == "" {
		h.User = "root"
	}
}

// Validate checks that the host definition is usable.
func (h *Host) Validate() error {
	if h.Address == "" {
		return fmt.Errorf("missing required field 'address'")
	}
	if h.Password != "" && h.Identity != "" {
		return fmt.Errorf("'password' and 'identity' are mutually exclusive")
	}
	if h.Password == "" && h.Identity == "" {
		return fmt.Errorf("either 'password' or 'identity' is required")
	}
	return nil
}

// Get looks up a host by name.
func (inv *Inventory) Get(name string) (*Host, error) {
	host, ok := inv.Hosts[name]
	if !ok {
		return nil, fmt.Errorf("host '%s' not found in inventory", name)
	}
	return host, nil
}
