// Package plan defines the structure and parsing of ferry plan files: a
// sequence of file operations to run against one host.
package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is a parsed plan file.
type Plan struct {
	// Path is the file path the plan was loaded from.
	Path string `yaml:"-"`

	// Name is an optional description of the plan.
	Name string `yaml:"name"`

	// Host is the inventory name of the target host. For the docker
	// connection it is the container name; for local it is ignored.
	Host string `yaml:"host"`

	// Connection specifies how to connect (ssh, local, docker).
	Connection string `yaml:"connection"`

	// Ops is the list of file operations to execute in order.
	Ops []*Op `yaml:"ops"`
}

// Op is a single file operation.
type Op struct {
	// Name is an optional description of the operation.
	Name string `yaml:"name"`

	// Op is the operation kind, e.g. "mkdir" or "move".
	Op string `yaml:"op"`

	// Path is the target path for single-path operations.
	Path string `yaml:"path"`

	// Src is the source path for two-path operations.
	Src string `yaml:"src"`

	// Dest is the destination path for two-path operations.
	Dest string `yaml:"dest"`

	// NewName is the new leaf name for rename operations.
	NewName string `yaml:"new_name"`

	// Overwrite permits replacing an existing destination file.
	Overwrite bool `yaml:"overwrite"`

	// IgnoreErrors continues the plan even if this operation fails.
	IgnoreErrors bool `yaml:"ignore_errors"`
}

// opParams maps each operation kind to its required parameters.
var opParams = map[string][]string{
	"touch":        {"path"},
	"mkdir":        {"path"},
	"stat":         {"path"},
	"rename":       {"path", "new_name"},
	"rename-dir":   {"path", "new_name"},
	"move":         {"src", "dest"},
	"move-dir":     {"src", "dest"},
	"copy":         {"src", "dest"},
	"copy-dir":     {"src", "dest"},
	"download":     {"path"},
	"download-dir": {"path"},
	"upload":       {"src", "dest"},
	"delete":       {"path"},
	"delete-dir":   {"path"},
	"clear":        {"path"},
	"truncate":     {"path"},
	"archive":      {"path"},
}

// ParseFile parses a plan from a YAML file.
func ParseFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}

	p.Path = path
	return p, nil
}

// Parse parses a plan from YAML data.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid plan format: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks the plan structure and every operation.
func (p *Plan) Validate() error {
	if p.Connection == "" {
		p.Connection = "ssh"
	}
	switch p.Connection {
	case "ssh", "docker":
		if p.Host == "" {
			return fmt.Errorf("'host' is required for connection '%s'", p.Connection)
		}
	case "local":
		// No host needed
	default:
		return fmt.Errorf("unknown connection type '%s'", p.Connection)
	}

	if len(p.Ops) == 0 {
		return fmt.Errorf("plan has no ops")
	}

	for i, op := range p.Ops {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("op %d: %w", i+1, err)
		}
	}

	return nil
}

// Validate checks that the operation kind is known and its required
// parameters are present.
func (o *Op) Validate() error {
	if o.Op == "" {
		return fmt.Errorf("missing 'op' field")
	}

	required, ok := opParams[o.Op]
	if !ok {
		return fmt.Errorf("unknown op '%s'", o.Op)
	}

	for _, param := range required {
		var value string
		switch param {
		case "path":
			value = o.Path
		case "src":
			value = o.Src
		case "dest":
			value = o.Dest
		case "new_name":
			value = o.NewName
		}
		if value == "" {
			return fmt.Errorf("op '%s' requires parameter '%s'", o.Op, param)
		}
	}

	return nil
}

// String returns a display name for the operation.
func (o *Op) String() string {
	if o.Name != "" {
		return o.Name
	}
	if o.Path != "" {
		return fmt.Sprintf("%s %s", o.Op, o.Path)
	}
	return fmt.Sprintf("%s %s -> %s", o.Op, o.Src, o.Dest)
}

// Kinds returns the known operation kinds.
func Kinds() []string {
	kinds := make([]string, 0, len(opParams))
	for k := range opParams {
		kinds = append(kinds, k)
	}
	return kinds
}
