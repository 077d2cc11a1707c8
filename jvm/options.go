package jvm

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/chazu/javabind/raw"
)

// InitArguments configures VM creation. The zero value is usable; see
// DefaultInitArguments for the defaults. Arguments can also be loaded
// from a TOML file:
//
//	version = 8
//	verbose = ["gc", "jni"]
//	options = ["-Xmx512m"]
//
//	[properties]
//	"user.language" = "en"
type InitArguments struct {
	// Version is the Java major version to request (6, 8, 9, 10).
	Version int `toml:"version"`
	// Properties become -D<key>=<value> options.
	Properties map[string]string `toml:"properties"`
	// Verbose enables runtime tracing components: "gc", "class", "jni".
	Verbose []string `toml:"verbose"`
	// Options are passed to the launcher verbatim.
	Options []string `toml:"options"`
	// IgnoreUnrecognized makes the runtime skip unknown options instead
	// of refusing to start.
	IgnoreUnrecognized bool `toml:"ignore-unrecognized"`
}

// DefaultInitArguments returns arguments requesting Java 8 with no
// options.
func DefaultInitArguments() *InitArguments {
	return &InitArguments{Version: 8}
}

// LoadInitArguments parses an init-arguments TOML file.
func LoadInitArguments(path string) (*InitArguments, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	args := DefaultInitArguments()
	if err := toml.Unmarshal(data, args); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if args.Version == 0 {
		args.Version = 8
	}
	return args, nil
}

// WithProperty adds a -D system property.
func (a *InitArguments) WithProperty(key, value string) *InitArguments {
	if a.Properties == nil {
		a.Properties = make(map[string]string)
	}
	a.Properties[key] = value
	return a
}

// WithVerbose enables a runtime tracing component.
func (a *InitArguments) WithVerbose(component string) *InitArguments {
	a.Verbose = append(a.Verbose, component)
	return a
}

// WithOption appends a verbatim launcher option.
func (a *InitArguments) WithOption(option string) *InitArguments {
	a.Options = append(a.Options, option)
	return a
}

// JNIVersion maps the requested Java major version to its interface
// constant.
func (a *InitArguments) JNIVersion() raw.Version {
	return raw.VersionOf(a.Version)
}

// CommandLine renders the option strings handed to the launcher.
// Properties are sorted for reproducibility.
func (a *InitArguments) CommandLine() []string {
	var out []string
	keys := make([]string, 0, len(a.Properties))
	for k := range a.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("-D%s=%s", k, a.Properties[k]))
	}
	for _, v := range a.Verbose {
		out = append(out, "-verbose:"+v)
	}
	out = append(out, a.Options...)
	return out
}

// AttachArguments configures one thread attachment.
type AttachArguments struct {
	// Name becomes the Java-visible thread name. Empty lets the runtime
	// pick one.
	Name string
	// Version of the interface to request; zero means the default.
	Version raw.Version
	// Daemon attaches as a daemon thread: it will not keep the runtime
	// alive during shutdown.
	Daemon bool
}
