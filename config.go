package eel

import (
	"github.com/sirupsen/logrus"

	"github.com/chille/eel/internal/vm"
)

// RuntimeConfig controls engine behavior, with the default implementation
// as NewRuntimeConfig. Every With* method returns a clone, mirroring the
// teacher's RuntimeConfig.clone() pattern so a shared base config can be
// specialized per Runtime without aliasing.
type RuntimeConfig struct {
	log        logrus.FieldLogger
	envYAML    []byte
	envOverlay map[string]string
}

// NewRuntimeConfig returns the default configuration: logging to
// logrus.StandardLogger(), no environment document.
func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{}
}

// clone ensures all fields are copied even if nil.
func (c *RuntimeConfig) clone() *RuntimeConfig {
	ret := &RuntimeConfig{log: c.log, envYAML: c.envYAML}
	if c.envOverlay != nil {
		ret.envOverlay = make(map[string]string, len(c.envOverlay))
		for k, v := range c.envOverlay {
			ret.envOverlay[k] = v
		}
	}
	return ret
}

// WithLogger sets the logrus.FieldLogger the engine traces dispatch,
// object lifetime, and module events to. Defaults to
// logrus.StandardLogger().
func (c *RuntimeConfig) WithLogger(log logrus.FieldLogger) *RuntimeConfig {
	ret := c.clone()
	ret.log = log
	return ret
}

// WithEnvironmentYAML bootstraps the engine's environment table (§3, §4.9)
// from a YAML document. EEL_ENV_* process environment variables are
// layered on top at NewRuntime time and always win over the document.
func (c *RuntimeConfig) WithEnvironmentYAML(doc []byte) *RuntimeConfig {
	ret := c.clone()
	ret.envYAML = append([]byte(nil), doc...)
	return ret
}

// WithEnvironment sets or overrides a single environment table entry
// directly, without going through YAML or EEL_ENV_*. Later calls and the
// process environment both take precedence over the YAML document, but
// this overlay is applied after both, so it always wins.
func (c *RuntimeConfig) WithEnvironment(key, value string) *RuntimeConfig {
	ret := c.clone()
	if ret.envOverlay == nil {
		ret.envOverlay = map[string]string{}
	}
	ret.envOverlay[key] = value
	return ret
}

// resolveEnvironment combines the YAML document, EEL_ENV_* overrides, and
// any direct WithEnvironment overlay into the table passed to vm.Open.
func (c *RuntimeConfig) resolveEnvironment() (map[string]string, error) {
	table, err := vm.LoadEnvironment(c.envYAML)
	if err != nil {
		return nil, err
	}
	for k, v := range c.envOverlay {
		table[k] = v
	}
	return table, nil
}
