package vm

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// EnvVarPrefix is the prefix EEL_ENV_* overrides must carry to be picked
// up by LoadEnvironment, mirroring the teacher's WAZEROFEATURES
// single-variable convention but generalized to a key/value table rather
// than a flag list, since the spec's environment table (§3, §4.9) holds
// arbitrary process-wide configuration, not booleans.
const EnvVarPrefix = "EEL_ENV_"

// LoadEnvironment builds the engine's environment table from an optional
// YAML document (nil to skip) layered with EEL_ENV_* process environment
// variables, which always win over the document. This is the config.go
// equivalent of the teacher's features.EnableFromEnvironment, generalized
// from a flag list to a string-keyed table because the spec's environment
// table carries arbitrary values, not just on/off switches.
func LoadEnvironment(doc []byte) (map[string]string, error) {
	table := map[string]string{}
	if len(doc) > 0 {
		var decoded map[string]string
		if err := yaml.Unmarshal(doc, &decoded); err != nil {
			return nil, err
		}
		for k, v := range decoded {
			table[k] = v
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, EnvVarPrefix) {
			continue
		}
		table[strings.TrimPrefix(k, EnvVarPrefix)] = v
	}
	return table, nil
}
