package environment

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadTOML reads a TOML file and exports its keys as environment variables so
// the usual NewFromEnv constructors pick them up. Keys are upper-cased and
// tables are flattened with underscores, so
//
//	log_level = "debug"
//	[database]
//	url = "sqlite://todos.db"
//
// becomes LOG_LEVEL and DATABASE_URL, each joined to namespace. Variables that
// are already set are never overwritten. The exported keys are returned sorted.
func LoadTOML(path string, namespace string) ([]string, error) {
	var doc map[string]any
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("decode toml %s: %w", path, err)
	}

	flat := make(map[string]string)
	flattenTOML("", doc, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	exported := make([]string, 0, len(keys))
	for _, k := range keys {
		envKey := GetEnvKeyPrefix(namespace, k)
		if _, ok := os.LookupEnv(envKey); ok {
			continue
		}
		if err := os.Setenv(envKey, flat[k]); err != nil {
			return exported, fmt.Errorf("set %s: %w", envKey, err)
		}
		exported = append(exported, envKey)
	}

	return exported, nil
}

func flattenTOML(prefix string, doc map[string]any, out map[string]string) {
	for k, v := range doc {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}

		switch val := v.(type) {
		case map[string]any:
			flattenTOML(key, val, out)
		case []any:
			parts := make([]string, len(val))
			for i, item := range val {
				parts[i] = fmt.Sprint(item)
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
