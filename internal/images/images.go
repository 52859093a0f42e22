// Package images loads the image mapping written by the image push step.
//
// The mapping is a JSON object from image name to pushed image URI:
//
//	{"worker": "123456789012.dkr.ecr.eu-west-1.amazonaws.com/worker:3f2a1c"}
package images

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/distribution/reference"
)

// EnvPath names the environment variable holding the mapping file path.
const EnvPath = "PUSHED_IMAGE_URIS_JSON_PATH"

// Load reads the mapping at path. A missing or empty file yields an empty
// mapping.
func Load(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading image map: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON image mapping.
func Parse(data []byte) (map[string]string, error) {
	m := map[string]string{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing image map: %w", err)
	}
	return m, nil
}

// InvalidError lists mapping entries whose value is not a valid image
// reference.
type InvalidError struct {
	// Entries maps image name to its parse error.
	Entries map[string]error
}

// Names returns the invalid image names, sorted.
func (e *InvalidError) Names() []string {
	names := make([]string, 0, len(e.Entries))
	for name := range e.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *InvalidError) Error() string {
	parts := make([]string, 0, len(e.Entries))
	for _, name := range e.Names() {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Entries[name]))
	}
	return "invalid image references: " + strings.Join(parts, "; ")
}

// Validate checks that every value in m parses as a normalized image
// reference. All malformed entries are reported in one *InvalidError.
func Validate(m map[string]string) error {
	invalid := make(map[string]error)
	for name, uri := range m {
		if _, err := reference.ParseNormalizedNamed(uri); err != nil {
			invalid[name] = err
		}
	}
	if len(invalid) > 0 {
		return &InvalidError{Entries: invalid}
	}
	return nil
}

// Repository returns the repository part of an image URI without tag or
// digest, e.g. "123456789012.dkr.ecr.eu-west-1.amazonaws.com/worker".
func Repository(uri string) (string, error) {
	named, err := reference.ParseNormalizedNamed(uri)
	if err != nil {
		return "", err
	}
	return named.Name(), nil
}
