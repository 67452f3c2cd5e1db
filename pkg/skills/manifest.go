package skills

import (
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// ManifestFileName is the manifest's name inside a skills directory.
const ManifestFileName = "manifest.json"

// Manifest maps file characteristics to the skill documents that should be
// loaded for them. Pattern lists name skill files relative to the manifest's
// directory; entries containing `*` are glob patterns, anything else is a
// literal path.
type Manifest struct {
	Always       []string            `json:"always,omitempty" jsonschema:"description=Skill file patterns loaded for every file"`
	Extensions   map[string][]string `json:"extensions,omitempty" jsonschema:"description=Lowercased file extension (with dot) to skill file patterns"`
	Paths        map[string][]string `json:"paths,omitempty" jsonschema:"description=fnmatch-style path glob to skill file patterns"`
	ContentHints map[string][]string `json:"content_hints,omitempty" jsonschema:"description=Case-insensitive regex over the file head to skill file patterns"`
}

// LoadManifest reads a manifest.json. A missing file yields an empty
// manifest rather than an error; a malformed one is an error.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, errors.Wrap(err, "failed to read manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &manifest, nil
}

// ManifestSchema generates the JSON Schema for manifest.json.
func ManifestSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(&Manifest{})
}
