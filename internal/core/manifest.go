package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/mrunpack/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

// manifestSchema is the subset of the Modrinth index format the installer relies on
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["files", "dependencies"],
  "properties": {
    "formatVersion": {"type": "integer"},
    "game": {"type": "string"},
    "name": {"type": "string"},
    "versionId": {"type": "string"},
    "summary": {"type": "string"},
    "dependencies": {
      "type": "object",
      "required": ["minecraft"],
      "properties": {
        "minecraft": {"type": "string", "minLength": 1}
      },
      "additionalProperties": {"type": "string"}
    },
    "files": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path", "downloads"],
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "downloads": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          },
          "fileSize": {"type": "integer", "minimum": 0},
          "hashes": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          },
          "env": {
            "type": "object",
            "properties": {
              "client": {"enum": ["required", "optional", "unsupported"]},
              "server": {"enum": ["required", "optional", "unsupported"]}
            }
          }
        }
      }
    }
  }
}`

var manifestSchemaLoader = gojsonschema.NewStringLoader(manifestSchema)

// ReadManifest parses and validates the pack index of a staged package.
// A missing or unparsable index fails with domain.ErrFormat; a document that
// parses but violates the index structure fails with domain.ErrSchema.
func ReadManifest(area *domain.StagingArea) (*domain.Manifest, error) {
	path := filepath.Join(area.Root, domain.ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: package has no %s", domain.ErrFormat, domain.ManifestFileName)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrFormat, domain.ManifestFileName, err)
	}

	return ParseManifest(data)
}

// ParseManifest parses and validates raw pack index bytes
func ParseManifest(data []byte) (*domain.Manifest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s is not valid JSON: %v", domain.ErrFormat, domain.ManifestFileName, err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: %s is not a JSON object", domain.ErrFormat, domain.ManifestFileName)
	}

	result, err := gojsonschema.Validate(manifestSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", domain.ManifestFileName, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSchema, strings.Join(msgs, "; "))
	}

	var manifest domain.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchema, err)
	}

	for _, key := range domain.LoaderDependencyKeys() {
		if v, ok := manifest.Dependencies[key]; ok && strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: dependency %q has no version", domain.ErrSchema, key)
		}
	}

	seen := make(map[string]bool, len(manifest.Files))
	for _, f := range manifest.Files {
		if seen[f.Path] {
			return nil, fmt.Errorf("%w: duplicate file path %q", domain.ErrSchema, f.Path)
		}
		seen[f.Path] = true
	}

	return &manifest, nil
}
