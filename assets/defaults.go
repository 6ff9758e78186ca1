package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DiseasesJSON is the static disease database.
//
//go:embed defaults/diseases.json
var DiseasesJSON []byte

// TipsJSON holds the localized farming tips.
//
//go:embed defaults/tips.json
var TipsJSON []byte

// DiseasesSchema validates DiseasesJSON.
//
//go:embed defaults/diseases.schema.json
var DiseasesSchema []byte

// TipsSchema validates TipsJSON.
//
//go:embed defaults/tips.schema.json
var TipsSchema []byte

// ClassificationSchema describes the payloads the remote classifier may return.
//
//go:embed defaults/classification.schema.json
var ClassificationSchema []byte
