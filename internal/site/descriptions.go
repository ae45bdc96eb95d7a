package site

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/pdime/folio/internal/security"
	"github.com/pdime/folio/internal/util"
)

const maxDescriptionsBytes = 1 << 20

// DescriptionsResult summarises a descriptions run.
type DescriptionsResult struct {
	Updated int
	Missing int
}

// LoadDescriptions reads the folder to description map.
func LoadDescriptions(path string) (map[string]string, error) {
	data, err := security.ReadFileLimited(path, maxDescriptionsBytes)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// Descriptions applies the configured card descriptions to each prose
// folder's metadata file.
func (g *Generator) Descriptions() (*DescriptionsResult, error) {
	path := g.cfg.SourcePath(g.cfg.Paths.Descriptions)
	descs, err := LoadDescriptions(path)
	if err != nil {
		return nil, err
	}

	proseDir := g.cfg.SourcePath(g.cfg.Paths.Prose)
	result := &DescriptionsResult{}

	folders := make([]string, 0, len(descs))
	for k := range descs {
		folders = append(folders, k)
	}
	slices.Sort(folders)

	for _, folder := range folders {
		if err := security.ValidateRelativePath(folder, proseDir); err != nil {
			g.logger.Warn("invalid folder name", "folder", folder, "error", err)
			result.Missing++
			continue
		}
		dir := filepath.Join(proseDir, folder)
		if !util.Exists(dir) {
			g.logger.Warn("folder not found", "folder", folder)
			result.Missing++
			continue
		}

		files, err := util.ListFiles(dir, func(name string) bool {
			return strings.HasSuffix(name, "metadata.json")
		})
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			g.logger.Warn("no metadata file", "folder", folder)
			result.Missing++
			continue
		}

		old, err := UpdateDescription(files[0], descs[folder], g.logger)
		if err != nil {
			return nil, err
		}
		g.logger.Info("updated description", "folder", folder,
			"old_length", utf8.RuneCountInString(old), "new_length", utf8.RuneCountInString(descs[folder]))
		result.Updated++
	}
	return result, nil
}

// UpdateDescription sets the description key of the JSON object in path,
// keeping the other keys in their original order, and returns the previous
// description. A previous value that is not a string is logged at debug
// level and reported as empty.
func UpdateDescription(path, description string, logger hclog.Logger) (string, error) {
	data, err := security.ReadFileLimited(path, maxMetadataBytes)
	if err != nil {
		return "", err
	}

	fields, err := orderedObject(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	value, err := marshalNoEscape(description)
	if err != nil {
		return "", err
	}

	var old string
	replaced := false
	for i := range fields {
		if fields[i].key == "description" {
			if err := json.Unmarshal(fields[i].value, &old); err != nil {
				logger.Debug("previous description is not a string", "path", path, "error", err)
			}
			fields[i].value = value
			replaced = true
		}
	}
	if !replaced {
		fields = append(fields, field{key: "description", value: value})
	}

	out, err := encodeObject(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil { // #nosec G306 - Metadata is world-readable source
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return old, nil
}

type field struct {
	key   string
	value json.RawMessage
}

// orderedObject splits a JSON object into its members in document order.
func orderedObject(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("metadata is not a JSON object")
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}
	return fields, nil
}

// encodeObject writes members as a two-space indented object without a
// trailing newline.
func encodeObject(fields []field) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := marshalNoEscape(f.key)
		if err != nil {
			return nil, err
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(f.value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// marshalNoEscape encodes v leaving <, > and & as written.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
