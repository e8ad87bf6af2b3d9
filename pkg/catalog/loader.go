package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-careforms/pkg/model"
)

// LoadFS walks the provided filesystem and parses JSON/YAML section files.
// When fsys is nil or no section files are present, the returned catalog is
// empty.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	cat := &Catalog{sets: make(map[string]Set)}
	if fsys == nil {
		return cat, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSetFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		set, err := normaliseSet(doc, path)
		if err != nil {
			return err
		}
		if _, exists := cat.sets[set.Name]; exists {
			return fmt.Errorf("catalog: duplicate set %q (file %s)", set.Name, path)
		}
		cat.sets[set.Name] = set
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cat, nil
}

type setFile struct {
	Name       string            `json:"name" yaml:"name"`
	Title      string            `json:"title" yaml:"title"`
	Candidates []model.Candidate `json:"candidates" yaml:"candidates"`
	Sections   []model.Section   `json:"sections" yaml:"sections"`
}

func parseDocument(data []byte, source string) (setFile, error) {
	var doc setFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return setFile{}, fmt.Errorf("catalog: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = setFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return setFile{}, fmt.Errorf("catalog: parse %s: invalid JSON or YAML", source)
}

func normaliseSet(raw setFile, source string) (Set, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	set := Set{
		Name:   name,
		Title:  strings.TrimSpace(raw.Title),
		Source: source,
	}

	seen := make(map[string]struct{})
	for idx, section := range raw.Sections {
		title := strings.TrimSpace(section.Title)
		if title == "" {
			return Set{}, fmt.Errorf("catalog: set %q (file %s) section %d has an empty title", name, source, idx)
		}
		if len(section.Fields) == 0 {
			return Set{}, fmt.Errorf("catalog: set %q (file %s) section %q lists no fields", name, source, title)
		}
		fields := make([]string, 0, len(section.Fields))
		for _, field := range section.Fields {
			field = strings.TrimSpace(field)
			if field == "" {
				return Set{}, fmt.Errorf("catalog: set %q (file %s) section %q contains an empty field", name, source, title)
			}
			if _, dup := seen[field]; dup {
				return Set{}, fmt.Errorf("catalog: set %q (file %s) defines duplicate field %q", name, source, field)
			}
			seen[field] = struct{}{}
			fields = append(fields, field)
		}
		set.Sections = append(set.Sections, model.Section{Title: title, Fields: fields})
	}

	for _, candidate := range raw.Candidates {
		id := strings.TrimSpace(candidate.ID)
		label := strings.TrimSpace(candidate.Name)
		if id == "" || label == "" {
			continue
		}
		set.Candidates = append(set.Candidates, model.Candidate{ID: id, Name: label})
	}

	return set, nil
}

func isSetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
