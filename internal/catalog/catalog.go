// Package catalog reads problem sequences from JSON or YAML files.
//
// The JSON form is the extension's static resource: either a top-level
// array of problems or an object with a "problems" array. Records are
// validated here so the scheduler can trust its input.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/lqsky7/leetfeedback/pkg/model"
	"gopkg.in/yaml.v3"
)

// Format is a catalog encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type document struct {
	Problems []model.Problem `json:"problems" yaml:"problems"`
}

// Load reads and validates the catalog at path.
func Load(path string) ([]model.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	problems, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return problems, nil
}

// Decode reads a problem sequence in the given format, assigns ids to
// records that lack one, and validates every record.
func Decode(r io.Reader, format Format) ([]model.Problem, error) {
	br := bufio.NewReader(r)
	var problems []model.Problem
	var err error

	switch format {
	case FormatYAML:
		problems, err = decodeYAML(br)
	case FormatJSON:
		problems, err = decodeJSON(br)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := Normalize(problems); err != nil {
		return nil, err
	}
	return problems, nil
}

func decodeJSON(br *bufio.Reader) ([]model.Problem, error) {
	first, err := firstNonSpace(br)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(br)
	if first == '[' {
		var problems []model.Problem
		if err := dec.Decode(&problems); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return problems, nil
	}
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc.Problems, nil
}

func decodeYAML(br *bufio.Reader) ([]model.Problem, error) {
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var problems []model.Problem
		if err := node.Decode(&problems); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return problems, nil
	}
	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return doc.Problems, nil
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return 0, fmt.Errorf("decode json: empty input")
		}
		if err != nil {
			return 0, fmt.Errorf("read json: %w", err)
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// Normalize prepares records for storage and validates them in order.
//
// A record without an id gets one derived from the last path segment of
// its url, else from its name, else from its position (p<index>). Only
// positional ids tie attempt history to position rather than identity,
// and a derived id can collide with an explicit one further down; both
// cases fail as duplicates naming where the id came from.
//
// A solved.date left on an unsolved record is cleared: it carries no
// meaning once the problem is unmarked.
func Normalize(problems []model.Problem) error {
	seen := make(map[string]int, len(problems))
	for i := range problems {
		p := &problems[i]
		p.ID = strings.TrimSpace(p.ID)
		source := ""
		if p.ID == "" {
			p.ID, source = deriveID(*p, i)
		}
		if !p.Solved.Value {
			p.Solved.Date = 0
		}
		if err := p.Validate(); err != nil {
			if mpe, ok := err.(*model.MalformedProblemError); ok {
				mpe.Index = i
			}
			return err
		}
		if prev, dup := seen[p.ID]; dup {
			msg := fmt.Sprintf("duplicates record #%d", prev)
			if source != "" {
				msg = fmt.Sprintf("derived from %s %s", source, msg)
			}
			return &model.MalformedProblemError{
				ID:      p.ID,
				Index:   i,
				Details: []model.FieldError{{Field: "id", Message: msg}},
			}
		}
		seen[p.ID] = i
	}
	return nil
}

// deriveID returns an id for a record that has none and what it came from.
func deriveID(p model.Problem, i int) (id, source string) {
	if u, err := url.Parse(strings.TrimSpace(p.URL)); err == nil && u.Path != "" {
		if id := slug(path.Base(strings.TrimRight(u.Path, "/"))); id != "" {
			return id, "url"
		}
	}
	if id := slug(p.Name); id != "" {
		return id, "name"
	}
	return fmt.Sprintf("p%d", i), "position"
}

// slug lowercases s and joins its letter and digit runs with dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
