package opcodes

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/thelolagemann/gbcore/pkg/utils"
)

//go:embed opcodes.json
var defaultTable []byte

var (
	defaultOnce   sync.Once
	defaultParsed *Table
)

// Default returns the embedded SM83 instruction table.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(bytes.NewReader(defaultTable))
		if err != nil {
			panic(fmt.Sprintf("embedded opcode table: %v", err))
		}
		defaultParsed = t
	})
	return defaultParsed
}

// entry is the schema of a single table entry.
type entry struct {
	Name     string   `json:"name" yaml:"name"`
	Length   length   `json:"length" yaml:"length"`
	Flags    []string `json:"flags" yaml:"flags"`
	Duration string   `json:"duration" yaml:"duration"`
}

// length accepts both string-encoded and numeric lengths.
type length string

func (l *length) UnmarshalJSON(b []byte) error {
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	*l = length(s)
	return nil
}

func (l *length) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: length must be a scalar", value.Line)
	}
	*l = length(value.Value)
	return nil
}

// sections is the two-section document. A document without either
// key is a bare primary section keyed by opcode.
type sections struct {
	Unprefixed map[string]entry `json:"unprefixed" yaml:"unprefixed"`
	CBPrefixed map[string]entry `json:"cbprefixed" yaml:"cbprefixed"`
}

// Load parses a JSON encoded table.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc sections
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding opcode table: %w", err)
	}
	if doc.Unprefixed == nil && doc.CBPrefixed == nil {
		if err := json.Unmarshal(data, &doc.Unprefixed); err != nil {
			return nil, fmt.Errorf("decoding opcode table: %w", err)
		}
	}
	return build(doc)
}

// LoadYAML parses a YAML encoded table with the same schema as Load.
func LoadYAML(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc sections
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding opcode table: %w", err)
	}
	if doc.Unprefixed == nil && doc.CBPrefixed == nil {
		if err := yaml.Unmarshal(data, &doc.Unprefixed); err != nil {
			return nil, fmt.Errorf("decoding opcode table: %w", err)
		}
	}
	return build(doc)
}

// LoadFile loads a table from path, choosing the decoder from the
// file extension.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err = LoadYAML(f)
	default:
		t, err = Load(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// build validates every entry, collecting all problems before
// giving up.
func build(doc sections) (*Table, error) {
	t := &Table{}
	var result *multierror.Error

	add := func(space *[256]*Descriptor, entries map[string]entry, prefixed bool) {
		for key, e := range entries {
			d, err := e.descriptor(key, prefixed)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			// "0x00" and "0" name the same opcode
			if space[d.Opcode] != nil {
				result = multierror.Append(result, fmt.Errorf("%s[0x%02X]: duplicate opcode", sectionName(prefixed), d.Opcode))
				continue
			}
			space[d.Opcode] = d
		}
	}
	add(&t.primary, doc.Unprefixed, false)
	add(&t.secondary, doc.CBPrefixed, true)

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

func sectionName(prefixed bool) string {
	if prefixed {
		return "cbprefixed"
	}
	return "unprefixed"
}

func (e entry) descriptor(key string, prefixed bool) (*Descriptor, error) {
	space := sectionName(prefixed)

	opcode, err := utils.ParseUint[uint8](key)
	if err != nil {
		return nil, fmt.Errorf("%s[%q]: invalid opcode key", space, key)
	}
	if strings.TrimSpace(e.Name) == "" {
		return nil, fmt.Errorf("%s[0x%02X]: empty name", space, opcode)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(e.Length)))
	if err != nil || n < 1 || n > 3 {
		return nil, fmt.Errorf("%s[0x%02X]: invalid length %q", space, opcode, e.Length)
	}
	if len(e.Flags) != 4 {
		return nil, fmt.Errorf("%s[0x%02X]: expected 4 flags, got %d", space, opcode, len(e.Flags))
	}

	d := &Descriptor{
		Opcode:   opcode,
		Prefixed: prefixed,
		Length:   uint8(n),
		Duration: e.Duration,
	}
	d.Mnemonic, d.Operands = parseName(e.Name)
	for i, f := range e.Flags {
		if len(f) != 1 {
			return nil, fmt.Errorf("%s[0x%02X]: invalid flag effect %q", space, opcode, f)
		}
		d.Flags[i] = f[0]
	}
	return d, nil
}
