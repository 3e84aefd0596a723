package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// decodeDocument decodes manifest data into a node tree. Files named *.json,
// and other documents starting with "{" or "[", are read with encoding/json
// so every valid JSON manifest is accepted; a repeated key keeps its first
// position and takes the last value. Everything else is YAML. An empty
// document yields nil.
func decodeDocument(data []byte, path string) (*yaml.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	strict := strings.EqualFold(filepath.Ext(path), ".json")
	if strict || trimmed[0] == '{' || trimmed[0] == '[' {
		n, err := decodeJSON(data)
		if err == nil || strict {
			return n, err
		}
		// Not JSON; YAML flow collections look the same up front.
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

// jsonDocument builds a yaml.Node tree from the token stream of a JSON
// document, tracking line numbers for error messages.
type jsonDocument struct {
	dec  *json.Decoder
	data []byte

	offset int
	line   int
}

func decodeJSON(data []byte) (*yaml.Node, error) {
	d := &jsonDocument{dec: json.NewDecoder(bytes.NewReader(data)), data: data, line: 1}
	d.dec.UseNumber()

	n, err := d.value()
	if err != nil {
		return nil, err
	}
	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("line %d: unexpected data after top-level value", d.currentLine())
		}
		return nil, err
	}
	return n, nil
}

// currentLine returns the line of the last token read.
func (d *jsonDocument) currentLine() int {
	end := int(d.dec.InputOffset())
	if end > len(d.data) {
		end = len(d.data)
	}
	if end > d.offset {
		d.line += bytes.Count(d.data[d.offset:end], []byte{'\n'})
		d.offset = end
	}
	return d.line
}

func (d *jsonDocument) value() (*yaml.Node, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	line := d.currentLine()

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return d.object(line)
		case '[':
			return d.array(line)
		}
		return nil, fmt.Errorf("line %d: unexpected %q", line, t)
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: t, Line: line}, nil
	case json.Number:
		// Left untagged so the YAML resolver picks int or float.
		return &yaml.Node{Kind: yaml.ScalarNode, Value: t.String(), Line: line}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t), Line: line}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null", Line: line}, nil
	}
	return nil, fmt.Errorf("line %d: unexpected token %v", line, tok)
}

func (d *jsonDocument) object(line int) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
	index := make(map[string]int)

	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("line %d: object key is %v, not a string", d.currentLine(), tok)
		}
		keyLine := d.currentLine()

		val, err := d.value()
		if err != nil {
			return nil, err
		}
		if i, dup := index[key]; dup {
			n.Content[i+1] = val
			continue
		}
		index[key] = len(n.Content)
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: key, Line: keyLine},
			val,
		)
	}

	// closing '}'
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func (d *jsonDocument) array(line int) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
	for d.dec.More() {
		val, err := d.value()
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, val)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

// instance converts a node tree into the plain values the schema validator
// works on.
func instance(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return instance(n.Content[0])
	case yaml.AliasNode:
		return instance(n.Alias)
	case yaml.MappingNode:
		obj := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			obj[n.Content[i].Value] = instance(n.Content[i+1])
		}
		return obj
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			arr = append(arr, instance(item))
		}
		return arr
	}

	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err == nil {
			return v
		}
	}
	return n.Value
}
