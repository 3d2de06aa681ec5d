package config

import (
	"bytes"
	"encoding/json"
	"errors"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"gopkg.in/yaml.v3"
)

// field is a string value under the gcloud block.
type field struct {
	key   string
	value string
}

// patchJSON sets fields under /gcloud in source. Untouched keys keep their order and
// literal values.
func patchJSON(source []byte, fields []field) ([]byte, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		source = []byte("{}")
	}

	ops := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		ops = append(ops, map[string]any{"op": "add", "path": "/gcloud/" + f.key, "value": f.value})
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, err
	}

	opts := jsonpatch.NewApplyOptions()
	opts.EnsurePathExistsOnAdd = true
	opts.EscapeHTML = false
	out, err := patch.ApplyIndentWithOptions(source, "  ", opts)
	if err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// patchYAML sets fields under the gcloud mapping of source, keeping key order and comments.
func patchYAML(source []byte, fields []field) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("config root is not a mapping")
	}

	root := doc.Content[0]
	gcloud := mappingValue(root, "gcloud")
	if gcloud == nil {
		gcloud = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content = append(root.Content, stringNode("gcloud"), gcloud)
	}
	if gcloud.Kind != yaml.MappingNode {
		return nil, errors.New("gcloud is not a mapping")
	}
	for _, f := range fields {
		if v := mappingValue(gcloud, f.key); v != nil {
			v.Kind, v.Tag, v.Value, v.Content = yaml.ScalarNode, "!!str", f.value, nil
			continue
		}
		gcloud.Content = append(gcloud.Content, stringNode(f.key), stringNode(f.value))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
