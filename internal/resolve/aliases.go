package resolve

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/orders-analytics/internal/common"
)

//go:embed aliases.schema.json
var aliasesSchema []byte

// LoadAliases reads a YAML alias override file and returns the built-in
// table with the file's aliases placed ahead of the defaults. An empty
// path returns the defaults.
func LoadAliases(path string) (Aliases, error) {
	if path == "" {
		return DefaultAliases(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeAliasesFile, "read aliases file", err)
	}
	over, err := ParseAliases(raw)
	if err != nil {
		return nil, err
	}
	return DefaultAliases().Merge(over), nil
}

// ParseAliases decodes and validates an alias override document.
func ParseAliases(raw []byte) (Aliases, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, common.NewAppError(common.CodeAliasesFile, "decode aliases yaml", err)
	}
	if doc == nil {
		return Aliases{}, nil
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, common.NewAppError(common.CodeAliasesFile, "aliases file is not a mapping", err)
	}
	if err := validateAgainstSchema(js); err != nil {
		return nil, common.NewAppError(common.CodeAliasesFile, "aliases file rejected", err)
	}

	var m map[string][]string
	if err := json.Unmarshal(js, &m); err != nil {
		return nil, common.NewAppError(common.CodeAliasesFile, "decode aliases", err)
	}
	v := common.NewValidator()
	out := make(Aliases, len(m))
	for name, cols := range m {
		v.Field(name, cols, knownField, common.Required, common.NoDuplicates)
		out[Field(name)] = cols
	}
	if err := common.ValidateAndReturnError(common.CodeAliasesFile, v); err != nil {
		return nil, err
	}
	return out, nil
}

func knownField(name string, value interface{}) *common.ValidationError {
	if IsField(name) {
		return nil
	}
	return &common.ValidationError{Field: name, Value: value, Message: "is not a known field"}
}

func validateAgainstSchema(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("aliases.schema.json", bytes.NewReader(aliasesSchema)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("aliases.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("aliases do not match schema: %w", err)
	}
	return nil
}
