package shell

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
	"src.lamb.sh/pkg/eval"
)

// Structured form of a value, used in json and yaml output. Closures only
// have a kind.
type valueOutput struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value *int32 `json:"value,omitempty" yaml:"value,omitempty"`
}

// Formats a value in one of the output formats. The result always ends with a
// newline.
func formatValue(v eval.Value, format string) (string, error) {
	switch format {
	case "", "text":
		return eval.Display(v) + "\n", nil
	case "json":
		b, err := json.Marshal(structuredValue(v))
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "yaml":
		b, err := yaml.Marshal(structuredValue(v))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func structuredValue(v eval.Value) valueOutput {
	out := valueOutput{Kind: v.Kind()}
	if i, ok := v.(eval.Int); ok {
		n := int32(i)
		out.Value = &n
	}
	return out
}
