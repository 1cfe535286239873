package mcptool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// FlexInt is an integer that unmarshals from a JSON number or a numeric
// string. Hosts disagree on how they serialize numeric tool arguments, so
// the union is accepted at the boundary and normalized here; nothing past
// argument decoding ever sees the union.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (v *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*v = 0
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("value %q is not an integer", s)
		}
		*v = FlexInt(n)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("value %s is not an integer", trimmed)
	}
	*v = FlexInt(int(f))
	return nil
}

// JSONSchema declares the number-or-numeric-string union for generated
// schemas.
func (FlexInt) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: json.Number("1")},
			{Type: "string", Pattern: `^[0-9]+$`},
		},
	}
}

// mustSchema reflects a JSON schema from an argument struct.
// Panics on marshal failure; schemas are built once at startup.
func mustSchema(v any) json.RawMessage {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	data, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		panic(fmt.Sprintf("reflect tool schema: %v", err))
	}
	return data
}

// decodeArgs maps raw tool arguments onto an argument struct, applying
// FlexInt coercion along the way.
func decodeArgs(raw map[string]any, dst any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
