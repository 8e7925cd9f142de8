package workout

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// IdentifierNotFoundError means a persistence response carried no usable
// assessment identifier. Fields lists the keys the response did carry, which
// is what you need when a persistence deploy renames its id field.
type IdentifierNotFoundError struct {
	Fields []string
}

func (e *IdentifierNotFoundError) Error() string {
	return fmt.Sprintf("no assessment identifier in persistence response (fields: %v)", e.Fields)
}

// id field names in probe order.
var idFields = []string{"assessment_id", "id", "ID"}

// ExtractAssessmentID pulls the new record's identifier out of a persistence
// save response. Persistence deploys answer in different shapes: a bare
// object, a list with the new record first, or an envelope with the record
// under data. Top-level id fields always win; the data envelope is only
// consulted when they all miss.
func ExtractAssessmentID(raw json.RawMessage) (string, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		if id := probeID(obj); id != "" {
			return id, nil
		}
		if inner := asObject(obj["data"]); inner != nil {
			if id := probeID(inner); id != "" {
				return id, nil
			}
		}
		return "", &IdentifierNotFoundError{Fields: fieldNames(obj)}
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		if first := asObject(list[0]); first != nil {
			if id := probeID(first); id != "" {
				return id, nil
			}
			return "", &IdentifierNotFoundError{Fields: fieldNames(first)}
		}
	}
	return "", &IdentifierNotFoundError{}
}

func probeID(obj map[string]any) string {
	for _, field := range idFields {
		if id := stringValue(obj[field]); id != "" {
			return id
		}
	}
	return ""
}

func asObject(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		if len(t) > 0 {
			if obj, ok := t[0].(map[string]any); ok {
				return obj
			}
		}
	}
	return nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode to float64; integer ids are common.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func fieldNames(obj map[string]any) []string {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
