package server

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/redactyl/drcscan/internal/types"
)

// FieldError is one validation problem. Loc is the path into the request,
// starting at "body".
type FieldError struct {
	Type string `json:"type"`
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
}

// ValidationError is the 422 response body.
type ValidationError struct {
	Detail []FieldError `json:"detail"`
}

func (v *ValidationError) add(typ, msg string, loc ...any) {
	v.Detail = append(v.Detail, FieldError{Type: typ, Loc: append([]any{"body"}, loc...), Msg: msg})
}

const (
	msgMissing = "Field required"
	msgString  = "Input should be a valid string"
	msgInt     = "Input should be a valid integer"
	msgIntStr  = "Input should be a valid integer, unable to parse string as an integer"
	msgIntFrac = "Input should be a valid integer, got a number with a fractional part"
	msgList    = "Input should be a valid list"
	msgObject  = "Input should be a valid dictionary or object to extract fields from"
)

// DecodeUnits validates and decodes a JSON array of units. It reports every
// problem found rather than stopping at the first. An absent code field
// becomes empty text; an explicit null stays null in the echo.
func DecodeUnits(raw json.RawMessage) ([]types.Unit, *ValidationError) {
	verr := &ValidationError{}
	var items []json.RawMessage
	if !isKind(raw, '[') || json.Unmarshal(raw, &items) != nil {
		verr.add("list_type", msgList)
		return nil, verr
	}

	units := make([]types.Unit, 0, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if !isKind(item, '{') || json.Unmarshal(item, &fields) != nil {
			verr.add("model_attributes_type", msgObject, i)
			continue
		}
		var u types.Unit
		u.PgmName = requiredString(verr, fields, i, "pgm_name")
		u.IncName = requiredString(verr, fields, i, "inc_name")
		u.Type = requiredString(verr, fields, i, "type")
		u.Name = optionalString(verr, fields, i, "name")
		u.ClassImplementation = optionalString(verr, fields, i, "class_implementation")
		u.StartLine = optionalInt(verr, fields, i, "start_line")
		u.EndLine = optionalInt(verr, fields, i, "end_line")
		if _, ok := fields["code"]; ok {
			u.Code = optionalString(verr, fields, i, "code")
		} else {
			empty := ""
			u.Code = &empty
		}
		units = append(units, u)
	}
	if len(verr.Detail) > 0 {
		return nil, verr
	}
	return units, nil
}

func requiredString(verr *ValidationError, fields map[string]json.RawMessage, i int, key string) string {
	v, ok := fields[key]
	if !ok {
		verr.add("missing", msgMissing, i, key)
		return ""
	}
	var s string
	if !isKind(v, '"') || json.Unmarshal(v, &s) != nil {
		verr.add("string_type", msgString, i, key)
	}
	return s
}

func optionalString(verr *ValidationError, fields map[string]json.RawMessage, i int, key string) *string {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return nil
	}
	var s string
	if !isKind(v, '"') || json.Unmarshal(v, &s) != nil {
		verr.add("string_type", msgString, i, key)
		return nil
	}
	return &s
}

// optionalInt accepts JSON integers, floats without a fractional part and
// strings holding an integer.
func optionalInt(verr *ValidationError, fields map[string]json.RawMessage, i int, key string) *int {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return nil
	}
	if isKind(v, '"') {
		var s string
		if json.Unmarshal(v, &s) == nil {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				return &n
			}
		}
		verr.add("int_parsing", msgIntStr, i, key)
		return nil
	}
	if n, err := strconv.Atoi(string(bytes.TrimSpace(v))); err == nil {
		return &n
	}
	var f float64
	if json.Unmarshal(v, &f) != nil || math.Abs(f) >= math.MaxInt64 {
		verr.add("int_type", msgInt, i, key)
		return nil
	}
	if f != math.Trunc(f) {
		verr.add("int_from_float", msgIntFrac, i, key)
		return nil
	}
	n := int(f)
	return &n
}

func isKind(raw json.RawMessage, first byte) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == first
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
