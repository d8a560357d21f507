package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
)

// EncodeResponse serializes a response map into a byte slice
func EncodeResponse(response map[string]interface{}) ([]byte, error) {
	return msgpack.Marshal(response)
}

// DecodeRequest deserializes a byte slice into a request map
func DecodeRequest(data []byte) (map[string]interface{}, error) {
	var request map[string]interface{}
	err := msgpack.Unmarshal(data, &request)
	return request, err
}

// StringField returns request[name] when it holds a string
func StringField(request map[string]interface{}, name string) (string, error) {
	raw, ok := request[name]
	if !ok {
		return "", fmt.Errorf("%w '%s'", ErrMissingField, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w '%s': expected string, got %T", ErrInvalidField, name, raw)
	}
	return s, nil
}

// IntField returns request[name] as an int. msgpack picks the narrowest
// integer encoding, so every width is accepted, as are decimal strings.
func IntField(request map[string]interface{}, name string) (int, error) {
	raw, ok := request[name]
	if !ok {
		return 0, fmt.Errorf("%w '%s'", ErrMissingField, name)
	}

	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint8:
		n = int64(v)
	case uint16:
		n = int64(v)
	case uint32:
		n = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w '%s': %d overflows", ErrInvalidField, name, v)
		}
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w '%s': %v", ErrInvalidField, name, err)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w '%s': expected integer, got %T", ErrInvalidField, name, raw)
	}

	if n > math.MaxInt || n < math.MinInt {
		return 0, fmt.Errorf("%w '%s': %d overflows", ErrInvalidField, name, n)
	}
	return int(n), nil
}

// BoolField returns request[name] as a bool. Strings such as "after",
// "before", "true" and "false" are accepted.
func BoolField(request map[string]interface{}, name string) (bool, error) {
	raw, ok := request[name]
	if !ok {
		return false, fmt.Errorf("%w '%s'", ErrMissingField, name)
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "after":
			return true, nil
		case "before":
			return false, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w '%s': %v", ErrInvalidField, name, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w '%s': expected bool, got %T", ErrInvalidField, name, raw)
	}
}
