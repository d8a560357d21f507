package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luxigo/dynlist/internal/datastructures"
	"github.com/luxigo/dynlist/internal/utils"
)

var ErrUnknownCommand = errors.New("unknown command")

type CommandHandler struct {
	Store *Store
}

// Create a new CommandHandler instance
func NewCommandHandler(store *Store) *CommandHandler {
	return &CommandHandler{Store: store}
}

// HandleCommand processes one decoded request and returns the response map.
// Returned errors are meant to be sent back as ERROR responses.
func (h *CommandHandler) HandleCommand(request map[string]interface{}) (map[string]interface{}, error) {
	command, err := utils.StringField(request, "command")
	if err != nil {
		return nil, err
	}

	switch strings.ToUpper(command) {
	case "PING":
		return ok("message", "PONG"), nil

	case "ECHO":
		message, err := utils.StringField(request, "message")
		if err != nil {
			return nil, fmt.Errorf("ECHO requires a 'message' field: %w", err)
		}
		return ok("message", message), nil

	case "PUSH", "UNSHIFT":
		key, value, err := keyAndValue(request)
		if err != nil {
			return nil, fmt.Errorf("%s requires 'key', 'value' fields: %w", command, err)
		}
		var length int
		if strings.EqualFold(command, "PUSH") {
			length, err = h.Store.Push(key, value)
		} else {
			length, err = h.Store.Unshift(key, value)
		}
		if err != nil {
			return nil, err
		}
		return ok("length", length), nil

	case "POP", "SHIFT":
		key, err := utils.StringField(request, "key")
		if err != nil {
			return nil, fmt.Errorf("%s requires a 'key' field: %w", command, err)
		}
		var value string
		var found bool
		if strings.EqualFold(command, "POP") {
			value, found, err = h.Store.Pop(key)
		} else {
			value, found, err = h.Store.Shift(key)
		}
		if err != nil {
			return nil, err
		}
		if !found {
			return map[string]interface{}{"status": "NOT_FOUND"}, nil
		}
		return ok("value", value), nil

	case "GET":
		key, index, err := keyAndIndex(request)
		if err != nil {
			return nil, fmt.Errorf("GET requires 'key', 'index' fields: %w", err)
		}
		value, err := h.Store.Get(key, index)
		if err != nil {
			return nil, err
		}
		return ok("value", value), nil

	case "SET":
		key, index, err := keyAndIndex(request)
		if err != nil {
			return nil, fmt.Errorf("SET requires 'key', 'index', 'value' fields: %w", err)
		}
		value, err := utils.StringField(request, "value")
		if err != nil {
			return nil, fmt.Errorf("SET requires 'key', 'index', 'value' fields: %w", err)
		}
		if err := h.Store.Set(key, index, value); err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK"}, nil

	case "INSERT":
		key, index, err := keyAndIndex(request)
		if err != nil {
			return nil, fmt.Errorf("INSERT requires 'key', 'index', 'after', 'value' fields: %w", err)
		}
		after, err := utils.BoolField(request, "after")
		if err != nil {
			return nil, fmt.Errorf("INSERT requires 'key', 'index', 'after', 'value' fields: %w", err)
		}
		value, err := utils.StringField(request, "value")
		if err != nil {
			return nil, fmt.Errorf("INSERT requires 'key', 'index', 'after', 'value' fields: %w", err)
		}
		length, err := h.Store.Insert(key, index, after, value)
		if err != nil {
			return nil, err
		}
		return ok("length", length), nil

	case "REMOVE":
		key, index, err := keyAndIndex(request)
		if err != nil {
			return nil, fmt.Errorf("REMOVE requires 'key', 'index' fields: %w", err)
		}
		var expect *string
		if _, present := request["expect"]; present {
			e, err := utils.StringField(request, "expect")
			if err != nil {
				return nil, err
			}
			expect = &e
		}
		value, err := h.Store.Remove(key, index, expect)
		if errors.Is(err, datastructures.ErrCancelled) {
			return map[string]interface{}{"status": "CANCELLED", "message": err.Error()}, nil
		}
		if err != nil {
			return nil, err
		}
		return ok("value", value), nil

	case "LEN":
		key, err := utils.StringField(request, "key")
		if err != nil {
			return nil, fmt.Errorf("LEN requires a 'key' field: %w", err)
		}
		length, err := h.Store.Len(key)
		if err != nil {
			return nil, err
		}
		return ok("length", length), nil

	case "RANGE":
		key, err := utils.StringField(request, "key")
		if err != nil {
			return nil, fmt.Errorf("RANGE requires a 'key' field: %w", err)
		}
		values, err := h.Store.Values(key)
		if err != nil {
			return nil, err
		}
		return ok("values", values), nil

	case "DEL":
		key, err := utils.StringField(request, "key")
		if err != nil {
			return nil, fmt.Errorf("DEL requires a 'key' field: %w", err)
		}
		return ok("deleted", h.Store.Delete(key)), nil

	case "KEYS":
		return ok("keys", h.Store.Keys()), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// IsWriteCommand reports whether command mutates the store
func IsWriteCommand(command string) bool {
	writeCommands := map[string]bool{
		"PUSH":    true,
		"UNSHIFT": true,
		"POP":     true,
		"SHIFT":   true,
		"SET":     true,
		"INSERT":  true,
		"REMOVE":  true,
		"DEL":     true,
	}
	return writeCommands[strings.ToUpper(command)]
}

func ok(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"status": "OK", field: value}
}

func keyAndValue(request map[string]interface{}) (string, string, error) {
	key, err := utils.StringField(request, "key")
	if err != nil {
		return "", "", err
	}
	value, err := utils.StringField(request, "value")
	if err != nil {
		return "", "", err
	}
	return key, value, nil
}

func keyAndIndex(request map[string]interface{}) (string, int, error) {
	key, err := utils.StringField(request, "key")
	if err != nil {
		return "", 0, err
	}
	index, err := utils.IntField(request, "index")
	if err != nil {
		return "", 0, err
	}
	return key, index, nil
}
