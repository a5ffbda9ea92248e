package wire

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
)

// Wire keys of a price record.
const (
	FieldAddress        = "a"
	FieldChain          = "c"
	FieldPrice          = "p"
	FieldTimestamp      = "t"
	FieldPriceTimestamp = "t_p"
)

// DecodeEvent decodes a single wire record into a PriceEvent.
//
// All five keys are required. A missing key or a value of the wrong JSON type
// yields a *errors.MalformedEventError naming the key. String values are kept
// verbatim; the price is not parsed (see types.PriceEvent.Price). Unknown keys
// are ignored.
func DecodeEvent(data []byte) (types.PriceEvent, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return types.PriceEvent{}, errors.NewMalformedEventError("", "record is not a JSON object") //nolint:exhaustruct // error case
	}

	var (
		wireEvent types.WireEvent
		err       error
	)

	if wireEvent.Address, err = stringField(raw, FieldAddress); err != nil {
		return types.PriceEvent{}, err //nolint:exhaustruct // error case
	}

	if wireEvent.Chain, err = stringField(raw, FieldChain); err != nil {
		return types.PriceEvent{}, err //nolint:exhaustruct // error case
	}

	if wireEvent.Price, err = stringField(raw, FieldPrice); err != nil {
		return types.PriceEvent{}, err //nolint:exhaustruct // error case
	}

	if wireEvent.Timestamp, err = integerField(raw, FieldTimestamp); err != nil {
		return types.PriceEvent{}, err //nolint:exhaustruct // error case
	}

	if wireEvent.PriceTimestamp, err = integerField(raw, FieldPriceTimestamp); err != nil {
		return types.PriceEvent{}, err //nolint:exhaustruct // error case
	}

	return wireEvent.Normalize(), nil
}

func stringField(raw map[string]json.RawMessage, key string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", errors.NewMalformedEventError(key, "missing field")
	}

	value = bytes.TrimSpace(value)
	if len(value) == 0 || value[0] != '"' {
		return "", errors.NewMalformedEventErrorf(key, "expected string, got %s", describe(value))
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", errors.NewMalformedEventErrorf(key, "invalid string: %v", err)
	}

	return s, nil
}

func integerField(raw map[string]json.RawMessage, key string) (int64, error) {
	value, ok := raw[key]
	if !ok {
		return 0, errors.NewMalformedEventError(key, "missing field")
	}

	n, err := strconv.ParseInt(string(bytes.TrimSpace(value)), 10, 64)
	if err != nil {
		return 0, errors.NewMalformedEventErrorf(key, "expected integer epoch seconds, got %s", describe(value))
	}

	return n, nil
}

// describe names the JSON type of a raw value for error messages.
func describe(value json.RawMessage) string {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return "nothing"
	}

	switch value[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number " + string(value)
	}
}
