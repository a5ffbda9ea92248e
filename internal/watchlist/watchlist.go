// Package watchlist loads and validates the token list used for multi-token streams.
package watchlist

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/tokenstream/internal/types"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"github.com/tidwall/jsonc"
)

// MaxTargets is the maximum number of tokens per stream connection.
const MaxTargets = 2000

// Load reads the watchlist file at path and returns its targets in file order.
// Nothing is returned unless every entry is valid.
func Load(path string) ([]types.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReadError, err, "failed to read watchlist %s", path)
	}

	targets, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("watchlist %s: %w", path, err)
	}

	return targets, nil
}

// Parse validates watchlist content: a JSON array of {"chain", "address"} objects.
// Comments and trailing commas are tolerated.
//
// Checks run in order: the content must parse, it must hold at least one and at
// most MaxTargets entries, and each entry must carry a non-empty chain and
// address. The first failing entry stops validation.
func Parse(data []byte) ([]types.Target, error) {
	clean := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(clean) == 0 || clean[0] != '[' {
		return nil, errors.New(errors.ErrCodeParseError, "watchlist must be a JSON array of objects")
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal(clean, &rawEntries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseError, "watchlist is not valid JSON", err)
	}

	entries := make([]map[string]json.RawMessage, 0, len(rawEntries))
	for i, raw := range rawEntries {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, errors.Newf(errors.ErrCodeParseError, "watchlist entry %d is not an object", i)
		}

		var entry map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeParseError, err, "watchlist entry %d is not an object", i)
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyWatchlist, "watchlist contains no tokens")
	}

	if len(entries) > MaxTargets {
		return nil, errors.Newf(errors.ErrCodeTooManyTargets,
			"maximum %d tokens per stream connection, you specified %d", MaxTargets, len(entries))
	}

	validate := newValidator()
	targets := make([]types.Target, 0, len(entries))

	for i, entry := range entries {
		target := types.Target{
			Chain:   stringValue(entry["chain"]),
			Address: stringValue(entry["address"]),
		}

		if err := validate.Struct(target); err != nil {
			return nil, missingFieldError(i, err)
		}

		targets = append(targets, target)
	}

	return targets, nil
}

// Schema returns the JSON schema describing the watchlist file format.
func Schema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true

	schema := r.Reflect([]types.Target{})
	schema.Title = "Watchlist"
	schema.Description = fmt.Sprintf("Tokens to stream over one connection (at most %d entries)", MaxTargets)

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// stringValue returns the trimmed string held by raw, or "" for anything that is not a JSON string.
func stringValue(raw json.RawMessage) string {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return ""
	}

	return strings.TrimSpace(s)
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	return validate
}

func missingFieldError(index int, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.Wrapf(errors.ErrCodeMissingField, err, "watchlist entry %d is invalid", index)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%q", fieldErr.Field()))
	}

	return errors.Newf(errors.ErrCodeMissingField,
		"watchlist entry %d is missing %s", index, strings.Join(fields, " and "))
}
