package cache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireRecord is the serialized shape of one record:
// {"status": 2, "value": ..., "error": null}.
type wireRecord struct {
	Status Status          `json:"status"`
	Value  json.RawMessage `json:"value"`
	Error  json.RawMessage `json:"error"`
}

var jsonNull = json.RawMessage("null")

// Serialize encodes every settled record as JSON keyed by resource name,
// then key. Values must be JSON-encodable. Errors are encoded as their
// message. It fails with ErrPendingRecords if any load is still in flight;
// call Settle first.
func (c *Cache) Serialize() (string, error) {
	data, _, err := c.encode(false)
	return data, err
}

// SerializeSettled encodes like Serialize but skips records still in flight
// instead of failing, and reports how many were skipped. Renders that stop
// waiting on a boundary use it so the client refetches only what is missing.
func (c *Cache) SerializeSettled() (string, int, error) {
	return c.encode(true)
}

func (c *Cache) encode(skipPending bool) (string, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	skipped := 0
	out := make(map[string]map[string]wireRecord, len(c.records))
	for name, byKey := range c.records {
		for key, rec := range byKey {
			if skipPending && rec.status == Pending {
				skipped++
				continue
			}
			wire, skip, err := encodeRecord(name, key, rec)
			if err != nil {
				return "", skipped, err
			}
			if skip {
				continue
			}
			if out[name] == nil {
				out[name] = make(map[string]wireRecord)
			}
			out[name][key] = wire
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", skipped, fmt.Errorf("cache: serialize: %w", err)
	}
	return string(data), skipped, nil
}

func encodeRecord(name, key string, rec *record) (wireRecord, bool, error) {
	switch rec.status {
	case Empty:
		return wireRecord{}, true, nil
	case Pending:
		return wireRecord{}, false, fmt.Errorf("%w: %s[%s]", ErrPendingRecords, name, key)
	case Resolved:
		value, err := json.Marshal(rec.value)
		if err != nil {
			return wireRecord{}, false, fmt.Errorf("cache: serialize %s[%s]: %w", name, key, err)
		}
		return wireRecord{Status: Resolved, Value: value, Error: jsonNull}, false, nil
	case Rejected:
		msg, _ := json.Marshal(rec.err.Error())
		return wireRecord{Status: Rejected, Value: jsonNull, Error: msg}, false, nil
	default:
		return wireRecord{}, false, fmt.Errorf("cache: serialize %s[%s]: unknown status %d", name, key, rec.status)
	}
}

// Deserialize replaces the cache contents with serialized data. Only
// Resolved and Rejected records are restored; anything else is skipped.
// Restored values are kept as json.RawMessage until a typed Resource
// decodes them.
func (c *Cache) Deserialize(data string) error {
	var in map[string]map[string]wireRecord
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return fmt.Errorf("cache: deserialize: %w", err)
	}

	records := make(map[string]map[string]*record, len(in))
	for name, byKey := range in {
		for key, wire := range byKey {
			rec, ok := decodeRecord(name, key, wire)
			if !ok {
				continue
			}
			if records[name] == nil {
				records[name] = make(map[string]*record)
			}
			records[name][key] = rec
		}
	}

	c.mu.Lock()
	c.records = records
	c.mu.Unlock()
	return nil
}

func decodeRecord(name, key string, wire wireRecord) (*record, bool) {
	switch wire.Status {
	case Resolved:
		value := wire.Value
		if len(value) == 0 {
			value = jsonNull
		}
		return &record{status: Resolved, value: value}, true
	case Rejected:
		return &record{status: Rejected, err: &LoadError{
			Resource: name,
			Key:      key,
			Message:  errorMessage(wire.Error),
		}}, true
	default:
		return nil, false
	}
}

// errorMessage turns a serialized error (a string, or any JSON written by
// another producer) into a message.
func errorMessage(raw json.RawMessage) string {
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg
	}
	if len(raw) == 0 {
		return "unknown error"
	}
	return string(raw)
}

// Default embedding names read back by the hydration entry point.
const (
	DefaultGlobal      = "__SSR_CACHE_DATA__"
	DefaultContainerID = "ssr_cache_data_container"
)

// EmbedOptions configures EmbedScript.
type EmbedOptions struct {
	// Global is the window property assigned the cache data.
	Global string
	// ContainerID is the id of the script element.
	ContainerID string
}

func (o EmbedOptions) withDefaults() EmbedOptions {
	if o.Global == "" {
		o.Global = DefaultGlobal
	}
	if o.ContainerID == "" {
		o.ContainerID = DefaultContainerID
	}
	return o
}

// EmbedScript returns an inline script element that assigns serialized
// cache data to a global for the client to read before hydrating.
func EmbedScript(serialized string, opts EmbedOptions) string {
	opts = opts.withDefaults()
	var b strings.Builder
	b.WriteString(`<script id="`)
	b.WriteString(opts.ContainerID)
	b.WriteString(`">window.`)
	b.WriteString(opts.Global)
	b.WriteString(" = ")
	b.WriteString(ScriptSafe(serialized))
	b.WriteString(";</script>")
	return b.String()
}

var scriptSafeReplacer = strings.NewReplacer(
	"<", `\u003C`,
	">", `\u003E`,
	"/", `\u002F`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// ScriptSafe escapes JSON text so it can be placed inside a <script>
// element without terminating it early.
func ScriptSafe(jsonText string) string {
	return scriptSafeReplacer.Replace(jsonText)
}
