package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMalformedTransport is returned when a transport document lacks a
// required field or carries it with the wrong shape.
var ErrMalformedTransport = errors.New("malformed transport document")

func epochSeconds(t time.Time) int64 {
	return t.Unix()
}

// object is a decoded JSON object whose numbers are kept as json.Number.
type object struct {
	m   map[string]any
	err error
}

func decodeObject(data []byte) (*object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransport, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedTransport)
	}
	return &object{m: m}, nil
}

func (o *object) fail(name, want string) {
	if o.err == nil {
		o.err = fmt.Errorf("%w: %q must be %s", ErrMalformedTransport, name, want)
	}
}

func (o *object) string(name string) string {
	s, ok := o.m[name].(string)
	if !ok {
		o.fail(name, "a string")
	}
	return s
}

func (o *object) int(name string) int {
	n, ok := o.m[name].(json.Number)
	if !ok {
		o.fail(name, "an integer")
		return 0
	}
	v, err := n.Int64()
	if err != nil {
		o.fail(name, "an integer")
		return 0
	}
	return int(v)
}

func (o *object) strings(name string) []string {
	raw, ok := o.m[name].([]any)
	if !ok {
		o.fail(name, "an array of strings")
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			o.fail(name, "an array of strings")
			return nil
		}
		out = append(out, s)
	}
	return out
}

// Optional fields fall back to def when absent or of another type.

func (o *object) optionalString(name, def string) string {
	if s, ok := o.m[name].(string); ok {
		return s
	}
	return def
}

func (o *object) optionalBool(name string, def bool) bool {
	if b, ok := o.m[name].(bool); ok {
		return b
	}
	return def
}

func (o *object) optionalTime(name string) (time.Time, bool) {
	n, ok := o.m[name].(json.Number)
	if !ok {
		return time.Time{}, false
	}
	if sec, err := n.Int64(); err == nil {
		return time.Unix(sec, 0).UTC(), true
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return time.Time{}, false
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), true
}
