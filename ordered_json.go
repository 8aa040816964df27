package networth

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedObject builds a JSON object whose keys keep their insertion order,
// so that persisted transactions read the same way they are written.
// The zero value is an empty object.
type orderedObject struct {
	buf bytes.Buffer
	err error
}

// Field appends key with its JSON encoded value.
func (o *orderedObject) Field(key string, value any) *orderedObject {
	if o.err != nil {
		return o
	}
	raw, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("cannot encode field %q: %w", key, err)
		return o
	}
	if o.buf.Len() > 0 {
		o.buf.WriteByte(',')
	}
	fmt.Fprintf(&o.buf, "%q:", key)
	o.buf.Write(raw)
	return o
}

// FieldIf appends key only when cond holds.
func (o *orderedObject) FieldIf(cond bool, key string, value any) *orderedObject {
	if !cond {
		return o
	}
	return o.Field(key, value)
}

// MarshalJSON returns the object, or the first encoding error.
func (o *orderedObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := make([]byte, 0, o.buf.Len()+2)
	out = append(out, '{')
	out = append(out, o.buf.Bytes()...)
	return append(out, '}'), nil
}
