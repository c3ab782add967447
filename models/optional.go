package models

import (
	"bytes"
	"encoding/json"
)

// Optional hält einen JSON-Wert und merkt sich, ob der Key überhaupt gesendet wurde
// und ob er explizit null war.
type Optional[T any] struct {
	Value   T
	Present bool
	Null    bool
}

// Some erzeugt einen gesetzten Wert.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// Get liefert den Wert, wenn der Key gesendet wurde und nicht null ist.
func (o Optional[T]) Get() (T, bool) {
	if !o.Present || o.Null {
		var zero T
		return zero, false
	}
	return o.Value, true
}

// UnmarshalJSON wird von encoding/json nur für vorhandene Keys aufgerufen, auch bei null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
