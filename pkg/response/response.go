// Package response classifies raw response bodies into empty, single item, or list results.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/items-fetcher/pkg/executor"
)

// Kind tags the shape of a classified payload.
type Kind int

const (
	KindEmpty Kind = iota
	KindItem
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindItem:
		return "item"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Data is a decoded payload. Only the field matching Kind is meaningful.
// Dropped counts list members that could not be decoded as T.
type Data[T any] struct {
	Kind    Kind
	Item    T
	List    []T
	Dropped int
}

// Empty returns the empty result.
func Empty[T any]() Data[T] { return Data[T]{Kind: KindEmpty} }

// Single wraps one decoded value.
func Single[T any](v T) Data[T] { return Data[T]{Kind: KindItem, Item: v} }

// List wraps decoded list members.
func List[T any](vs []T, dropped int) Data[T] {
	return Data[T]{Kind: KindList, List: vs, Dropped: dropped}
}

// EmptyStater is implemented by types with a canonical empty instance.
type EmptyStater interface {
	IsEmpty() bool
}

// DecodeError reports a body that is not valid JSON for the expected shape.
type DecodeError struct {
	Shape string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Shape, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsArray reports whether body is a JSON array by its first non-space character.
func IsArray(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), "[")
}

// Classify decodes body as empty, a list of T, or a single T.
// List members that are null or do not decode as T are dropped and counted.
func Classify[T any](body string) (Data[T], error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || trimmed == "null" {
		return Empty[T](), nil
	}

	if IsArray(trimmed) {
		var raw []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return Data[T]{}, &DecodeError{Shape: "array", Err: err}
		}
		out := make([]T, 0, len(raw))
		dropped := 0
		for _, elem := range raw {
			if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
				dropped++
				continue
			}
			var v T
			if err := json.Unmarshal(elem, &v); err != nil {
				dropped++
				continue
			}
			out = append(out, v)
		}
		return List(out, dropped), nil
	}

	var v T
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return Data[T]{}, &DecodeError{Shape: "object", Err: err}
	}
	return Single(v), nil
}

// FromEmpty maps an empty body onto sentinel: a sentinel equal to its type's
// canonical empty instance yields Empty, anything else is delivered as the item.
func FromEmpty[T EmptyStater](sentinel T) Data[T] {
	if sentinel.IsEmpty() {
		return Empty[T]()
	}
	return Single(sentinel)
}

// FromResponseItem classifies a successful executor outcome.
func FromResponseItem[T EmptyStater](item executor.ResponseItem, sentinel T) (Data[T], error) {
	switch v := item.(type) {
	case executor.StringResponse:
		return Classify[T](v.Body)
	case executor.EmptyResponse:
		return FromEmpty(sentinel), nil
	default:
		return Data[T]{}, fmt.Errorf("unsupported response item %T", item)
	}
}
