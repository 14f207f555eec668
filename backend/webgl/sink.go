//go:build js && wasm

package webgl

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"
)

// DefaultElementID is the id of the element ElementSink writes to when ID
// is empty.
const DefaultElementID = "fingerprint"

// ErrElementNotFound is returned when the target element does not exist.
var ErrElementNotFound = errors.New("webgl: element not found")

// ElementSink sets the text content of a page element to the fingerprint.
type ElementSink struct {
	ID string
}

// Emit writes fingerprint into the element.
func (s ElementSink) Emit(_ context.Context, fingerprint string) error {
	id := s.ID
	if id == "" {
		id = DefaultElementID
	}
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return fmt.Errorf("%w: #%s (no document)", ErrElementNotFound, id)
	}
	el := doc.Call("getElementById", id)
	if !el.Truthy() {
		return fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	el.Set("textContent", fingerprint)
	return nil
}
