//go:build js && wasm

package webgl

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/gogpu/glprint"
)

// ErrNoSubtleCrypto is returned by SubtleDigester outside a secure
// context, where crypto.subtle is undefined.
var ErrNoSubtleCrypto = errors.New("webgl: crypto.subtle not available")

// SubtleDigester hashes with crypto.subtle.digest("SHA-256"). It produces
// the same digest as glprint.SHA256.
type SubtleDigester struct{}

var _ glprint.Digester = SubtleDigester{}

// Digest awaits the browser digest of data.
func (SubtleDigester) Digest(ctx context.Context, data []byte) ([]byte, error) {
	subtle := js.Global().Get("crypto")
	if subtle.Truthy() {
		subtle = subtle.Get("subtle")
	}
	if !subtle.Truthy() {
		return nil, ErrNoSubtleCrypto
	}

	buf := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(buf, data)

	result, err := await(ctx, subtle.Call("digest", "SHA-256", buf))
	if err != nil {
		return nil, fmt.Errorf("webgl: subtle digest: %w", err)
	}
	sum := js.Global().Get("Uint8Array").New(result)
	out := make([]byte, sum.Length())
	js.CopyBytesToGo(out, sum)
	return out, nil
}

// await blocks until promise settles or ctx is done. The Go scheduler
// yields to the JS event loop while waiting.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type settled struct {
		value js.Value
		err   error
	}
	done := make(chan settled, 1)

	onResolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		done <- settled{value: arg0(args)}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		done <- settled{err: fmt.Errorf("promise rejected: %s", jsError(arg0(args)))}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)
	select {
	case s := <-done:
		return s.value, s.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}

func arg0(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

func jsError(v js.Value) string {
	if v.Type() == js.TypeObject {
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			return msg.String()
		}
	}
	return v.String()
}
