package glprint

// Option configures a Generator.
//
// Example:
//
//	g := glprint.New(host, glprint.WithReadback(func(rb glprint.Readback) {
//	    _ = pixels.Encode(f, "png", rb.Width, rb.Height, rb.Pixels)
//	}))
type Option func(*options)

type options struct {
	digester Digester
	readback func(Readback)
}

func defaultOptions() options {
	return options{
		digester: SHA256,
	}
}

// WithDigester replaces the SHA-256 digester, for example with the browser's
// crypto.subtle implementation. A nil digester keeps the default.
func WithDigester(d Digester) Option {
	return func(o *options) {
		if d != nil {
			o.digester = d
		}
	}
}

// WithReadback registers fn to observe the pixel buffer before it is hashed.
// fn must not retain or modify rb.Pixels.
func WithReadback(fn func(rb Readback)) Option {
	return func(o *options) {
		o.readback = fn
	}
}
