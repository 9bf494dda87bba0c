package kit

import "context"

type ctxKey int

const (
	transportKey ctxKey = iota
	requestIDKey
)

// TransportCLI marks calls made by a greenmeds subcommand. Calls with no
// transport recorded are assumed to come from the command line.
const TransportCLI = "cli"

// WithTransport records which front end (TransportCLI, TransportMCP) issued
// the call, for the request log.
func WithTransport(ctx context.Context, transport string) context.Context {
	return context.WithValue(ctx, transportKey, transport)
}

// GetTransport reports the front end recorded by WithTransport.
func GetTransport(ctx context.Context) string {
	if t, ok := ctx.Value(transportKey).(string); ok && t != "" {
		return t
	}
	return TransportCLI
}

// WithRequestID tags the call so it can be followed through the log.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the tag set by WithRequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
