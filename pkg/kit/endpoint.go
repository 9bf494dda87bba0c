// Package kit carries the plumbing shared by the greenmeds command line and
// its MCP tools: a medicine lookup is written once as an Endpoint and every
// front end calls that same function through the same middleware.
package kit

import "context"

// Endpoint runs one GreenMeds action (lookup, batch, list, score). The
// request and response are the api package's typed structs.
type Endpoint func(ctx context.Context, request any) (response any, err error)

// Middleware decorates an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain stacks middlewares around an endpoint. The first argument runs first
// on the way in and last on the way out.
func Chain(first Middleware, rest ...Middleware) Middleware {
	return func(ep Endpoint) Endpoint {
		for i := len(rest) - 1; i >= 0; i-- {
			ep = rest[i](ep)
		}
		return first(ep)
	}
}
