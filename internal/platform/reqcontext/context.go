// Package reqcontext holds the small set of request-scoped values the
// middleware stack populates and handlers/logging read back out.
package reqcontext

import "context"

type contextKey string

var (
	requestIDKey = contextKey("request_id")
	methodKey    = contextKey("method")
	routeKey     = contextKey("route")
	remoteIPKey  = contextKey("remote_ip")
)

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func SetMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, methodKey, method)
}

func GetMethod(ctx context.Context) string {
	v, _ := ctx.Value(methodKey).(string)
	return v
}

func SetRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey, route)
}

func GetRoute(ctx context.Context) string {
	v, _ := ctx.Value(routeKey).(string)
	return v
}

func SetRemoteIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, remoteIPKey, ip)
}

func GetRemoteIP(ctx context.Context) string {
	v, _ := ctx.Value(remoteIPKey).(string)
	return v
}
