package middleware

import "context"

type contextKey string

const (
	ctxShop      contextKey = "shop"
	ctxCallerRef contextKey = "caller_ref"
	ctxLoggedIn  contextKey = "logged_in"
)

func ShopFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxShop).(string); ok {
		return v
	}
	return ""
}

func CallerRefFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCallerRef).(string); ok {
		return v
	}
	return ""
}

func LoggedInFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxLoggedIn).(bool); ok {
		return v
	}
	return false
}

// WithShop injects the tenant shop domain into the context.
func WithShop(ctx context.Context, shop string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxShop, shop)
}

// WithCallerRef injects the caller identity bucket for downstream handlers.
func WithCallerRef(ctx context.Context, callerRef string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCallerRef, callerRef)
}

func WithLoggedIn(ctx context.Context, loggedIn bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLoggedIn, loggedIn)
}
