package contextutil

import "context"

const userEmailKey contextKey = "user_email"

// WithUserEmail stores the caller's email in the context. Identity is
// advisory: it drives filtering and attribution, not access control.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// UserEmailFromContext extracts the caller's email from context, or empty
// when no identity was presented.
func UserEmailFromContext(ctx context.Context) string {
	if v := ctx.Value(userEmailKey); v != nil {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
