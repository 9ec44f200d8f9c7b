package middleware

import (
	"context"

	"go-pm/pkg/utils"
)

type claimsKey struct{}

// WithClaims stores the caller on a context so services can attribute changes.
func WithClaims(ctx context.Context, claims *utils.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the caller stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*utils.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*utils.UserClaims)
	return claims, ok && claims != nil
}
