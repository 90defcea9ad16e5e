package auth

import (
	"context"

	"github.com/google/uuid"
)

type athleteIDKey struct{}

func WithAthleteID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, athleteIDKey{}, id)
}

// AthleteIDFromContext returns the subject the auth middleware resolved for
// the request.
func AthleteIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(athleteIDKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
