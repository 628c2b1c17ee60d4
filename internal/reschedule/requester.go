package reschedule

import "context"

type requesterKey struct{}

// WithRequester tags ctx with the user a reschedule is made for.
func WithRequester(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, requesterKey{}, userID)
}

func Requester(ctx context.Context) string {
	userID, _ := ctx.Value(requesterKey{}).(string)
	return userID
}
