package binding

import "context"

// Wrap0 returns fn with its result cached under id.
func Wrap0[T any](r *Registry, id OperationID, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return Invoke(ctx, r, id, nil, fn)
	}
}

// Wrap1 returns fn with its results cached under id.
func Wrap1[A, T any](r *Registry, id OperationID, fn func(context.Context, A) (T, error)) func(context.Context, A) (T, error) {
	return func(ctx context.Context, a A) (T, error) {
		return Invoke(ctx, r, id, []any{a}, func(ctx context.Context) (T, error) {
			return fn(ctx, a)
		})
	}
}

// Wrap2 returns fn with its results cached under id.
func Wrap2[A, B, T any](r *Registry, id OperationID, fn func(context.Context, A, B) (T, error)) func(context.Context, A, B) (T, error) {
	return func(ctx context.Context, a A, b B) (T, error) {
		return Invoke(ctx, r, id, []any{a, b}, func(ctx context.Context) (T, error) {
			return fn(ctx, a, b)
		})
	}
}

// Wrap3 returns fn with its results cached under id.
func Wrap3[A, B, C, T any](r *Registry, id OperationID, fn func(context.Context, A, B, C) (T, error)) func(context.Context, A, B, C) (T, error) {
	return func(ctx context.Context, a A, b B, c C) (T, error) {
		return Invoke(ctx, r, id, []any{a, b, c}, func(ctx context.Context) (T, error) {
			return fn(ctx, a, b, c)
		})
	}
}

// Wrap4 returns fn with its results cached under id.
func Wrap4[A, B, C, D, T any](r *Registry, id OperationID, fn func(context.Context, A, B, C, D) (T, error)) func(context.Context, A, B, C, D) (T, error) {
	return func(ctx context.Context, a A, b B, c C, d D) (T, error) {
		return Invoke(ctx, r, id, []any{a, b, c, d}, func(ctx context.Context) (T, error) {
			return fn(ctx, a, b, c, d)
		})
	}
}
