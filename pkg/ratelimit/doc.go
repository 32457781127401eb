// Package ratelimit gates outgoing requests against the Helix point budget.
//
// The Helix API grants a fixed number of quota points per time window
// (800 points per minute for a bearer-token client). Every request in the
// current endpoint set costs one point, but costs are modeled explicitly so
// heavier endpoints can be added later.
//
// Available Implementations:
//
// Point Window:
//   - Fixed window with a running point counter that resets when the
//     window elapses
//   - Mirrors how the upstream quota actually behaves
//   - Default implementation used by the client
//
// Sliding Window:
//   - Tracks individual timestamped reservations within a moving window
//   - Smoother limiting over time at the cost of more bookkeeping
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow(cost int) bool - Check and record a reservation if it fits
//   - Reserve(ctx context.Context, cost int) error - Block until reserved
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// 800 points per minute
//	limiter := ratelimit.NewPointWindow(800, time.Minute, nil)
//
//	// Block until a point is available, honoring cancellation
//	if err := limiter.Reserve(ctx, 1); err != nil {
//	    return err
//	}
//	// Proceed with request
//
// A reservation whose cost can never fit in one window is rejected with
// ErrCostExceedsQuota rather than blocking forever.
package ratelimit
