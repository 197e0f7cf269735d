// Package resource implements the Controller for limits shared by filter
// loading and caching.
//
// The Controller manages three resource types:
//
//   - Memory: bytes held by cached filter blocks (non-blocking, fail-fast)
//   - Workers: concurrent background loads such as store warm-up
//   - IO: bytes read from blob storage by background loads (token bucket)
//
// # Memory
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//
//	if !rc.TryAcquireMemory(int64(len(block))) {
//	    // over budget, do not cache
//	}
//	defer rc.ReleaseMemory(int64(len(block)))
//
// # Workers and IO
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
//	if err := rc.AcquireIO(ctx, size); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
