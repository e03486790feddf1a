// Package cache provides a generic, thread-safe LRU cache.
//
// The HTTP transport keeps live form sessions in it; the evict callback
// closes a form once its session falls out of the cache:
//
//	sessions := cache.NewLRUCache[string, *session](1000)
//	sessions.SetEvictCallback(func(_ string, s *session) {
//		_ = s.form.Close()
//	})
//
// The callback runs outside the cache lock, for capacity evictions as well
// as for Remove and Clear. Replacing a value with Put does not trigger it.
package cache
