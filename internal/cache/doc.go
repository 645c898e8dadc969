// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package cache provides a thread-safe LRU cache with TTL support.

Tally uses it to keep computed engagement reports keyed by the fingerprint
of the event log they were computed from. Because every metric is a pure
function of the log, a cached report is identical to a recomputed one; the
TTL only bounds memory held by logs that are no longer queried.

# Usage Example

	reports := cache.NewLRUCache[*models.EngagementReport](64, 5*time.Minute)
	reports.Add(log.Fingerprint(), report)
	if r, ok := reports.Get(log.Fingerprint()); ok {
	    // serve r
	}

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
