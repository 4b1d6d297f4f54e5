// Package watch reruns work when source files change on disk.
package watch

import "time"

// pollInterval paces the event loop while no events are pending.
const pollInterval = 50 * time.Millisecond
