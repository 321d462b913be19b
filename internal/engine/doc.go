// Package engine contains the pet's game loop and simulation logic.
//
// One goroutine (Engine.Run) owns the vital state and drains a task queue.
// Timers, the configuration fetch and user actions only enqueue tasks, so
// tick, feed, play and settle never interleave mid-task.
package engine
