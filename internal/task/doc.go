// Package task runs background work off the request path: a bounded
// in-memory queue, a pool of workers that drains it, and the tasks the
// catalog schedules, such as removing the stored image of a deleted item.
package task
