// Package events carries catalog change notifications from the item service
// to interested components without coupling them to each other. Handlers are
// registered on an emitter at startup and invoked synchronously.
package events
