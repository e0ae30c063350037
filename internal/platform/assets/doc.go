// Package assets stores the images uploaded with catalog items.
//
// Two backends are provided: a local directory served by the HTTP router,
// and an S3-compatible bucket. Both accept only JPEG, PNG, GIF and WebP
// content, detected from the bytes rather than the filename, and both
// return the public reference that is recorded on the item.
package assets
