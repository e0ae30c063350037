// Package domain contains the core business entities of the marketplace:
// accounts and the items they list. Entities validate themselves and are
// independent of any specific storage or delivery mechanism.
package domain
