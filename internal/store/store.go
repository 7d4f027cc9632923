// Package store holds the durable participant -> message mapping. A message
// is plain text keyed by the author's name; an absent key reads back as the
// empty string.
package store

// Store is the message persistence contract. Implementations must treat a
// missing key as ("", nil) on Get.
type Store interface {
	Get(name string) (string, error)
	Set(name, message string) error
	All() (map[string]string, error)
}
