// Package gc reconciles the keys in a bucket against the keys a corpus
// references and deletes the unreferenced ones after operator approval.
package gc

import "context"

// Lister returns one page of bucket keys. token is "" for the first page;
// next is "" when there are no more pages.
type Lister interface {
	ListPage(ctx context.Context, token string) (keys []string, next string, err error)
}

type Deleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// Store is what a sweep needs from the object store.
type Store interface {
	Lister
	Deleter
	Bucket() string
}
