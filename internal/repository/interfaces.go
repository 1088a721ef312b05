// Package repository abstracts the remote document database behind
// narrow interfaces. The production adapter (convex.go) has no
// secondary index for business keys, so finding a record means scanning
// the full list; that strategy stays an implementation detail here and
// can be swapped for an indexed lookup later.
package repository

import (
	"context"

	"carstock/internal/model"
)

// ProductRepository is the persistence contract for the catalog.
type ProductRepository interface {
	// ListProducts returns every product document.
	ListProducts(ctx context.Context) ([]model.Product, error)
	// FindByBusinessKey resolves a normalized product number to its
	// document, including the internal id needed for mutations.
	// Returns apperr.ErrNotFound when no document matches.
	FindByBusinessKey(ctx context.Context, productNumber string) (model.Product, error)
	// Insert stores a new product document.
	Insert(ctx context.Context, p model.Product) error
	// PatchFields applies a partial update to the document with the
	// given internal id. Only fields present in the patch are touched.
	PatchFields(ctx context.Context, id string, patch model.ProductPatch) error
	// DeleteByID removes the document with the given internal id.
	DeleteByID(ctx context.Context, id string) error
}

// BackupRepository is the persistence contract for the remote backup
// store.
type BackupRepository interface {
	// CreateBackup stores a snapshot payload remotely.
	CreateBackup(ctx context.Context, b model.RemoteBackup) error
	// PruneBackups deletes remote backups beyond the newest keep.
	PruneBackups(ctx context.Context, keep int) error
}

// UserDirectory exposes the remote user list consulted as a login
// fallback when a username is absent from the local users file.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}
