// Package blob re-exports the blob storage contract and selects a backend
// driver. Call sites depend on blob.Store; only this package touches the
// driver implementations.
package blob

import (
	"context"
	"fmt"
	"os"

	"github.com/sformel/mob-sample-data/internal/blob/core"
	"github.com/sformel/mob-sample-data/internal/blob/fs"
	"github.com/sformel/mob-sample-data/internal/blob/memory"
	"github.com/sformel/mob-sample-data/internal/blob/s3"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface all blob backends implement.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrUnsupported indicates an operation isn't supported by a driver.
var ErrUnsupported = core.ErrUnsupported

// NewFilesystem constructs a filesystem-backed store rooted at the given path.
func NewFilesystem(root string) (Store, error) { return fs.New(root) }

// NewMemory returns an in-memory store suitable for tests.
func NewMemory() Store { return memory.New() }

// Open selects a blob store implementation from environment variables.
//
//	MOBDATA_BLOB_DRIVER: fs|s3|memory (default fs)
//	MOBDATA_BLOB_FS_ROOT: directory root when driver=fs (default ./outputs)
//	(S3 variables documented in the s3 driver package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("MOBDATA_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("MOBDATA_BLOB_FS_ROOT"))
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
