package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/core/note"
)

// StorageCheck verifies the data directory and that the store can be read.
type StorageCheck struct {
	cfg    *config.Config
	lister note.Lister
}

// NewStorageCheck creates a storage check. lister may be nil when the store
// failed to open.
func NewStorageCheck(cfg *config.Config, lister note.Lister) *StorageCheck {
	return &StorageCheck{cfg: cfg, lister: lister}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	result.Items = append(result.Items, c.dataDir(), CheckItem{
		Label:  "backend",
		Status: StatusPass,
		Detail: c.cfg.Storage.Backend,
	})

	if c.lister == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "notes",
			Status: StatusFail,
			Detail: "store is not open",
		})
		return result
	}

	notes, err := c.lister.List(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "notes",
			Status: StatusFail,
			Detail: fmt.Sprintf("cannot list: %v", err),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "notes",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d stored", len(notes)),
	})
	return result
}

func (c *StorageCheck) dataDir() CheckItem {
	info, err := os.Stat(c.cfg.DataDir)
	switch {
	case os.IsNotExist(err):
		return CheckItem{Label: "data_dir", Status: StatusWarn, Detail: "directory does not exist yet"}
	case err != nil:
		return CheckItem{Label: "data_dir", Status: StatusFail, Detail: fmt.Sprintf("inaccessible: %v", err)}
	case !info.IsDir():
		return CheckItem{Label: "data_dir", Status: StatusFail, Detail: "path is not a directory"}
	default:
		return CheckItem{Label: "data_dir", Status: StatusPass, Detail: c.cfg.DataDir}
	}
}
