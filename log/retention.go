package log

import (
	"os"
	"strings"
	"time"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/where"
)

// Retention is how long daily log files are kept.
const Retention = 7 * 24 * time.Hour

// CollectGarbage removes log files older than Retention.
func CollectGarbage() {
	prune(where.Logs(), time.Now().Add(-Retention))
}

func prune(dir string, before time.Time) {
	fs := filesystem.API()
	_ = fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".log") {
			return nil
		}

		if info.ModTime().Before(before) {
			_ = fs.Remove(path)
		}

		return nil
	})
}
