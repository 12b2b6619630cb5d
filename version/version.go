// Package version provides unified mechanisms for application version tracking, update discovery, and compatibility validation.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/network"
	"github.com/anisan-cli/mediapool/util"
	"github.com/anisan-cli/mediapool/where"
	"github.com/metafates/gache"
)

// ReleasesURL is the GitHub API endpoint describing the latest release.
const ReleasesURL = "https://api.github.com/repos/anisan-cli/mediapool/releases/latest"

var (
	cacherOnce    sync.Once
	versionCacher *gache.Cache[string]
)

func cacher() *gache.Cache[string] {
	cacherOnce.Do(func() {
		versionCacher = gache.New[string](&gache.Options{
			Path:       where.Version(),
			Lifetime:   time.Hour * 24 * 2,
			FileSystem: &filesystem.GacheFs{},
		})
	})

	return versionCacher
}

// Latest retrieves the most recent stable application version identifier from the remote update registry.
// The result is cached for two days.
func Latest() (version string, err error) {
	ver, expired, err := cacher().Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return
	}

	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status %s", resp.Status)
		return
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	err = json.NewDecoder(resp.Body).Decode(&release)
	if err != nil {
		return
	}

	if release.TagName == "" {
		err = errors.New("empty tag name")
		return
	}

	version = strings.TrimPrefix(release.TagName, "v")
	_ = cacher().Set(version)
	return
}
