package version

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mod/semver"

	"github.com/kakkky/csole/config"
	"github.com/kakkky/csole/errs"
)

// VERSION は現在のcsoleのバージョンを表す
const VERSION = "v0.3.0"

const (
	releasesURL   = "https://api.github.com/repos/kakkky/csole/releases/latest"
	cacheFileName = "version.json"
	cacheTTL      = 24 * time.Hour
)

// PrintVersion は現在のcsoleのバージョンを表示する
func PrintVersion(w io.Writer) {
	fmt.Fprintln(w, "csole "+VERSION)
}

type relesasesInfoResponse struct {
	LatestVersion string `json:"tag_name"`
}

type latestVersionCache struct {
	LastChecked   time.Time `json:"last_checked"`
	LatestVersion string    `json:"latest_version"`
}

// Checker は最新バージョンを問い合わせ、結果を1日キャッシュする
type Checker struct {
	url       string
	cachePath string
	client    *http.Client
	now       func() time.Time
}

// NewChecker は設定ディレクトリにキャッシュを置くCheckerを生成する
func NewChecker() (*Checker, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return &Checker{
		url:       releasesURL,
		cachePath: filepath.Join(dir, cacheFileName),
		client:    &http.Client{Timeout: 3 * time.Second},
		now:       time.Now,
	}, nil
}

// IsLatestVersion は現在のcsoleのバージョンが最新かどうかを判定する
func IsLatestVersion() (bool, string, error) {
	c, err := NewChecker()
	if err != nil {
		return false, "", err
	}
	return c.IsLatestVersion()
}

// IsLatestVersion は現在のバージョンが最新かどうかと、最新のバージョンを返す
func (c *Checker) IsLatestVersion() (bool, string, error) {
	cache, err := c.readCache()
	if err != nil {
		return false, "", err
	}
	// キャッシュが有効であれば、キャッシュにあるlatest_versionと比較する
	if cache != nil && c.now().Sub(cache.LastChecked) < cacheTTL {
		return isLatest(cache.LatestVersion), cache.LatestVersion, nil
	}
	latestVersion, err := c.fetchLatestVersion()
	if err != nil {
		return false, "", err
	}
	if err := c.writeCache(latestVersion); err != nil {
		return false, "", err
	}
	return isLatest(latestVersion), latestVersion, nil
}

// isLatest はリリースされたバージョンが現在のものより新しくなければtrueを返す。
// 解釈できないタグは無視する
func isLatest(latestVersion string) bool {
	if !semver.IsValid(latestVersion) {
		return true
	}
	return semver.Compare(latestVersion, VERSION) <= 0
}

// readCache はキャッシュを読む。ファイルがなければnilを返す
func (c *Checker) readCache() (*latestVersionCache, error) {
	cacheFile, err := os.ReadFile(c.cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.NewInternalError("failed to read version cache").Wrap(err)
	}
	var cache latestVersionCache
	if err := json.Unmarshal(cacheFile, &cache); err != nil {
		// 壊れたキャッシュは作り直す
		return nil, nil
	}
	return &cache, nil
}

func (c *Checker) writeCache(latestVersion string) error {
	cache := latestVersionCache{
		LastChecked:   c.now(),
		LatestVersion: latestVersion,
	}
	data, err := json.MarshalIndent(cache, "", "    ")
	if err != nil {
		return errs.NewInternalError("failed to marshal version cache").Wrap(err)
	}
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0755); err != nil {
		return errs.NewInternalError("failed to create csole config directory").Wrap(err)
	}
	if err := os.WriteFile(c.cachePath, data, 0644); err != nil {
		return errs.NewInternalError("failed to write version cache").Wrap(err)
	}
	return nil
}

func (c *Checker) fetchLatestVersion() (string, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return "", errs.NewInternalError("failed to fetch latest release").Wrap(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			errs.HandleError(err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", errs.NewInternalError(fmt.Sprintf("failed to fetch latest release: %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewInternalError("failed to read response body").Wrap(err)
	}
	var releasesInfo relesasesInfoResponse
	if err := json.Unmarshal(body, &releasesInfo); err != nil {
		return "", errs.NewInternalError("failed to unmarshal response body").Wrap(err)
	}
	return releasesInfo.LatestVersion, nil
}

// PrintNoteLatestVersion は最新バージョンが存在する場合の通知を表示する
func PrintNoteLatestVersion(w io.Writer, latestVersion string) {
	fmt.Fprintf(w, "note: csole %s is available (you have %s)\n", latestVersion, VERSION)
	fmt.Fprintln(w, "      go install github.com/kakkky/csole/cmd/csole@latest")
}
