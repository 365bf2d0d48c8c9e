// Package update performs a best-effort check for a newer release.
package update

import (
	"context"
	"io"
	"net/http"
	"strings"

	version "github.com/mcuadros/go-version"
	"github.com/pkg/errors"

	"github.com/tec9x/invitium/internal/httpx"
)

// Version is the running release.
const Version = "1.1.0"

const releaseURL = "https://raw.githubusercontent.com/tec9x/invitium/master/VERSION"

// CheckLatest fetches the published version string and reports whether it
// is newer than current. Purely informational; callers ignore errors.
func CheckLatest(ctx context.Context, client httpx.Doer, current string) (string, bool, error) {
	return checkLatest(ctx, client, releaseURL, current)
}

func checkLatest(ctx context.Context, client httpx.Doer, url, current string) (string, bool, error) {
	req, err := httpx.NewRequest(ctx, http.MethodGet, url, nil, httpx.DefaultUserAgent)
	if err != nil {
		return "", false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", false, errors.Wrap(err, "fetch release version")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, errors.Errorf("release check responded %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", false, err
	}

	latest := strings.TrimSpace(string(raw))
	if latest == "" {
		return "", false, errors.New("empty release version")
	}

	return latest, version.CompareSimple(latest, current) > 0, nil
}
