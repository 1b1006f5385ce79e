package push

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/pagecraft/pagecraft-cli/internal/api"
)

// Fingerprint returns the content hash the service stores for assets.
// MD5 is fixed by the wire contract, not a local choice.
func Fingerprint(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

// MatchExistingAsset decides whether a local file already exists server-side
// by content hash. It is pure: it only reads the live-theme snapshot fetched
// once at the start of the push. The returned resource is the matching asset
// record; ok is false when no already-uploaded asset has the same relative
// path and fingerprint.
func MatchExistingAsset(live *api.Document, relPath string, content []byte) (api.Resource, bool) {
	if live == nil {
		return api.Resource{}, false
	}

	assetIDs := map[string]bool{}
	for _, ta := range live.IncludedOfType("theme-assets") {
		if ta.Attr("path") != relPath {
			continue
		}
		if id := ta.RelatedID("asset"); id != "" {
			assetIDs[id] = true
		}
	}
	if len(assetIDs) == 0 {
		return api.Resource{}, false
	}

	fingerprint := Fingerprint(content)
	for _, res := range live.Included {
		if !isAssetType(res.Type) || !assetIDs[res.ID] {
			continue
		}
		if res.Attr("fingerprint") == fingerprint {
			return res, true
		}
	}

	return api.Resource{}, false
}

// isAssetType accepts the base assets type and its sub-kinds (asset-images,
// asset-fonts, ...).
func isAssetType(typ string) bool {
	return typ == "assets" || strings.HasPrefix(typ, "asset-")
}
