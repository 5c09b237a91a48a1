package artifact

import (
	"fmt"
	"strings"

	"github.com/viant/queryc/ir"
)

// signingPlaceholder is the marker written in place of a real signature
// while the artifact body is being assembled; Sign replaces its first
// occurrence with the hash of the body that has the placeholder itself
// blanked out, so the token commits to everything else in the file
// (spec.md §6: "the signing token is replaced by a deterministic hash of
// the file body, producing a self-verifying marker").
const signingPlaceholder = "@generated SignedSource<<SIGN>>"

const signedPrefix = "@generated SignedSource<<"
const signedSuffix = ">>"

// Sign computes the signing token over body with the placeholder blanked
// and substitutes it back in, returning the final, self-verifying file
// text.
func Sign(body string) string {
	blanked := strings.Replace(body, signingPlaceholder, blankedMarker(), 1)
	sum := ir.SourceHash(blanked)
	token := signedPrefix + sum + signedSuffix
	return strings.Replace(body, signingPlaceholder, token, 1)
}

// Verify reports whether content's embedded signing token recomputes to
// itself under the signing hash (spec.md §8 invariant 7). It is the
// self-check downstream tools run before trusting a generated file.
func Verify(content string) bool {
	start := strings.Index(content, signedPrefix)
	if start < 0 {
		return false
	}
	end := strings.Index(content[start:], signedSuffix)
	if end < 0 {
		return false
	}
	end += start
	token := content[start : end+len(signedSuffix)]
	claimedSum := content[start+len(signedPrefix) : end]

	blanked := content[:start] + blankedMarker() + content[end+len(signedSuffix):]
	actualSum := ir.SourceHash(blanked)

	return token == signedPrefix+claimedSum+signedSuffix && claimedSum == actualSum
}

func blankedMarker() string {
	return fmt.Sprintf("%s%s%s", signedPrefix, strings.Repeat("0", 32), signedSuffix)
}
