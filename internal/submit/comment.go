package submit

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	manifestVersion = 1
	manifestPrefix  = "<!--- JJ-STACK_INFO: "
	manifestSuffix  = " --->"

	// commentFooter identifies jj-stack's managed comment among others when
	// re-reading a PR's comments.
	commentFooter = "_This stack overview is maintained by jj-stack; manual edits will be overwritten._"
)

// ManifestEntry is one PR in the stack comment manifest.
type ManifestEntry struct {
	BookmarkName string `json:"bookmarkName"`
	PRURL        string `json:"prUrl"`
	PRNumber     int    `json:"prNumber"`
}

// Manifest records the full visible stack lineage, including ancestors
// whose PRs have already merged, so reviewers can navigate the whole chain
// from any PR.
type Manifest struct {
	Version int             `json:"version"`
	Stack   []ManifestEntry `json:"stack"`
}

// encodeManifestLine renders the machine-readable first line of the stack
// comment: base64-encoded JSON wrapped in an HTML comment.
func encodeManifestLine(m Manifest) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal stack manifest: %w", err)
	}
	return manifestPrefix + base64.StdEncoding.EncodeToString(data) + manifestSuffix, nil
}

// decodeManifest recovers a manifest from a comment body. Returns false if
// the body carries no manifest line or the payload does not decode.
func decodeManifest(body string) (Manifest, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, manifestPrefix) || !strings.HasSuffix(line, manifestSuffix) {
			continue
		}
		encoded := strings.TrimSuffix(strings.TrimPrefix(line, manifestPrefix), manifestSuffix)
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return Manifest{}, false
		}
		var m Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return Manifest{}, false
		}
		return m, true
	}
	return Manifest{}, false
}

// isStackComment reports whether a comment body is jj-stack's managed stack
// comment.
func isStackComment(body string) bool {
	return strings.Contains(body, manifestPrefix) || strings.Contains(body, commentFooter)
}

// renderStackComment builds the full comment body for one PR: the manifest
// line, a numbered base-to-tip listing with the current PR marked, and the
// identifying footer.
func renderStackComment(m Manifest, currentPRNumber int) (string, error) {
	manifestLine, err := encodeManifestLine(m)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(manifestLine)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("### Stacked pull requests (%d)\n\n", len(m.Stack)))

	for i, entry := range m.Stack {
		line := fmt.Sprintf("%d. [%s](%s)", i+1, entry.BookmarkName, entry.PRURL)
		if entry.PRNumber == currentPRNumber {
			line += " ← **you are here**"
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\nReview from the bottom of the list up for full context.\n\n")
	sb.WriteString(commentFooter + "\n")
	return sb.String(), nil
}
