package jj

import (
	"fmt"
	"strings"
	"time"
)

// Field and record separators used in jj templates. Unit/record separator
// control characters cannot appear in commit descriptions or bookmark names,
// so splitting on them is unambiguous.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// commitTemplate renders one commit per record with all fields jj-stack
// needs. Timestamps use RFC 3339 so they parse with time.RFC3339.
var commitTemplate = strings.Join([]string{
	`commit_id.short()`,
	`change_id.short()`,
	`author.name()`,
	`author.email()`,
	`description.first_line()`,
	`parents.map(|p| p.commit_id().short()).join(",")`,
	`local_bookmarks.map(|b| b.name()).join(",")`,
	`remote_bookmarks.map(|b| b.name() ++ "@" ++ b.remote()).join(",")`,
	`if(current_working_copy, "true", "false")`,
	`author.timestamp().format("%Y-%m-%dT%H:%M:%S%:z")`,
	`committer.timestamp().format("%Y-%m-%dT%H:%M:%S%:z")`,
}, ` ++ "`+fieldSep+`" ++ `) + ` ++ "`+recordSep+`"`

// bookmarkTemplate renders one bookmark ref per record. Remote refs carry
// the remote name in the second field; local refs leave it empty.
var bookmarkTemplate = strings.Join([]string{
	`name`,
	`if(remote, remote, "")`,
	`if(normal_target, normal_target.commit_id().short(), "")`,
	`if(normal_target, normal_target.change_id().short(), "")`,
}, ` ++ "`+fieldSep+`" ++ `) + ` ++ "`+recordSep+`"`

// parseCommits splits templated jj log output into commit records.
func parseCommits(output string) ([]Commit, error) {
	var commits []Commit
	for _, record := range strings.Split(output, recordSep) {
		record = strings.TrimLeft(record, "\r\n")
		if record == "" {
			continue
		}
		commit, err := parseCommitRecord(record)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

func parseCommitRecord(record string) (Commit, error) {
	fields := strings.Split(record, fieldSep)
	if len(fields) != 11 {
		return Commit{}, fmt.Errorf("malformed commit record: expected 11 fields, got %d", len(fields))
	}

	authoredAt, err := time.Parse(time.RFC3339, fields[9])
	if err != nil {
		return Commit{}, fmt.Errorf("failed to parse author timestamp %q: %w", fields[9], err)
	}
	committedAt, err := time.Parse(time.RFC3339, fields[10])
	if err != nil {
		return Commit{}, fmt.Errorf("failed to parse committer timestamp %q: %w", fields[10], err)
	}

	return Commit{
		CommitID:        fields[0],
		ChangeID:        fields[1],
		AuthorName:      fields[2],
		AuthorEmail:     fields[3],
		Description:     fields[4],
		Parents:         splitList(fields[5]),
		LocalBookmarks:  splitList(fields[6]),
		RemoteBookmarks: splitList(fields[7]),
		IsWorkingCopy:   fields[8] == "true",
		AuthoredAt:      authoredAt,
		CommittedAt:     committedAt,
	}, nil
}

// bookmarkRef is one raw ref from jj bookmark list, local or remote.
type bookmarkRef struct {
	Name     string
	Remote   string // empty for local refs
	CommitID string
	ChangeID string
}

func parseBookmarkRefs(output string) ([]bookmarkRef, error) {
	var refs []bookmarkRef
	for _, record := range strings.Split(output, recordSep) {
		record = strings.TrimLeft(record, "\r\n")
		if record == "" {
			continue
		}
		fields := strings.Split(record, fieldSep)
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed bookmark record: expected 4 fields, got %d", len(fields))
		}
		refs = append(refs, bookmarkRef{
			Name:     fields[0],
			Remote:   fields[1],
			CommitID: fields[2],
			ChangeID: fields[3],
		})
	}
	return refs, nil
}

// mergeBookmarkRefs folds local and remote refs into Bookmarks. A bookmark
// has a remote when any remote ref shares its name, and is synced when the
// remote ref points at the same commit.
func mergeBookmarkRefs(refs []bookmarkRef) []Bookmark {
	var bookmarks []Bookmark
	index := make(map[string]int)

	for _, ref := range refs {
		if ref.Remote != "" {
			continue
		}
		if ref.CommitID == "" {
			// Deleted-but-tracked bookmark, nothing to stack on.
			continue
		}
		index[ref.Name] = len(bookmarks)
		bookmarks = append(bookmarks, Bookmark{
			Name:     ref.Name,
			CommitID: ref.CommitID,
			ChangeID: ref.ChangeID,
		})
	}

	for _, ref := range refs {
		if ref.Remote == "" {
			continue
		}
		if i, ok := index[ref.Name]; ok {
			bookmarks[i].HasRemote = true
			bookmarks[i].IsSynced = bookmarks[i].CommitID == ref.CommitID
		}
	}

	return bookmarks
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
