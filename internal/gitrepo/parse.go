package gitrepo

import (
	"strconv"
	"strings"
	"time"
)

// ParseLog parses the output of git log with the record-separated pretty
// format used by LocalClient.Log. Each record is:
//
//	\x1e hash \x1f author \x1f email \x1f unix-ts \x1f body \x1f [numstat lines]
//
// Numstat lines are "added<TAB>deleted<TAB>path"; binary files report "-"
// for both counters and still count as a changed file.
func ParseLog(output string) ([]Commit, error) {
	var commits []Commit

	for _, record := range strings.Split(output, "\x1e") {
		if strings.TrimSpace(record) == "" {
			continue
		}
		parts := strings.SplitN(record, "\x1f", 6)
		if len(parts) != 6 {
			continue // malformed record
		}

		ts, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
		if err != nil {
			continue
		}

		commit := Commit{
			Hash:    parts[0],
			Author:  parts[1],
			Email:   parts[2],
			When:    time.Unix(ts, 0),
			Message: strings.TrimRight(parts[4], "\n"),
		}

		for _, line := range strings.Split(parts[5], "\n") {
			fields := strings.Split(line, "\t")
			if len(fields) < 3 {
				continue
			}
			commit.FilesChanged++
			if added, err := strconv.Atoi(fields[0]); err == nil {
				commit.LinesAdded += added
			}
			if deleted, err := strconv.Atoi(fields[1]); err == nil {
				commit.LinesDeleted += deleted
			}
		}

		commits = append(commits, commit)
	}

	return commits, nil
}
