package roster

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
)

// IdenticalGroup is a set of submissions with byte-identical workbooks,
// typically one file uploaded under several student ids.
type IdenticalGroup struct {
	SHA256     string   `json:"sha256"`
	Size       int64    `json:"size"`
	StudentIDs []string `json:"studentIds"`
	Paths      []string `json:"paths"`
}

// FindIdentical hashes every submission and returns the groups of two or
// more identical files, ordered by their first student id. Files that
// cannot be read are left out.
func FindIdentical(subs []Submission) []IdenticalGroup {
	bySize := make(map[int64][]Submission)
	for _, s := range subs {
		bySize[s.Size] = append(bySize[s.Size], s)
	}

	groups := make(map[string]*IdenticalGroup)
	for size, same := range bySize {
		if len(same) < 2 {
			continue
		}
		for _, s := range same {
			sum, err := hashFile(s.Path)
			if err != nil {
				continue
			}
			g, ok := groups[sum]
			if !ok {
				g = &IdenticalGroup{SHA256: sum, Size: size}
				groups[sum] = g
			}
			g.StudentIDs = append(g.StudentIDs, s.StudentID)
			g.Paths = append(g.Paths, s.Path)
		}
	}

	var out []IdenticalGroup
	for _, g := range groups {
		if len(g.Paths) > 1 {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentIDs[0] < out[j].StudentIDs[0] })
	return out
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("could not hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
