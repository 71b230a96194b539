// Package wordlists embeds the bundled common-password lists the core
// owns outright (spec.md §6: "The embedded resources the core owns are
// the bundled common-password wordlists, indexed by count"). Embedding
// with //go:embed mirrors how the reference corpus bundles static
// assets (e.g. CodeCracker-oss/Picocrypt-NG's app icon).
package wordlists

import (
	"bufio"
	"embed"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

//go:embed data/top10.txt data/top100.txt data/top1000.txt
var data embed.FS

// files maps each bundled list's nominal size to its path; Common sorts
// the sizes and picks the smallest bundled list whose count is >= the
// requested size.
var files = map[int]string{
	10:   "data/top10.txt",
	100:  "data/top100.txt",
	1000: "data/top1000.txt",
}

// ErrNoList is returned when no bundled list covers the requested size.
var ErrNoList = errors.New("wordlists: no bundled list for requested size")

// Common returns the bundled common-password list with at least `size`
// entries (the smallest list whose count covers it), in rank order.
func Common(size int) ([]string, error) {
	sizes := make([]int, 0, len(files))
	for s := range files {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)

	for _, s := range sizes {
		if s >= size {
			return readLines(files[s])
		}
	}
	return nil, ErrNoList
}

func readLines(path string) ([]string, error) {
	f, err := data.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "wordlists: open %s", path)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
