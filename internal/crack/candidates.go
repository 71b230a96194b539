package crack

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"forgecrack/internal/ports"
	"forgecrack/internal/strfind"
	"forgecrack/internal/wordlists"
)

// CandidateSources selects which of spec §4.10 step 1's candidate
// sources are enabled for a job, and their parameters.
type CandidateSources struct {
	// CommonListSize selects the bundled common-password list by
	// count (10, 100, 1000, ...); 0 disables it.
	CommonListSize int
	// UserWordlist is a FileStore id for an analyst-supplied plain
	// text wordlist, one candidate per line; empty disables it.
	UserWordlist ports.FileID
	// StringsFromScope, when non-nil, extracts printable strings from
	// every file resolved by the given scope (spec step 1c).
	StringsFromScope *ScopeSource
	// TaggedFiles, when true, string-extracts every file tagged with
	// ports.TagName (spec step 1d).
	TaggedFiles bool
}

// ScopeSource parameterizes the "strings from scope" candidate source.
type ScopeSource struct {
	Scope ports.Scope
	Glob  string
}

// ErrNotPlainText is returned when a user wordlist's mime type isn't
// one of the plain-text types the spec requires (step 1b, "reject
// otherwise").
var ErrNotPlainText = errors.New("crack: user wordlist is not plain text")

var plainTextMimes = map[string]bool{
	"text/plain": true,
	"text/csv":   true,
	"":           true, // hosts that don't sniff mime leave this blank
}

// BuildCandidates assembles the deduplicated, ordered candidate set for
// a job from every enabled source (spec §4.10 step 1). Order is
// preserved within and across sources: common list, then user wordlist,
// then scope strings, then tagged-file strings — duplicates (including
// cross-source ones) are dropped at first occurrence.
func BuildCandidates(ctx context.Context, fs ports.FileStore, tags ports.TagStore, src CandidateSources) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if src.CommonListSize > 0 {
		list, err := wordlists.Common(src.CommonListSize)
		if err != nil {
			return nil, errors.Wrap(err, "crack: common wordlist")
		}
		for _, w := range list {
			add(w)
		}
	}

	if src.UserWordlist != "" {
		mime, err := fs.MimeOf(ctx, src.UserWordlist)
		if err != nil {
			return nil, errors.Wrap(err, "crack: user wordlist mime")
		}
		if !plainTextMimes[mime] {
			return nil, ErrNotPlainText
		}
		rc, err := fs.Open(ctx, src.UserWordlist)
		if err != nil {
			return nil, errors.Wrap(err, "crack: open user wordlist")
		}
		if err := scanLines(rc, add); err != nil {
			return nil, err
		}
	}

	if src.StringsFromScope != nil {
		ids, err := fs.FindFiles(ctx, src.StringsFromScope.Scope, src.StringsFromScope.Glob)
		if err != nil {
			return nil, errors.Wrap(err, "crack: find files in scope")
		}
		if err := harvestEach(ctx, fs, ids, add); err != nil {
			return nil, err
		}
	}

	if src.TaggedFiles {
		ids, err := tags.FilesTagged(ctx, ports.TagName)
		if err != nil {
			return nil, errors.Wrap(err, "crack: tagged files")
		}
		if err := harvestEach(ctx, fs, ids, add); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func scanLines(rc io.ReadCloser, add func(string)) error {
	defer rc.Close()
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line != "" {
			add(line)
		}
	}
	return sc.Err()
}

func harvestEach(ctx context.Context, fs ports.FileStore, ids []ports.FileID, add func(string)) error {
	for _, id := range ids {
		rc, err := fs.Open(ctx, id)
		if err != nil {
			continue // a file disappearing mid-scan is not fatal to the job
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		mime, _ := fs.MimeOf(ctx, id)
		for _, s := range strfind.HarvestFile(raw, mime) {
			add(s)
		}
	}
	return nil
}

// SubtractTried removes from candidates every password already recorded
// in the FORGE_TRIED_PASSWORD attribute for objectID (spec §4.10 step
// 2), preserving the remaining order.
func SubtractTried(ctx context.Context, store ports.ArtifactStore, objectID ports.FileID, candidates []string) ([]string, error) {
	raw, ok, err := store.GetAttribute(ctx, objectID, ports.AttrTriedPassword)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return candidates, nil
	}
	tried := make(map[string]struct{})
	for _, p := range strings.Split(raw, ",") {
		tried[p] = struct{}{}
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := tried[c]; !skip {
			out = append(out, c)
		}
	}
	return out, nil
}

// AppendTried records password as tried for objectID, comma-joined with
// whatever was already recorded.
func AppendTried(ctx context.Context, store ports.ArtifactStore, objectID ports.FileID, password string) error {
	return AppendTriedMany(ctx, store, objectID, []string{password})
}

// AppendTriedMany records every password in passwords as tried for
// objectID (spec §3 Lifecycle / §5: the orchestrator persists the full
// tried set, not just a found password, so a re-run via SubtractTried
// never re-tests a candidate this run already exhausted), deduplicating
// against whatever was already recorded.
func AppendTriedMany(ctx context.Context, store ports.ArtifactStore, objectID ports.FileID, passwords []string) error {
	if len(passwords) == 0 {
		return nil
	}
	raw, ok, err := store.GetAttribute(ctx, objectID, ports.AttrTriedPassword)
	if err != nil {
		return err
	}
	tried := make(map[string]struct{})
	var ordered []string
	if ok && raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if _, seen := tried[p]; !seen {
				tried[p] = struct{}{}
				ordered = append(ordered, p)
			}
		}
	}
	for _, p := range passwords {
		if _, seen := tried[p]; !seen {
			tried[p] = struct{}{}
			ordered = append(ordered, p)
		}
	}
	return store.PutAttribute(ctx, objectID, ports.AttrTriedPassword, strings.Join(ordered, ","))
}
