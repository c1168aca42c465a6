// Package media reports which uploaded files are referenced by site content.
package media

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"ceylon-tours-be/internal/logger"

	"go.uber.org/zap"
)

// A ref runs until whitespace, a quote, a query or fragment, or markup brackets.
var uploadRef = regexp.MustCompile(`/uploads/([^\s"'?#()<>\[\]]+)`)

type Report struct {
	Used    []string `json:"used"`
	Unused  []string `json:"unused"`
	Missing []string `json:"missing"`
}

// RefSource yields strings that may reference uploaded files.
type RefSource interface {
	ImageRefs(ctx context.Context) ([]string, error)
}

// uploadName turns a matched URL path into the on-disk name. Trailing
// sentence punctuation is dropped and percent escapes are decoded. A '+'
// is kept as is since it is literal in a path.
func uploadName(raw string) string {
	raw = strings.TrimRight(raw, ".,;:!")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// Scan walks uploadDir and classifies each file by whether any ref points at
// it. Refs pointing at files that do not exist are reported as missing.
func Scan(ctx context.Context, uploadDir string, refs []string) (Report, error) {
	referenced := map[string]bool{}
	for _, ref := range refs {
		for _, m := range uploadRef.FindAllStringSubmatch(ref, -1) {
			referenced[uploadName(m[1])] = true
		}
	}

	files := map[string]bool{}
	err := filepath.WalkDir(uploadDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(uploadDir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = true
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Report{}, err
	}

	report := Report{Used: []string{}, Unused: []string{}, Missing: []string{}}
	for name := range files {
		if referenced[name] {
			report.Used = append(report.Used, name)
		} else {
			report.Unused = append(report.Unused, name)
		}
	}
	for name := range referenced {
		if !files[name] {
			report.Missing = append(report.Missing, name)
		}
	}
	sort.Strings(report.Used)
	sort.Strings(report.Unused)
	sort.Strings(report.Missing)

	logger.FromCtx(ctx).Debug("media scan complete",
		zap.String("dir", uploadDir),
		zap.Int("used", len(report.Used)),
		zap.Int("unused", len(report.Unused)),
		zap.Int("missing", len(report.Missing)),
	)
	return report, nil
}

type Scanner struct {
	dir     string
	sources []RefSource
}

func NewScanner(dir string, sources ...RefSource) *Scanner {
	return &Scanner{dir: dir, sources: sources}
}

func (s *Scanner) Usage(ctx context.Context) (Report, error) {
	var refs []string
	for _, src := range s.sources {
		r, err := src.ImageRefs(ctx)
		if err != nil {
			return Report{}, err
		}
		refs = append(refs, r...)
	}
	return Scan(ctx, s.dir, refs)
}
