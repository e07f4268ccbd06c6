package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// Apply writes every always-safe fix carried by diagnostics back to disk.
// Fixes overlapping an earlier one, or whose OldText no longer matches, are
// skipped; so are fixes for virtual files.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	applied, skipped, changes, err := applyCandidates(fs, candidates)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = append(result.FileChanges, changes...)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates keeps the always-safe fixes that have edits. Every
// candidate gets a synthesized ID (code-file-start-index) and a monotonically
// increasing order for stable sorting.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			switch {
			case len(f.Edits) == 0:
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			case f.Applicability != diag.FixAlwaysSafe:
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: fmt.Sprintf("applicability is %s", f.Applicability)})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, id: id, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, span start, span end, then insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func applyCandidates(fs *source.FileSet, selected []candidate) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.TextEdit)
	fileEditCount := make(map[source.FileID]int)

	var (
		applied []AppliedFix
		skipped []SkippedFix
	)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		buckets := groupEditsByFile(cand.fix.Edits)
		staged := make(map[source.FileID][]byte)
		stagedApplied := make(map[source.FileID][]diag.TextEdit)
		totalEdits := 0
		var skipReason string

		for fileID, edits := range buckets {
			file := fs.Get(fileID)
			if file.Flags&source.FileVirtual != 0 {
				skipReason = "target file is virtual"
				break
			}
			if conflictsWithExisting(appliedEdits[fileID], edits) {
				skipReason = fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", baseDir))
				break
			}

			working := buffers[fileID]
			if working == nil {
				working = append([]byte(nil), file.Content...)
			} else {
				working = append([]byte(nil), working...)
			}

			// с конца к началу: смещения ещё не применённых правок не сдвигаются
			sort.SliceStable(edits, func(i, j int) bool {
				return edits[i].Span.Start > edits[j].Span.Start
			})
			existing := append([]diag.TextEdit(nil), appliedEdits[fileID]...)
			for _, edit := range edits {
				start := int(edit.Span.Start) + cumulativeDelta(existing, int(edit.Span.Start))
				end := int(edit.Span.End) + cumulativeDelta(existing, int(edit.Span.End))
				if start < 0 || end < start || end > len(working) {
					skipReason = "edit span out of range"
					break
				}
				if edit.OldText != "" && string(working[start:end]) != edit.OldText {
					skipReason = "existing text does not match expected content"
					break
				}
				suffix := append([]byte(nil), working[end:]...)
				working = append(append(working[:start], edit.NewText...), suffix...)
				existing = insertEditSorted(existing, edit)
			}
			if skipReason != "" {
				break
			}
			staged[fileID] = working
			stagedApplied[fileID] = existing
			totalEdits += len(edits)
		}

		if skipReason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: skipReason})
			continue
		}
		for fileID, buf := range staged {
			buffers[fileID] = buf
			fileEditCount[fileID] += len(stagedApplied[fileID]) - len(appliedEdits[fileID])
			appliedEdits[fileID] = stagedApplied[fileID]
		}
		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: fs.Get(cand.diag.Primary.File).FormatPath("auto", baseDir),
			EditCount:   totalEdits,
		})
	}

	if len(applied) == 0 {
		return applied, skipped, nil, nil
	}

	fileChanges := make([]FileChange, 0, len(buffers))
	for fileID, buf := range buffers {
		file := fs.Get(fileID)
		mode := os.FileMode(0o644)
		if info, err := os.Stat(file.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(file.Path, buf, mode); err != nil {
			return applied, skipped, fileChanges, fmt.Errorf("write %s: %w", file.Path, err)
		}
		fileChanges = append(fileChanges, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			EditCount: fileEditCount[fileID],
		})
	}
	sort.SliceStable(fileChanges, func(i, j int) bool {
		return fileChanges[i].Path < fileChanges[j].Path
	})
	return applied, skipped, fileChanges, nil
}

func conflictsWithExisting(existing, edits []diag.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits overlap as half-open intervals.
// Two insertions never conflict; an insertion conflicts with a span that
// strictly contains its position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.TextEdit) map[source.FileID][]diag.TextEdit {
	buckets := make(map[source.FileID][]diag.TextEdit)
	for _, edit := range edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}
	return buckets
}

// cumulativeDelta is the length change of already applied edits that end
// at or before pos (in original offsets).
func cumulativeDelta(edits []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Span.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Span.End)
		if eEnd <= pos {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	insertIdx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.TextEdit{})
	copy(edits[insertIdx+1:], edits[insertIdx:])
	edits[insertIdx] = edit
	return edits
}
