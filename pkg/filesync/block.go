package filesync

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/errors"
)

// DefaultCommentPrefix starts marker lines when a Block has no Prefix
const DefaultCommentPrefix = "#"

// Block is a marker-delimited region inside a text file
type Block struct {
	ID   string
	Body string
	// Prefix is the comment leader of the marker lines
	Prefix string
}

func (b Block) prefix() string {
	if b.Prefix == "" {
		return DefaultCommentPrefix
	}
	return b.Prefix
}

// BeginMarker returns the opening marker line
func (b Block) BeginMarker() string {
	return b.prefix() + " " + beginTag(b.ID)
}

// EndMarker returns the closing marker line
func (b Block) EndMarker() string {
	return b.prefix() + " " + endTag(b.ID)
}

// Render returns the block with markers, newline terminated
func (b Block) Render() string {
	var sb strings.Builder
	sb.WriteString(b.BeginMarker())
	sb.WriteString("\n")
	if body := strings.TrimRight(b.Body, "\n"); body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	sb.WriteString(b.EndMarker())
	sb.WriteString("\n")
	return sb.String()
}

func beginTag(id string) string { return ">>> devstrap:" + id + " >>>" }
func endTag(id string) string   { return "<<< devstrap:" + id + " <<<" }

// span locates a block by its markers, whatever their comment prefix.
// begin is -1 when the block is absent; end is -1 when the begin marker has
// no matching end marker.
func span(lines []string, id string) (begin, end int) {
	begin, end = -1, -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if begin < 0 {
			if strings.HasSuffix(trimmed, beginTag(id)) {
				begin = i
			}
			continue
		}
		if strings.HasSuffix(trimmed, endTag(id)) {
			end = i
			return begin, end
		}
	}
	return begin, end
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.SplitAfter(strings.TrimSuffix(content, "\n"), "\n")
}

// EnsureBlock makes path contain block exactly once. An existing block with
// the same id is replaced in place; otherwise the block is appended after a
// blank line. A begin marker without an end marker fails with
// BLOCK_MALFORMED and leaves the file untouched.
func (w *Writer) EnsureBlock(path string, block Block) Result {
	current, err := w.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return w.WriteFile(path, []byte(block.Render()), 0)
		}
		return w.fail(path, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path))
	}

	content := string(current)
	lines := splitLines(content)
	begin, end := span(lines, block.ID)

	var updated string
	switch {
	case begin >= 0 && end < 0:
		return w.fail(path, malformed(path, block.ID))
	case begin >= 0:
		updated = strings.Join(lines[:begin], "") + block.Render() + strings.Join(lines[end+1:], "")
		if end+1 < len(lines) && !strings.HasSuffix(updated, "\n") {
			updated += "\n"
		}
	case strings.TrimSpace(content) == "":
		updated = block.Render()
	default:
		updated = strings.TrimRight(content, "\n") + "\n\n" + block.Render()
	}

	return w.WriteFile(path, []byte(updated), 0)
}

// RemoveBlock deletes the block with id, markers included, together with the
// blank separator line EnsureBlock added before it
func (w *Writer) RemoveBlock(path, id string) Result {
	current, err := w.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return w.done(unchanged(path))
		}
		return w.fail(path, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path))
	}

	lines := splitLines(string(current))
	begin, end := span(lines, id)
	switch {
	case begin < 0:
		return w.done(unchanged(path))
	case end < 0:
		return w.fail(path, malformed(path, id))
	}

	if begin > 0 && strings.TrimSpace(lines[begin-1]) == "" {
		begin--
	}
	updated := strings.Join(lines[:begin], "") + strings.Join(lines[end+1:], "")
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	return w.WriteFile(path, []byte(updated), 0)
}

// HasBlock reports whether path contains a complete block with id
func (w *Writer) HasBlock(path, id string) (bool, error) {
	current, err := w.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	begin, end := span(splitLines(string(current)), id)
	if begin >= 0 && end < 0 {
		return false, malformed(path, id)
	}
	return begin >= 0, nil
}

func malformed(path, id string) error {
	return errors.Newf(errors.ErrBlockMalformed, "block %q in %s has a begin marker but no end marker", id, path).
		WithDetail("path", path).
		WithDetail("block", id)
}
