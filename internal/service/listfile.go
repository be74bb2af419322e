package service

import (
	"bufio"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tejashwikalptaru/playvideo/internal/config"
	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

const (
	listWhitespace = " \t"
	volumeChars    = "+-0123456789"

	// maxLineLength bounds a single list line; longer lines are skipped
	maxLineLength = 64 * 1024
)

// ParseResult is a parsed list file together with the lines that were skipped.
type ParseResult struct {
	Playlist domain.Playlist

	// Skipped holds one entry per rejected line, in file order
	Skipped []*domain.MalformedLineError

	// Dropped counts entry lines ignored because the capacity was reached
	Dropped int

	// Warnings holds accepted lines that deserve attention, such as a positive
	// volume or a disk change that names a file
	Warnings []*domain.MalformedLineError
}

// ParseList reads list file content. listPath locates the file on disk and
// anchors the source directories: entries start in the list file's directory
// and a disk-change line moves them to a sibling of that directory.
// At most capacity entries are kept.
func ParseList(r io.Reader, listPath string, capacity int) (*ParseResult, error) {
	if capacity <= 0 {
		capacity = domain.DefaultMaxVideos
	}

	listDir := filepath.Dir(listPath)
	mountRoot := filepath.Dir(listDir)
	sourcePath := withSeparator(listDir)

	res := &ParseResult{
		Playlist: domain.Playlist{Entries: make([]domain.VideoEntry, 0, 16)},
	}
	skip := func(n int, text, reason string) {
		res.Skipped = append(res.Skipped, &domain.MalformedLineError{Line: n, Text: text, Reason: reason})
	}

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, tooLong, err := readLine(br)
		if err != nil && err != io.EOF {
			return res, err
		}
		if err == io.EOF && raw == "" && !tooLong {
			break
		}
		lineNo++

		if tooLong {
			skip(lineNo, raw[:min(len(raw), 32)], "line too long")
			continue
		}

		line := strings.Trim(strings.ReplaceAll(raw, "\r", ""), listWhitespace)
		if line == "" {
			continue
		}

		switch line[0] {
		case domain.CommentMark:
			continue

		case domain.DiskChangeMark:
			disk := diskName(line[1:])
			if disk == "" {
				skip(lineNo, line, "disk change without a disk name")
				continue
			}
			if strings.Contains(disk, ".") {
				res.Warnings = append(res.Warnings, &domain.MalformedLineError{
					Line: lineNo, Text: line, Reason: "disk change looks like a file name, entry lines start with a volume",
				})
			}
			sourcePath = withSeparator(filepath.Join(mountRoot, disk))
			continue

		case domain.InstructionMark:
			if reason := applyInstruction(&res.Playlist, line[1:]); reason != "" {
				skip(lineNo, line, reason)
			}
			continue
		}

		if !strings.ContainsRune(volumeChars, rune(line[0])) {
			skip(lineNo, line, "line does not start with a volume")
			continue
		}

		volumeText, name := line, ""
		if i := strings.IndexAny(line, listWhitespace); i >= 0 {
			volumeText, name = line[:i], strings.Trim(line[i:], listWhitespace)
		}

		if len(name) < domain.MinFileNameLength {
			skip(lineNo, line, "file name too short")
			continue
		}

		if len(res.Playlist.Entries) >= capacity {
			res.Dropped++
			continue
		}

		entry := domain.VideoEntry{
			Volume:     leadingInt(volumeText),
			SourcePath: sourcePath,
			FileName:   name,
		}
		if name[0] == domain.LoopMark {
			entry.FileName = name[1:]
			entry.Loop = true
		}
		if entry.Volume > 0 {
			res.Warnings = append(res.Warnings, &domain.MalformedLineError{
				Line: lineNo, Text: line, Reason: "positive volume has no effect",
			})
		}

		res.Playlist.Entries = append(res.Playlist.Entries, entry)
	}

	return res, nil
}

// readLine returns the next line without its newline. A line longer than
// maxLineLength is consumed up to its newline and reported as tooLong with
// only its leading bytes kept. At the end of input err is io.EOF.
func readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > maxLineLength {
				tooLong = true
				buf = append(buf, chunk[:min(len(chunk), 32)]...)
			} else {
				buf = append(buf, chunk...)
			}
		}

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err != nil:
			return strings.TrimSuffix(string(buf), "\n"), tooLong, err
		default:
			return strings.TrimSuffix(string(buf), "\n"), tooLong, nil
		}
	}
}

// diskName extracts the drive name of a disk-change line: everything up to
// and including the last digit, or the whole text when there is no digit.
func diskName(rest string) string {
	if i := strings.LastIndexAny(rest, "0123456789"); i >= 0 {
		rest = rest[:i+1]
	}
	return strings.Trim(rest, listWhitespace)
}

// applyInstruction handles a "NAME = VALUE" line and returns a non-empty
// reason when the line has to be skipped.
func applyInstruction(p *domain.Playlist, body string) string {
	eq := strings.LastIndex(body, "=")
	if eq < 0 {
		return "instruction without '='"
	}

	name := strings.ToUpper(strings.Trim(body[:eq], listWhitespace))
	value := strings.Trim(body[eq+1:], listWhitespace)

	switch name {
	case "MIN_PLAY_TIME":
		if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
			p.MinimumPlayTime = time.Duration(seconds) * time.Second
		}
	case "AUTO_ADVANCE":
		p.AutoAdvance = config.IsTruthy(value)
	}
	return ""
}

// leadingInt parses an optional sign followed by digits at the start of s.
// Trailing characters are ignored; no digits yields zero.
func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func withSeparator(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
