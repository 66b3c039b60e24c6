package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"mdeco/internal/deps"
	"mdeco/internal/pathtree"
	"mdeco/internal/textutil"
)

// charset classification reads at most this many leading bytes.
const charsetSniffLen = 8 * 1024

// TextCollector summarizes plain-text files: charset, byte order mark, and
// line/word counts. UTF-16 content is transcoded before counting.
type TextCollector struct {
	base
	opts Options
}

// NewText constructs the text metadata collector.
func NewText(opts Options) (*TextCollector, error) {
	opts = opts.withDefaults()
	c := &TextCollector{
		base: newBase("text-info", []string{"text/*"}, opts.TreePolicy),
		opts: opts,
	}
	c.bind(c)
	if err := c.register(c, "text_metadata", c.addTextMetadata); err != nil {
		return nil, err
	}
	return c, nil
}

// Requirements reports no external dependencies.
func (c *TextCollector) Requirements() []deps.Requirement {
	return nil
}

// CheckReadiness always succeeds for the text collector.
func (c *TextCollector) CheckReadiness() error {
	c.markReady()
	return nil
}

// Scan extracts the text_metadata field.
func (c *TextCollector) Scan(ctx context.Context, path string) (*pathtree.Tree, error) {
	return c.runScan(ctx, path)
}

func (c *TextCollector) addTextMetadata(_ context.Context, path string) (*pathtree.Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("text metadata: %w", err)
	}
	defer file.Close()

	head := make([]byte, charsetSniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("text metadata: %w", err)
	}
	charset, hasBOM := textutil.DetectCharset(head[:n])

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("text metadata: %w", err)
	}
	lines, words, err := countText(textutil.DecodeReader(file, charset))
	if err != nil {
		return nil, fmt.Errorf("text metadata: %w", err)
	}

	metadata := c.newFragment()
	metadata.Set("charset", charset)
	metadata.Set("byte_order_mark", hasBOM)
	metadata.Set("line_count", lines)
	metadata.Set("word_count", words)

	fragment := c.newFragment()
	fragment.Set("text_metadata", metadata)
	return fragment, nil
}

func countText(r io.Reader) (lines, words int64, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines++
		inWord := false
		for _, b := range scanner.Bytes() {
			isSpace := b == ' ' || b == '\t' || b == '\r'
			if !isSpace && !inWord {
				words++
			}
			inWord = !isSpace
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	return lines, words, nil
}
