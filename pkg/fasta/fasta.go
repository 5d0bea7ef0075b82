// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fasta

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Separator joins a forward read to its reverse mate
const Separator = "NNNNNNNNNN"

// 🧬 Record is one FASTA entry
type Record struct {
	ID       string // first whitespace-separated token of the header
	Header   string // header line without the leading '>'
	Sequence string
}

// 📖 Reader streams records one at a time
type Reader struct {
	scanner  *bufio.Scanner
	header   string // header read ahead of the record it starts
	buffered bool
	started  bool
	line     int
}

// NewReader creates a Reader over r
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return &Reader{scanner: scanner}
}

// scan returns the next non-blank, non-comment line
func (r *Reader) scan() (string, bool, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		return line, true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", false, errors.Errorf("reading fasta: %w", err)
	}
	return "", false, nil
}

// Next returns the next record, or io.EOF when the input is exhausted.
// Sequence lines are joined; blank lines and ';' comments are skipped.
func (r *Reader) Next() (*Record, error) {
	if !r.started {
		r.started = true
		line, ok, err := r.scan()
		if err != nil {
			return nil, err
		}
		if ok {
			if !strings.HasPrefix(line, ">") {
				return nil, errors.Errorf("line %d: expected header, got %q", r.line, line)
			}
			r.header, r.buffered = line[1:], true
		}
	}

	if !r.buffered {
		return nil, io.EOF
	}

	rec := &Record{Header: strings.TrimSpace(r.header)}
	if fields := strings.Fields(rec.Header); len(fields) > 0 {
		rec.ID = fields[0]
	}
	r.buffered = false

	var seq strings.Builder
	for {
		line, ok, err := r.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if strings.HasPrefix(line, ">") {
			r.header, r.buffered = line[1:], true
			break
		}
		seq.WriteString(line)
	}
	rec.Sequence = seq.String()

	return rec, nil
}

// 🔗 ConcatenatePairs zips forward and reverse reads into one record per pair.
//
// Each output record keeps the forward ID and carries fwd + Separator + rev. Pairing is by
// position, not by ID, and stops at the end of the shorter input. Returns the pair count.
func ConcatenatePairs(ctx context.Context, fwd, rev io.Reader, out io.Writer) (int, error) {
	logger := zerolog.Ctx(ctx)

	fr, rr := NewReader(fwd), NewReader(rev)
	w := bufio.NewWriter(out)

	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, errors.Errorf("concatenating reads: %w", err)
		}

		f, err := fr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, errors.Errorf("forward reads: %w", err)
		}

		r, err := rr.Next()
		if errors.Is(err, io.EOF) {
			logger.Warn().Int("pairs", n).Msg("reverse reads ended before forward reads")
			break
		}
		if err != nil {
			return n, errors.Errorf("reverse reads: %w", err)
		}

		if _, err := w.WriteString(">" + f.ID + "\n" + f.Sequence + Separator + r.Sequence + "\n"); err != nil {
			return n, errors.Errorf("writing pair %d: %w", n+1, err)
		}
		n++
	}

	if _, err := rr.Next(); err == nil {
		logger.Warn().Int("pairs", n).Msg("forward reads ended before reverse reads")
	}

	if err := w.Flush(); err != nil {
		return n, errors.Errorf("flushing output: %w", err)
	}

	logger.Debug().Int("pairs", n).Msg("concatenated reads")
	return n, nil
}
