// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/askervin/gdbsearch/internal/callpath"
)

// schemaVersion guards against loading a raw-data file written by an
// incompatible future version of this tool.
const schemaVersion uint16 = 1

// RawDataRecord is the on-disk unit persisted by -d and read back by -l:
// one Finding plus the depth it was found at, matching the original
// tool's in-memory _depth_fullpath_file_row_values rows made explicit and
// round-trippable.
type RawDataRecord struct {
	Depth          int
	ParentCallPath []int
	StepIndex      int
	SourceFile     string
	Line           int
	PrevMetric     int64
	NewMetric      int64
}

// EmptyPageRecord persists a page that must be rendered even though it
// carries no Findings (see Store.EnsurePage).
type EmptyPageRecord struct {
	SourceFile     string
	ParentCallPath []int
}

type rawDataFile struct {
	Schema     uint16
	Records    []RawDataRecord
	EmptyPages []EmptyPageRecord
}

// Snapshot returns the depth-ordered sequence of RawDataRecords needed to
// reconstruct every page, per the Ordered() traversal order.
func (s *Store) Snapshot() []RawDataRecord {
	ordered := s.Ordered()
	out := make([]RawDataRecord, len(ordered))
	for i, f := range ordered {
		out[i] = RawDataRecord{
			Depth:          len(f.ParentCallPath),
			ParentCallPath: []int(f.ParentCallPath),
			StepIndex:      f.StepIndex,
			SourceFile:     f.SourceFile,
			Line:           f.Line,
			PrevMetric:     f.PrevMetric,
			NewMetric:      f.NewMetric,
		}
	}
	return out
}

// LoadSnapshot reconstructs a Store from records previously produced by
// Snapshot, without ever starting a debugger. Used by -l.
func LoadSnapshot(records []RawDataRecord) *Store {
	return LoadFullSnapshot(records, nil)
}

// LoadFullSnapshot is LoadSnapshot extended with the empty-page registry,
// so a page with zero Findings survives a -d / -l round trip.
func LoadFullSnapshot(records []RawDataRecord, emptyPages []EmptyPageRecord) *Store {
	s := NewStore()
	for _, r := range records {
		s.Add(Finding{
			SourceFile:     r.SourceFile,
			Line:           r.Line,
			PrevMetric:     r.PrevMetric,
			NewMetric:      r.NewMetric,
			ParentCallPath: callpath.Path(r.ParentCallPath),
			StepIndex:      r.StepIndex,
		})
	}
	for _, p := range emptyPages {
		s.EnsurePage(p.SourceFile, callpath.Path(p.ParentCallPath))
	}
	return s
}

// WriteRawDataFile msgpack-encodes the store's snapshot to path.
func WriteRawDataFile(path string, s *Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: creating raw-data file %s: %w", path, err)
	}
	defer f.Close()

	empty := s.EmptyPageList()
	emptyRecords := make([]EmptyPageRecord, len(empty))
	for i, p := range empty {
		emptyRecords[i] = EmptyPageRecord{SourceFile: p.SourceFile, ParentCallPath: []int(p.ParentCallPath)}
	}

	enc := msgpack.NewEncoder(f)
	payload := rawDataFile{Schema: schemaVersion, Records: s.Snapshot(), EmptyPages: emptyRecords}
	if err := enc.Encode(&payload); err != nil {
		return fmt.Errorf("report: encoding raw-data file %s: %w", path, err)
	}
	return nil
}

// ReadRawDataFile decodes a msgpack raw-data file written by
// WriteRawDataFile back into a Store.
func ReadRawDataFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("report: opening raw-data file %s: %w", path, err)
	}
	defer f.Close()

	var payload rawDataFile
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("report: decoding raw-data file %s: %w", path, err)
	}
	if payload.Schema != schemaVersion {
		return nil, fmt.Errorf("report: raw-data file %s has schema %d, expected %d", path, payload.Schema, schemaVersion)
	}
	return LoadFullSnapshot(payload.Records, payload.EmptyPages), nil
}
