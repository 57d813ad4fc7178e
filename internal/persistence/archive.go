package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/brownbat/kingdom-clicker/internal/kingdom"
)

// Archive files carry a settlement snapshot outside the database: a
// zstd-compressed stream with a one-line JSON header followed by the
// snapshot body. The header can be inspected without decoding the body.

// ArchiveHeader identifies an archived settlement.
type ArchiveHeader struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

const archiveVersion = 1

// WriteArchive exports a settlement to a compressed archive file.
func WriteArchive(path string, s *kingdom.State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriter(enc)
	defer bw.Flush()

	header, _ := json.Marshal(ArchiveHeader{
		Version: archiveVersion,
		WorldID: s.ID,
		Tick:    s.Tick,
	})
	if _, err := bw.Write(header); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := json.NewEncoder(bw).Encode(s.Export()); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadArchive restores a settlement from a compressed archive file.
func ReadArchive(path string) (*kingdom.State, ArchiveHeader, error) {
	var header ArchiveHeader

	f, err := os.Open(path)
	if err != nil {
		return nil, header, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, header, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)

	headerLine, err := br.ReadBytes('\n')
	if err != nil {
		return nil, header, fmt.Errorf("read archive header: %w", err)
	}
	if err := json.Unmarshal(headerLine, &header); err != nil {
		return nil, header, fmt.Errorf("decode archive header: %w", err)
	}
	if header.Version != archiveVersion {
		return nil, header, fmt.Errorf("unsupported archive version %d", header.Version)
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, header, err
	}
	s, err := kingdom.Restore(body)
	if err != nil {
		return nil, header, err
	}
	return s, header, nil
}
