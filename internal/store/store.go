// Package store implements the on-disk layout a computing node uses to
// persist the replicated shares it receives for an ingested table
// (spec.md §6). One file holds one party's shares for one (owner, table)
// pair; concurrent ingestion of the same file is serialised with an
// advisory flock, since two writers racing on the same share file would
// silently corrupt row alignment.
package store

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/sharecodec"
)

// magic identifies a fesca share file; a file that doesn't start with it
// is rejected rather than partially parsed.
var magic = [8]byte{'F', 'E', 'S', 'C', 'A', 'S', 'H', 'R'}

// Row bundles one party's packed share pair for one table row with the
// column boundaries inside it: Offsets[i]/Lengths[i] are the starting bit
// and width of column i, the layout spec.md §6 mandates alongside every
// row's A/B frames (original_source/fesca/data_owner/src/types.rs keeps
// the same per-column granularity in SharedRow).
type Row struct {
	sharecodec.PartyShare
	Offsets []uint32
	Lengths []uint32
}

// Path returns the share file path for one party's view of owner/table.
func Path(baseDir, owner, table string, party sharecodec.PartyID) string {
	name := owner + "__" + table + "__p" + string(rune('0'+int(party))) + ".fshr"
	return filepath.Join(baseDir, name)
}

// Write serialises rows (one Row per table row, in row order) to path,
// holding an exclusive advisory lock for the duration so a concurrent
// ingestion of the same file can't interleave writes. tableID and
// partyID are recorded in the file header so a reader can sanity-check
// it opened the file it expected without parsing the filename.
func Write(path string, tableID uint32, partyID sharecodec.PartyID, rows []Row) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	defer lock.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(magic[:]); err != nil {
		return fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	header := []uint32{tableID, uint32(partyID), uint32(len(rows))}
	for _, h := range header {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
	}
	for _, r := range rows {
		if err := writeFrame(w, r.A); err != nil {
			return fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
		if err := writeFrame(w, r.B); err != nil {
			return fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
		if err := writeUint32Frame(w, r.Offsets); err != nil {
			return fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
		if err := writeUint32Frame(w, r.Lengths); err != nil {
			return fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	return nil
}

func writeFrame(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func writeUint32Frame(w io.Writer, vals []uint32) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// Read deserialises the rows, table ID and party ID previously written
// to path by Write.
func Read(path string) (tableID uint32, partyID sharecodec.PartyID, rows []Row, err error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return 0, 0, nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	defer lock.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var got [8]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return 0, 0, nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	if got != magic {
		return 0, 0, nil, fescaerr.New(fescaerr.StorageError, "not a fesca share file: "+path)
	}
	var header [3]uint32
	for i := range header {
		if err := binary.Read(r, binary.LittleEndian, &header[i]); err != nil {
			return 0, 0, nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
	}
	tableID, partyID, n := header[0], sharecodec.PartyID(header[1]), header[2]

	rows = make([]Row, n)
	for i := range rows {
		a, err := readFrame(r)
		if err != nil {
			return 0, 0, nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
		b, err := readFrame(r)
		if err != nil {
			return 0, 0, nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
		offsets, err := readUint32Frame(r)
		if err != nil {
			return 0, 0, nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
		lengths, err := readUint32Frame(r)
		if err != nil {
			return 0, 0, nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
		}
		rows[i] = Row{
			PartyShare: sharecodec.PartyShare{A: a, B: b},
			Offsets:    offsets,
			Lengths:    lengths,
		}
	}
	return tableID, partyID, rows, nil
}

func readFrame(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readUint32Frame(r io.Reader) ([]uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	vals := make([]uint32, n)
	for i := range vals {
		if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
			return nil, err
		}
	}
	return vals, nil
}
