package model

import (
	"bufio"
	"bytes"
	stderrs "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	perr "langid/internal/platform/errors"
)

// Magic prefixes every artifact
const Magic = "LIDM"

// Encode writes the magic followed by the msgpack body. Map keys are sorted
// so equal models encode to equal bytes
func Encode(w io.Writer, m *Model) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	return newEncoder(w).Encode(m)
}

func newEncoder(w io.Writer) *msgpack.Encoder {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc
}

func encodeBody(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := newEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal is Encode into a byte slice
func Marshal(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads and validates an artifact. Any mismatch is an invalid argument
func Decode(r io.Reader) (*Model, error) {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "model: artifact too short")
	}
	if string(magic) != Magic {
		return nil, perr.InvalidArgf("model: bad magic %q", magic)
	}

	var m Model
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "model: decode body")
	}
	if err := m.Validate(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "model: invalid artifact")
	}
	return &m, nil
}

// Unmarshal is Decode from a byte slice
func Unmarshal(b []byte) (*Model, error) {
	return Decode(bytes.NewReader(b))
}

// Load decodes the artifact at path
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrs.Is(err, os.ErrNotExist) {
			return nil, perr.NotFoundf("model: no artifact at %s", path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeModel, "model: open %s", path)
	}
	defer f.Close()

	m, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, perr.WithOp(err, "model.Load")
	}
	return m, nil
}

// Save writes m to path atomically through a temp file in the same directory
func Save(path string, m *Model) (err error) {
	if err := m.Validate(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "model: refusing to save")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*.lidm")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	w := bufio.NewWriter(f)
	if err = Encode(w, m); err != nil {
		f.Close()
		return fmt.Errorf("model: encode: %w", err)
	}
	if err = w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
