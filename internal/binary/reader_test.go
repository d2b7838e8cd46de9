package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// bytesReaderAt wraps a byte slice to implement io.ReaderAt without Sizer,
// returning short reads with no error like a misbehaving source would.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, nil
	}
	n := copy(p, b[off:])
	return n, nil
}

type failingReaderAt struct{ err error }

func (f failingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return 0, f.err
}

func TestReaderReadUint64At(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint64(0x123456789ABCDEF0))
	binary.Write(&buf, binary.LittleEndian, uint64(0xDEADBEEF))

	r := NewReader(bytesReaderAt(buf.Bytes()))

	v, err := r.ReadUint64At("test", 8)
	if err != nil {
		t.Fatalf("ReadUint64At failed: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got 0x%x", v)
	}

	// Absolute addressing: re-reading offset 0 after offset 8 is unaffected.
	v, err = r.ReadUint64At("test", 0)
	if err != nil {
		t.Fatalf("ReadUint64At failed: %v", err)
	}
	if v != 0x123456789ABCDEF0 {
		t.Errorf("expected 0x123456789ABCDEF0, got 0x%x", v)
	}
}

func TestReaderReadUint64sAt(t *testing.T) {
	var buf bytes.Buffer
	for i := uint64(1); i <= 3; i++ {
		binary.Write(&buf, binary.LittleEndian, i*10)
	}
	r := NewReader(bytesReaderAt(buf.Bytes()))

	vals, err := r.ReadUint64sAt("test", 0, 3)
	if err != nil {
		t.Fatalf("ReadUint64sAt failed: %v", err)
	}
	want := []uint64{10, 20, 30}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("vals[%d]: expected %d, got %d", i, want[i], vals[i])
		}
	}

	vals, err = r.ReadUint64sAt("test", 0, 0)
	if err != nil || vals != nil {
		t.Errorf("expected empty read, got %v, %v", vals, err)
	}
}

func TestReaderShortReadIsCorrupt(t *testing.T) {
	r := NewReader(bytesReaderAt{0x01, 0x02, 0x03})

	_, err := r.ReadUint64At("size header", 0)
	if !errors.Is(err, errs.ErrCorrupt) {
		t.Fatalf("expected corrupt error, got %v", err)
	}
}

func TestReaderSizedRangeCheck(t *testing.T) {
	buf := &Buffer{}
	buf.WriteAt(make([]byte, 16), 0)
	r := NewReader(buf)

	if r.Size() != 16 {
		t.Fatalf("expected size 16, got %d", r.Size())
	}

	tests := []struct {
		offset int64
		n      uint64
		ok     bool
	}{
		{0, 16, true},
		{8, 8, true},
		{16, 0, true},
		{9, 8, false},
		{17, 0, false},
		{0, 1 << 63, false},
		{-1, 1, false},
	}

	for _, tt := range tests {
		err := r.CheckRange("test", tt.offset, tt.n)
		if tt.ok && err != nil {
			t.Errorf("CheckRange(%d, %d): unexpected error %v", tt.offset, tt.n, err)
		}
		if !tt.ok && !errors.Is(err, errs.ErrCorrupt) {
			t.Errorf("CheckRange(%d, %d): expected corrupt error, got %v", tt.offset, tt.n, err)
		}
	}
}

func TestReaderSourceErrorIsIO(t *testing.T) {
	r := NewReader(failingReaderAt{errors.New("device removed")})

	_, err := r.ReadAt("test", 0, 4)
	if !errors.Is(err, errs.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestReaderNegativeLength(t *testing.T) {
	r := NewReader(bytesReaderAt{0x01, 0x02})
	if _, err := r.ReadAt("test", 0, -1); !errors.Is(err, errs.ErrCorrupt) {
		t.Fatalf("expected corrupt error, got %v", err)
	}
	buf, err := r.ReadAt("test", 0, 0)
	if err != nil || buf != nil {
		t.Errorf("expected empty read, got %v, %v", buf, err)
	}
}

func TestReaderImplausibleCount(t *testing.T) {
	r := NewReader(bytesReaderAt{})
	_, err := r.ReadUint64sAt("group", 0, 1<<61)
	if !errors.Is(err, errs.ErrCorrupt) {
		t.Fatalf("expected corrupt error, got %v", err)
	}
}

func TestDecoderReads(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x42)
	binary.Write(&buf, binary.LittleEndian, uint16(0x0102))
	binary.Write(&buf, binary.LittleEndian, uint32(0x12345678))
	binary.Write(&buf, binary.LittleEndian, uint64(0x123456789ABCDEF0))
	binary.Write(&buf, binary.LittleEndian, float64(1.5))
	buf.WriteString("abc")

	d := NewDecoder(buf.Bytes(), "test", 0)

	v8, err := d.ReadUint8()
	if err != nil || v8 != 0x42 {
		t.Fatalf("ReadUint8: got 0x%x, %v", v8, err)
	}
	v16, err := d.ReadUint16()
	if err != nil || v16 != 0x0102 {
		t.Fatalf("ReadUint16: got 0x%x, %v", v16, err)
	}
	v32, err := d.ReadUint32()
	if err != nil || v32 != 0x12345678 {
		t.Fatalf("ReadUint32: got 0x%x, %v", v32, err)
	}
	v64, err := d.ReadUint64()
	if err != nil || v64 != 0x123456789ABCDEF0 {
		t.Fatalf("ReadUint64: got 0x%x, %v", v64, err)
	}
	f, err := d.ReadFloat64()
	if err != nil || f != 1.5 {
		t.Fatalf("ReadFloat64: got %v, %v", f, err)
	}
	s, err := d.ReadString(3)
	if err != nil || s != "abc" {
		t.Fatalf("ReadString: got %q, %v", s, err)
	}
	if !d.Done() {
		t.Errorf("expected decoder to be done, %d bytes remain", d.Remaining())
	}
}

func TestDecoderReadUintN(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		data     []byte
		expected uint64
	}{
		{"1-byte", 1, []byte{0x34}, 0x34},
		{"2-byte", 2, []byte{0x34, 0x12}, 0x1234},
		{"4-byte", 4, []byte{0x78, 0x56, 0x34, 0x12}, 0x12345678},
		{"8-byte", 8, []byte{0xF0, 0xDE, 0xBC, 0x9A, 0x78, 0x56, 0x34, 0x12}, 0x123456789ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.data, "test", 0)
			v, err := d.ReadUintN(tt.size)
			if err != nil {
				t.Fatalf("ReadUintN failed: %v", err)
			}
			if v != tt.expected {
				t.Errorf("expected 0x%x, got 0x%x", tt.expected, v)
			}
		})
	}
}

func TestDecoderTruncated(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x02}, "property headers", 0x100)
	if _, err := d.ReadUint32(); !errors.Is(err, errs.ErrCorrupt) {
		t.Fatalf("expected corrupt error, got %v", err)
	}
	// A failed read does not advance.
	if d.Pos() != 0 {
		t.Errorf("expected position 0, got %d", d.Pos())
	}
	if _, err := d.ReadBytes(2); err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if _, err := d.ReadBytes(-1); !errors.Is(err, errs.ErrCorrupt) {
		t.Errorf("expected corrupt error for negative length, got %v", err)
	}
}
