package table

import (
	"strings"

	"github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// MetaData is an ordered list of key/value pairs, serialized as
// "key=value;key2=value2".
type MetaData struct {
	keys   []string
	values []string
}

// ParseMetaData parses a serialized metadata string. Tokens without '=' are
// ignored.
func ParseMetaData(s string) MetaData {
	var md MetaData
	if s == "" {
		return md
	}
	for _, tok := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(tok, "=")
		if !ok || k == "" {
			continue
		}
		md.Set(k, v)
	}
	return md
}

// Get returns the value for key.
func (m MetaData) Get(key string) (string, bool) {
	for i, k := range m.keys {
		if k == key {
			return m.values[i], true
		}
	}
	return "", false
}

// Set replaces or appends key.
func (m *MetaData) Set(key, value string) {
	for i, k := range m.keys {
		if k == key {
			m.values[i] = value
			return
		}
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Len returns the number of pairs.
func (m MetaData) Len() int {
	return len(m.keys)
}

// Keys returns the keys in stored order.
func (m MetaData) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Serialize renders m in its on-disk form.
func (m MetaData) Serialize() string {
	var sb strings.Builder
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(m.values[i])
	}
	return sb.String()
}

func (m MetaData) String() string {
	return m.Serialize()
}

// MaxIndexedMetaData is the largest number of table entries a header can
// reference; index 0xff means the metadata is stored inline instead.
const MaxIndexedMetaData = 0xff

// IndexedMetaData is the archive-wide metadata table.
type IndexedMetaData struct {
	entries []MetaData
}

// ReadIndexedMetaData decodes the table blob: a sequence of u8 length +
// bytes entries. Index 0 is the implicit empty metadata.
func ReadIndexedMetaData(buf []byte, base int64) (*IndexedMetaData, error) {
	t := &IndexedMetaData{entries: []MetaData{{}}}
	d := binary.NewDecoder(buf, "read indexed metadata", base)
	for !d.Done() {
		n, err := d.ReadUint8()
		if err != nil {
			return nil, err
		}
		s, err := d.ReadString(int(n))
		if err != nil {
			return nil, err
		}
		t.entries = append(t.entries, ParseMetaData(s))
	}
	if len(t.entries) > MaxIndexedMetaData {
		return nil, errs.Corrupt("read indexed metadata", base,
			"%d entries exceed the addressable %d", len(t.entries), MaxIndexedMetaData)
	}
	return t, nil
}

// EncodeIndexedMetaData serializes entries (excluding the implicit index 0).
func EncodeIndexedMetaData(entries []MetaData) []byte {
	var out []byte
	for _, md := range entries {
		s := md.Serialize()
		out = append(out, byte(len(s)))
		out = append(out, s...)
	}
	return out
}

// Len returns the number of entries, including index 0.
func (t *IndexedMetaData) Len() int {
	return len(t.entries)
}

// Resolve returns entry i.
func (t *IndexedMetaData) Resolve(i int) (MetaData, error) {
	if i < 0 || i >= len(t.entries) {
		return MetaData{}, errs.Corrupt("resolve metadata", errs.NoOffset,
			"index %d outside table of %d entries", i, len(t.entries))
	}
	return t.entries[i], nil
}
