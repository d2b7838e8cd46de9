package header

import (
	"github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/table"
)

// InlineMetaData is the metadata index meaning the metadata string follows
// the header instead of living in the indexed table.
const InlineMetaData = 0xff

// ObjectTrailerSize is the length of the digest trailer after the object
// headers.
const ObjectTrailerSize = 32

// ObjectHeader names one object in the hierarchy.
type ObjectHeader struct {
	Name     string
	FullName string
	MetaData table.MetaData

	// MetaDataIndex is the indexed-table entry MetaData came from, or
	// InlineMetaData.
	MetaDataIndex uint8
}

// RootObjectHeader returns the header of the archive's root object.
func RootObjectHeader(md table.MetaData) *ObjectHeader {
	return &ObjectHeader{Name: "ABC", FullName: "/", MetaData: md, MetaDataIndex: InlineMetaData}
}

// ChildFullName joins a parent's full name and a child name.
func ChildFullName(parent, name string) string {
	if parent == "/" || parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}

// ReadObjectHeaders decodes an object headers blob. base is the file offset
// of blob[0].
func ReadObjectHeaders(blob []byte, base int64, parentFullName string, md *table.IndexedMetaData) ([]*ObjectHeader, error) {
	if len(blob) <= ObjectTrailerSize {
		return nil, nil
	}

	d := binary.NewDecoder(blob[:len(blob)-ObjectTrailerSize], "read object headers", base)
	var headers []*ObjectHeader
	for !d.Done() {
		nameLen, err := d.ReadUint32()
		if err != nil {
			return nil, err
		}
		name, err := d.ReadString(int(nameLen))
		if err != nil {
			return nil, err
		}
		mdIndex, err := d.ReadUint8()
		if err != nil {
			return nil, err
		}

		h := &ObjectHeader{
			Name:          name,
			FullName:      ChildFullName(parentFullName, name),
			MetaDataIndex: mdIndex,
		}
		if mdIndex == InlineMetaData {
			mdLen, err := d.ReadUint32()
			if err != nil {
				return nil, err
			}
			s, err := d.ReadString(int(mdLen))
			if err != nil {
				return nil, err
			}
			h.MetaData = table.ParseMetaData(s)
		} else {
			if h.MetaData, err = md.Resolve(int(mdIndex)); err != nil {
				return nil, err
			}
		}
		headers = append(headers, h)
	}
	return headers, nil
}

// EncodeObjectHeaders serializes headers followed by a zeroed trailer.
func EncodeObjectHeaders(headers []*ObjectHeader) []byte {
	buf := &binary.Buffer{}
	w := binary.NewWriter(buf)
	for _, h := range headers {
		w.WriteUint32(uint32(len(h.Name)))
		w.WriteBytes([]byte(h.Name))
		w.WriteUint8(h.MetaDataIndex)
		if h.MetaDataIndex == InlineMetaData {
			s := h.MetaData.Serialize()
			w.WriteUint32(uint32(len(s)))
			w.WriteBytes([]byte(s))
		}
	}
	w.WriteBytes(make([]byte, ObjectTrailerSize))
	return buf.Bytes()
}
