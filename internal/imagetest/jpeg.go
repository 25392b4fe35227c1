// Package imagetest builds small JPEG fixtures for tests.
package imagetest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
)

// Exif holds the tags written into a fixture. Empty strings and a zero
// Orientation are omitted.
type Exif struct {
	Orientation  uint16
	DateTime     string
	Model        string
	BodySerial   string
	OmitExifIFD  bool
	ExtraIFD0Tag bool
}

type entry struct {
	id    uint16
	typ   uint16
	count uint32
	value []byte
}

var order = binary.LittleEndian

func ascii(id uint16, s string) entry {
	b := append([]byte(s), 0)
	return entry{id: id, typ: 2, count: uint32(len(b)), value: b}
}

func short(id uint16, v uint16) entry {
	b := make([]byte, 2)
	order.PutUint16(b, v)
	return entry{id: id, typ: 3, count: 1, value: b}
}

func long(id uint16, v uint32) entry {
	b := make([]byte, 4)
	order.PutUint32(b, v)
	return entry{id: id, typ: 4, count: 1, value: b}
}

// encodeIFD lays out entries as an IFD starting at offset start, with
// out-of-line values stored right after the directory.
func encodeIFD(start uint32, entries []entry) []byte {
	dataOffset := start + uint32(2+12*len(entries)+4)
	var dir, data bytes.Buffer
	binary.Write(&dir, order, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&dir, order, e.id)
		binary.Write(&dir, order, e.typ)
		binary.Write(&dir, order, e.count)
		if len(e.value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.value)
			dir.Write(inline)
			continue
		}
		binary.Write(&dir, order, dataOffset+uint32(data.Len()))
		data.Write(e.value)
	}
	binary.Write(&dir, order, uint32(0))
	return append(dir.Bytes(), data.Bytes()...)
}

// TIFF returns a little-endian TIFF structure carrying x.
func TIFF(x Exif) []byte {
	var ifd0 []entry
	if x.Orientation != 0 {
		ifd0 = append(ifd0, short(0x0112, x.Orientation))
	}
	if x.Model != "" {
		ifd0 = append(ifd0, ascii(0x0110, x.Model))
	}
	if x.DateTime != "" {
		ifd0 = append(ifd0, ascii(0x0132, x.DateTime))
	}
	if x.ExtraIFD0Tag {
		ifd0 = append(ifd0, ascii(0x010F, "IgnoredMake"))
	}

	withSubIFD := !x.OmitExifIFD && x.BodySerial != ""
	if withSubIFD {
		ifd0 = append(ifd0, long(0x8769, 0))
	}

	const ifd0Start = 8
	encoded := encodeIFD(ifd0Start, ifd0)

	var exifIFD []byte
	if withSubIFD {
		subStart := uint32(ifd0Start + len(encoded))
		ifd0[len(ifd0)-1] = long(0x8769, subStart)
		encoded = encodeIFD(ifd0Start, ifd0)
		exifIFD = encodeIFD(subStart, []entry{ascii(0xA431, x.BodySerial)})
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, order, uint16(42))
	binary.Write(&buf, order, uint32(ifd0Start))
	buf.Write(encoded)
	buf.Write(exifIFD)
	return buf.Bytes()
}

// JPEG returns SOI, an APP1 Exif segment carrying x, and EOI.
func JPEG(x Exif) []byte {
	payload := append([]byte("Exif\x00\x00"), TIFF(x)...)

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// CorruptJPEG has an Exif marker followed by bytes that are not TIFF.
func CorruptJPEG() []byte {
	payload := []byte("Exif\x00\x00not a tiff header at all")
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// PlainJPEG encodes a 1x1 image with no EXIF segment.
func PlainJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
