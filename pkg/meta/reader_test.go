package meta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"testing"
)

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func ascii(tag uint16, s string) entry {
	return entry{tag: tag, typ: 2, count: uint32(len(s) + 1), data: append([]byte(s), 0)}
}

func rationals(tag uint16, vs ...uint32) entry {
	var b []byte
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return entry{tag: tag, typ: 5, count: uint32(len(vs) / 2), data: b}
}

func ifdSize(es []entry) int {
	n := 2 + 12*len(es) + 4
	for _, e := range es {
		if len(e.data) > 4 {
			n += len(e.data) + len(e.data)%2
		}
	}
	return n
}

func appendIFD(buf []byte, off int, es []entry) []byte {
	le := binary.LittleEndian
	buf = le.AppendUint16(buf, uint16(len(es)))
	dataOff := off + 2 + 12*len(es) + 4
	var data []byte
	for _, e := range es {
		buf = le.AppendUint16(buf, e.tag)
		buf = le.AppendUint16(buf, e.typ)
		buf = le.AppendUint32(buf, e.count)
		if len(e.data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.data)
			buf = append(buf, v...)
			continue
		}
		buf = le.AppendUint32(buf, uint32(dataOff+len(data)))
		data = append(data, e.data...)
		if len(e.data)%2 == 1 {
			data = append(data, 0)
		}
	}
	buf = le.AppendUint32(buf, 0)
	return append(buf, data...)
}

// tiffEXIF builds a little endian TIFF block with an EXIF and a GPS sub
// directory.
func tiffEXIF(ifd0, sub, gps []entry) []byte {
	ifd0 = append(ifd0,
		entry{tag: 0x8769, typ: 4, count: 1, data: make([]byte, 4)},
		entry{tag: 0x8825, typ: 4, count: 1, data: make([]byte, 4)},
	)
	off0 := 8
	offSub := off0 + ifdSize(ifd0)
	offGPS := offSub + ifdSize(sub)
	binary.LittleEndian.PutUint32(ifd0[len(ifd0)-2].data, uint32(offSub))
	binary.LittleEndian.PutUint32(ifd0[len(ifd0)-1].data, uint32(offGPS))

	buf := []byte("II*\x00")
	buf = binary.LittleEndian.AppendUint32(buf, uint32(off0))
	buf = appendIFD(buf, off0, ifd0)
	buf = appendIFD(buf, offSub, sub)
	return appendIFD(buf, offGPS, gps)
}

func TestReader(t *testing.T) {
	blob := tiffEXIF(
		[]entry{ascii(0x0110, "Canon EOS 5D")},
		[]entry{ascii(0x9003, "2023:07:15 14:30:00")},
		[]entry{
			ascii(0x0001, "N"),
			rationals(0x0002, 46, 1, 46, 1, 426, 10),
			ascii(0x0003, "E"),
			rationals(0x0004, 6, 1, 38, 1, 2796, 100),
		},
	)
	r := NewReader(bytes.NewReader(blob), image.Pt(4032, 3024), Options{GMT: -2})
	if err := r.Err(); err != nil {
		t.Fatalf("NewReader err = %v; want nil", err)
	}
	tests := []struct {
		kind Kind
		want string
	}{
		{CameraModel, "Canon EOS 5D"},
		{DateTaken, "15.07.2023 12:30:00"},
		{ImageDimensions, "4032 x 3024px"},
		{GPSCoordinates, `Latitude: 46° 46' 42.6", Longitude: 6° 38' 27.96"`},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := r.Lookup(tt.kind)
			if err != nil {
				t.Fatalf("Lookup(%v) err = %v; want nil", tt.kind, err)
			}
			if got != tt.want {
				t.Fatalf("Lookup(%v) = %q; want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestDMS(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{46.7785, `46° 46' 42.6"`},
		{6.6411, `6° 38' 27.96"`},
		{-33.5, `-33° 30' 0"`},
		{0, `0° 0' 0"`},
		{-122.4194, `-122° 25' 9.84"`},
	}
	for _, tt := range tests {
		if got := dms(tt.in); got != tt.want {
			t.Errorf("dms(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestReaderDateLayout(t *testing.T) {
	blob := tiffEXIF(nil, []entry{ascii(0x9003, "2023:07:15 14:30:00")}, nil)
	r := NewReader(bytes.NewReader(blob), image.Point{}, Options{DateLayout: "2006-01-02"})
	got, err := r.Lookup(DateTaken)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2023-07-15" {
		t.Fatalf("Lookup(date) = %q; want 2023-07-15", got)
	}
	if _, err := r.Lookup(CameraModel); !errors.Is(err, ErrMissing) {
		t.Fatalf("Lookup(model) err = %v; want ErrMissing", err)
	}
	if _, err := r.Lookup(GPSCoordinates); !errors.Is(err, ErrMissing) {
		t.Fatalf("Lookup(gps) err = %v; want ErrMissing", err)
	}
	if _, err := r.Lookup(ImageDimensions); !errors.Is(err, ErrMissing) {
		t.Fatalf("Lookup(size) err = %v; want ErrMissing", err)
	}
}

func TestReaderWithoutEXIF(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("\x89PNG\r\n\x1a\nnot exif")), image.Pt(10, 20), Options{})
	if r.Err() == nil {
		t.Fatal("Err() = nil; want decoding error")
	}
	for _, k := range []Kind{DateTaken, CameraModel, GPSCoordinates} {
		if _, err := r.Lookup(k); !errors.Is(err, ErrMissing) {
			t.Errorf("Lookup(%v) err = %v; want ErrMissing", k, err)
		}
	}
	if got, _ := r.Lookup(ImageDimensions); got != "10 x 20px" {
		t.Fatalf("Lookup(size) = %q; want 10 x 20px", got)
	}
	got := Assemble(Program{Ref(CameraModel), Ref(ImageDimensions)}, r, DefaultSeparator)
	if want := "no data for camera model - 10 x 20px"; got != want {
		t.Fatalf("Assemble = %q; want %q", got, want)
	}
}
