package meta

import (
	"fmt"
	"image"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// DefaultDateLayout renders dates as day.month.year hour:minute:second.
const DefaultDateLayout = "02.01.2006 15:04:05"

// Options configures how a Reader formats values.
type Options struct {
	// DateLayout is a time layout, DefaultDateLayout when empty.
	DateLayout string
	// GMT is an hour offset added to the date taken.
	GMT int
}

// Reader resolves fields from the EXIF data and the size of an image.
type Reader struct {
	exif *exif.Exif
	err  error
	size image.Point
	opts Options
}

// NewReader decodes the EXIF data in r. Images without EXIF data are valid:
// their fields resolve to ErrMissing, except for the size when it is known.
func NewReader(r io.Reader, size image.Point, opts Options) *Reader {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	x, err := exif.Decode(r)
	if err != nil {
		x = nil
	}
	return &Reader{exif: x, err: err, size: size, opts: opts}
}

// Err returns the EXIF decoding error, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Lookup(k Kind) (string, error) {
	switch k {
	case DateTaken:
		return r.date()
	case CameraModel:
		return r.model()
	case ImageDimensions:
		if r.size.X <= 0 || r.size.Y <= 0 {
			return "", fmt.Errorf("%w for %s", ErrMissing, k)
		}
		return fmt.Sprintf("%d x %dpx", r.size.X, r.size.Y), nil
	case GPSCoordinates:
		return r.gps()
	default:
		return "", fmt.Errorf("meta: can't look up %s", k)
	}
}

func (r *Reader) date() (string, error) {
	if r.exif == nil {
		return "", fmt.Errorf("%w for %s", ErrMissing, DateTaken)
	}
	t, err := r.exif.DateTime()
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrMissing, DateTaken, err)
	}
	t = t.Add(time.Duration(r.opts.GMT) * time.Hour)
	return t.Format(r.opts.DateLayout), nil
}

func (r *Reader) model() (string, error) {
	if r.exif == nil {
		return "", fmt.Errorf("%w for %s", ErrMissing, CameraModel)
	}
	tag, err := r.exif.Get(exif.Model)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrMissing, CameraModel, err)
	}
	v, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrMissing, CameraModel, err)
	}
	v = strings.TrimSpace(strings.TrimRight(v, "\x00"))
	if v == "" {
		return "", fmt.Errorf("%w for %s", ErrMissing, CameraModel)
	}
	return v, nil
}

func (r *Reader) gps() (string, error) {
	if r.exif == nil {
		return "", fmt.Errorf("%w for %s", ErrMissing, GPSCoordinates)
	}
	lat, long, err := r.exif.LatLong()
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrMissing, GPSCoordinates, err)
	}
	return fmt.Sprintf("Latitude: %s, Longitude: %s", dms(lat), dms(long)), nil
}

// dms formats decimal degrees as degrees, minutes and seconds, for example
// 46° 46' 42.6". The sign is kept on the degrees and seconds are rounded to
// two decimals.
func dms(v float64) string {
	d := math.Trunc(v)
	m := math.Abs(math.Mod(v, 1) * 60)
	sec := math.Mod(m, 1) * 60
	m = math.Trunc(m)
	return fmt.Sprintf("%s° %s' %s\"", short(d), short(m), short(sec))
}

func short(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
