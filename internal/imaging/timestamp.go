package imaging

import (
	"bytes"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/sys/unix"
)

// exifLayout is the fixed date/time grammar used by EXIF ASCII tags.
const exifLayout = "2006:01:02 15:04:05"

// timestampTags in priority order: capture time, generic modification time,
// digitization time. The first syntactically valid value wins. The decoder
// merges primary and thumbnail directories into one field view, so a tag
// present only in the thumbnail directory is still found.
var timestampTags = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTime,
	exif.DateTimeDigitized,
}

func resolveTimestamp(data []byte, path string) time.Time {
	if ts, ok := exifTimestamp(data); ok {
		return ts
	}
	return fileTimestamp(path)
}

func exifTimestamp(data []byte) (time.Time, bool) {
	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return time.Time{}, false
	}
	for _, tag := range timestampTags {
		field, err := meta.Get(tag)
		if err != nil {
			continue
		}
		value, err := field.StringVal()
		if err != nil {
			continue
		}
		ts, err := time.ParseInLocation(exifLayout, value, time.Local)
		if err != nil {
			continue
		}
		return ts, true
	}
	return time.Time{}, false
}

// fileTimestamp falls back to filesystem times: birth time if the filesystem
// records one, then last access time, then modification time.
func fileTimestamp(path string) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_ATIME, &stx)
	if err == nil {
		if stx.Mask&unix.STATX_BTIME != 0 && stx.Btime.Sec != 0 {
			return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
		if stx.Mask&unix.STATX_ATIME != 0 && stx.Atime.Sec != 0 {
			return time.Unix(stx.Atime.Sec, int64(stx.Atime.Nsec))
		}
	}
	if info, statErr := os.Stat(path); statErr == nil {
		return info.ModTime()
	}
	return time.Now()
}
