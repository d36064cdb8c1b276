package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by every package.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyFile       = "file"
	KeyIdentifier = "identifier"
	KeyType       = "type"
	KeyField      = "field"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Identifier(id string) slog.Attr  { return slog.String(KeyIdentifier, id) }
func Type(name string) slog.Attr      { return slog.String(KeyType, name) }
func Field(name string) slog.Attr     { return slog.String(KeyField, name) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration reports d in milliseconds under KeyDurationMS.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
