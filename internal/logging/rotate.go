package logging

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingFile returns a size-rotated, compressed log file writer. Old files
// are kept for maxAgeDays.
func RotatingFile(path string, maxAgeDays int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename: path,
		MaxSize:  10, // megabytes
		MaxAge:   maxAgeDays,
		Compress: true,
	}
}

// Tee writes to every non-nil writer.
func Tee(writers ...io.Writer) io.Writer {
	ws := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			ws = append(ws, w)
		}
	}
	return io.MultiWriter(ws...)
}
