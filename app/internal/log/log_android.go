// SPDX-License-Identifier: Unlicense OR MIT

package log

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/ebitengine/purego"
)

const androidLogInfo = 4

var androidLogWrite func(prio int32, tag, text string) int32

func init() {
	lib, err := purego.Dlopen("liblog.so", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return
	}
	purego.RegisterLibFunc(&androidLogWrite, lib, "__android_log_write")
	SetLogger(slog.New(slog.NewTextHandler(newLogcatWriter(), &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// logcat already includes timestamps.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})))
}

func newLogcatWriter() io.Writer {
	r, w := io.Pipe()
	go func() {
		// 1024 is the truncation limit from android/log.h, plus a \n.
		lineBuf := bufio.NewReaderSize(r, 1024)
		for {
			line, _, err := lineBuf.ReadLine()
			if err != nil {
				break
			}
			androidLogWrite(androidLogInfo, "glwin", string(line))
		}
	}()
	return w
}
