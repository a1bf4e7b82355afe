package utils

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func Test_FormatterLayout(t *testing.T) {
	f := &Formatter{}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "wall short",
		Caller: &runtime.Frame{
			File:     "session/machine.go",
			Line:     42,
			Function: "session.(*Machine).Tick",
		},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	line := string(out)
	if !strings.HasPrefix(line, "2025-03-14 09:30:00 [warning] ") {
		t.Fatalf("bad prefix: %q", line)
	}
	if !strings.Contains(line, "machine.go:42 Tick wall short") {
		t.Fatalf("bad caller layout: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatal("a log line must end with a newline")
	}
}
