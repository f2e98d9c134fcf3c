package terminal

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStderr captures stderr output during the execution of f.
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestLogger_Log_TagAndMessage(t *testing.T) {
	// Disable colors for predictable output
	DisableColors()
	defer EnableColors()

	logger := &Logger{isTTY: false}

	output := captureStderr(func() {
		logger.Log("test message", StyleWarning)
	})

	if !strings.Contains(output, "[sar]") {
		t.Errorf("expected [sar] tag in output, got %q", output)
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("expected message in output, got %q", output)
	}
}

func TestLogger_Logf(t *testing.T) {
	DisableColors()
	defer EnableColors()

	logger := &Logger{isTTY: false}

	output := captureStderr(func() {
		logger.Logf(StyleInfo, "resolved %d descriptors", 2)
	})

	if !strings.Contains(output, "resolved 2 descriptors") {
		t.Errorf("expected formatted message, got %q", output)
	}
}
