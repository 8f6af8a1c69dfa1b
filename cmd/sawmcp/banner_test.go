package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintBannerPlain(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printBanner(&buf, false)

	output := buf.String()
	if output == "" {
		t.Fatal("expected banner output")
	}
	if strings.Contains(output, "\033[") {
		t.Fatalf("plain banner must not contain ANSI escapes:\n%s", output)
	}
}

func TestPrintBannerColor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printBanner(&buf, true)

	if !strings.Contains(buf.String(), "\033[") {
		t.Fatal("color banner must contain ANSI escapes")
	}
}
