package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestJSONRPCFramingMultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	msgs := []string{
		`{"jsonrpc":"2.0","method":"initialized"}`,
		`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"text":"Sub Main()\r\nEnd Sub"}}}`,
	}
	for _, m := range msgs {
		if err := writeMessage(&buf, []byte(m)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	reader := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	for i, want := range msgs {
		got, err := readMessage(reader)
		if err != nil {
			t.Fatalf("read message %d: %v", i, err)
		}
		if string(got) != want {
			t.Fatalf("message %d = %s", i, got)
		}
	}
	if _, err := readMessage(reader); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after the last message, got %v", err)
	}
}

func TestReadMessageHeaders(t *testing.T) {
	raw := "Content-Type: application/vscode-jsonrpc; charset=utf-8\r\ncontent-length: 2\r\n\r\n{}"
	got, err := readMessage(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("payload = %q", got)
	}
}

func TestReadMessageRejectsBadFrames(t *testing.T) {
	tests := map[string]string{
		"missing length":  "Content-Type: x\r\n\r\n{}",
		"negative length": "Content-Length: -1\r\n\r\n",
		"garbage length":  "Content-Length: ten\r\n\r\n",
		"too large":       "Content-Length: 999999999999\r\n\r\n",
		"short body":      "Content-Length: 10\r\n\r\n{}",
		"cut header":      "Content-Length: 2",
	}
	for name, raw := range tests {
		if _, err := readMessage(bufio.NewReader(strings.NewReader(raw))); err == nil || errors.Is(err, io.EOF) {
			t.Errorf("%s: expected a framing error, got %v", name, err)
		}
	}
}
