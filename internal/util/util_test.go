package util

import (
	"encoding/base64"
	"testing"
)

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	b64 := base64.StdEncoding.EncodeToString(payload)

	b, mime, err := DecodeBase64MaybeDataURL("data:image/jpeg;base64," + b64)
	if err != nil {
		t.Fatalf("data URL: %v", err)
	}
	if mime != "image/jpeg" {
		t.Fatalf("mime hint = %q", mime)
	}
	if len(b) != len(payload) || b[0] != 0xFF {
		t.Fatalf("payload mismatch: %v", b)
	}

	b, mime, err = DecodeBase64MaybeDataURL(b64)
	if err != nil {
		t.Fatalf("bare base64: %v", err)
	}
	if mime != "" || len(b) != len(payload) {
		t.Fatalf("bare decode = %v %q", b, mime)
	}

	if _, _, err := DecodeBase64MaybeDataURL("!!not base64!!"); err == nil {
		t.Fatal("expected error for junk input")
	}
}

func TestPickMIME(t *testing.T) {
	if got := PickMIME("image/png", nil); got != "image/png" {
		t.Fatalf("hint ignored: %q", got)
	}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01}
	if got := PickMIME("", jpeg); got != "image/jpeg" {
		t.Fatalf("sniff = %q", got)
	}
	if got := PickMIME("", nil); got != "image/jpeg" {
		t.Fatalf("default = %q", got)
	}
}

func TestStripCodeFences(t *testing.T) {
	if got := StripCodeFences("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Fatalf("json fence = %q", got)
	}
	if got := StripCodeFences("plain"); got != "plain" {
		t.Fatalf("plain = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("ab", 4); got != "ab" {
		t.Fatalf("got %q", got)
	}
}
