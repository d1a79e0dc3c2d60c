package util

import (
	"bytes"
	"encoding/base64"
	"testing"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

func TestSniffMimeHTTP(t *testing.T) {
	if got := SniffMimeHTTP(jpegHeader); got != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %q", got)
	}
	if got := SniffMimeHTTP(pngHeader); got != "image/png" {
		t.Errorf("Expected image/png, got %q", got)
	}
	if got := SniffMimeHTTP([]byte("plain text")); got != "application/octet-stream" {
		t.Errorf("Expected application/octet-stream, got %q", got)
	}
}

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	payload := []byte("hello")
	b64 := base64.StdEncoding.EncodeToString(payload)

	// Plain base64: no MIME hint
	got, mime, err := DecodeBase64MaybeDataURL(b64)
	if err != nil {
		t.Fatalf("Plain base64 failed: %v", err)
	}
	if !bytes.Equal(got, payload) || mime != "" {
		t.Errorf("Expected %q with empty MIME, got %q with %q", payload, got, mime)
	}

	// data: URI carries the MIME
	got, mime, err = DecodeBase64MaybeDataURL("data:image/png;base64," + b64)
	if err != nil {
		t.Fatalf("Data URL failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Expected %q, got %q", payload, got)
	}
	if mime != "image/png" {
		t.Errorf("Expected MIME image/png, got %q", mime)
	}

	if _, _, err := DecodeBase64MaybeDataURL("!!not base64!!"); err == nil {
		t.Error("Expected error for invalid base64")
	}
}

func TestPickMIME(t *testing.T) {
	if got := PickMIME("image/webp", "image/png", jpegHeader); got != "image/webp" {
		t.Errorf("Explicit MIME should win, got %q", got)
	}
	if got := PickMIME("", "image/png", jpegHeader); got != "image/png" {
		t.Errorf("Data URL hint should win over sniffing, got %q", got)
	}
	if got := PickMIME("", "", jpegHeader); got != "image/jpeg" {
		t.Errorf("Expected sniffed image/jpeg, got %q", got)
	}
	if got := PickMIME("", "", nil); got != "image/jpeg" {
		t.Errorf("Expected default image/jpeg, got %q", got)
	}
}

func TestMakeDataURL(t *testing.T) {
	if got := MakeDataURL("image/png", "QUJD"); got != "data:image/png;base64,QUJD" {
		t.Errorf("Unexpected data URL %q", got)
	}
}
