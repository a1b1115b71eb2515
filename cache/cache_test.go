package cache

import (
	"strings"
	"testing"
	"time"
)

func TestNewFileStorage_EmptyDir(t *testing.T) {
	if _, err := NewFileStorage(""); err == nil {
		t.Fatal("Expected error for empty cache directory")
	}
}

func TestFileStorage_SetAndGet(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	key := KeyForURL("http://example.com/playlist.m3u")
	content := []byte("#EXTM3U\n#EXTINF:-1,Channel\nhttp://example.com/stream.ts\n")

	if err := storage.Set(key, content); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := storage.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if string(entry.Content) != string(content) {
		t.Errorf("Expected content %q, got %q", content, entry.Content)
	}
	if time.Since(entry.FetchedAt) > time.Minute {
		t.Errorf("Expected recent timestamp, got %v", entry.FetchedAt)
	}
}

func TestFileStorage_GetMissing(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	_, err = storage.Get("http://example.com/unknown.m3u")
	if err == nil {
		t.Fatal("Expected error for missing entry")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestFileStorage_IsExpired(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	key := KeyForURL("http://example.com/playlist.m3u")

	// Missing entries count as expired
	expired, err := storage.IsExpired(key, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error for missing entry, got: %v", err)
	}
	if !expired {
		t.Error("Expected missing entry to be expired")
	}

	if err := storage.Set(key, []byte("#EXTM3U\n")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	expired, err = storage.IsExpired(key, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if expired {
		t.Error("Expected fresh entry to not be expired")
	}

	expired, err = storage.IsExpired(key, time.Nanosecond)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !expired {
		t.Error("Expected entry to be expired with tiny TTL")
	}
}

func TestFileStorage_KeysAreIsolated(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if err := storage.Set("http://a.example.com/x.m3u", []byte("a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := storage.Set("http://b.example.com/x.m3u", []byte("b")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := storage.Get("http://a.example.com/x.m3u")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(entry.Content) != "a" {
		t.Errorf("Expected isolated entries, got %q", entry.Content)
	}
}
