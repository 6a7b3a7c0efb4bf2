package osfilesystem

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileSystem_WriteFileReplaces(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "replay.md")

	for _, content := range []string{"first version", "second"} {
		if err := fs.WriteFile(path, []byte(content)); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != content {
			t.Errorf("content = %q, want %q", data, content)
		}
	}

	names, err := fs.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"replay.md"}) {
		t.Errorf("directory holds %v, want only the file", names)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("mode = %v", perm)
	}
}

func TestFileSystem_WriteFileIntoFile(t *testing.T) {
	fs := New()
	blocker := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFile(filepath.Join(blocker, "frame_0000.png"), []byte("png")); err == nil {
		t.Error("expected an error when the parent is a file")
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "a", "b", "c", "test.txt")

	if err := fs.WriteFile(testPath, []byte("test")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	testPath := filepath.Join(dir, "test.txt")
	os.WriteFile(testPath, []byte("test"), 0o644)

	tests := []struct {
		path string
		want bool
	}{
		{testPath, true},
		{dir, true},
		{filepath.Join(dir, "nonexistent.txt"), false},
	}
	for _, tt := range tests {
		got, err := fs.Exists(tt.path)
		if err != nil {
			t.Fatalf("Exists(%s) failed: %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFileSystem_Size(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	os.WriteFile(path, make([]byte, 1234), 0o644)

	size, err := fs.Size(path)
	if err != nil || size != 1234 {
		t.Errorf("Size = %d, %v; want 1234", size, err)
	}
	if _, err := fs.Size(dir); err == nil {
		t.Error("expected error for a directory")
	}
	if _, err := fs.Size(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestFileSystem_ReadDirSorted(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	for _, name := range []string{"frame_0002.png", "frame_0000.png", "frame_0001.png"} {
		os.WriteFile(filepath.Join(dir, name), nil, 0o644)
	}

	names, err := fs.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	want := []string{"frame_0000.png", "frame_0001.png", "frame_0002.png"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ReadDir = %v, want %v", names, want)
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "test.txt")
	os.WriteFile(testPath, []byte("test"), 0o644)

	if err := fs.Remove(testPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if exists, _ := fs.Exists(testPath); exists {
		t.Error("expected file to be removed")
	}
}

func TestFileSystem_RemoveAll(t *testing.T) {
	fs := New()
	root := filepath.Join(t.TempDir(), "ReplayFrames-x")
	fs.WriteFile(filepath.Join(root, "frame_0000.png"), []byte("png"))

	if err := fs.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if exists, _ := fs.Exists(root); exists {
		t.Error("expected directory to be removed")
	}
	if err := fs.RemoveAll(root); err != nil {
		t.Errorf("RemoveAll on a missing path should succeed, got %v", err)
	}
}
