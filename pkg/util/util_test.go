package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	type args struct {
		srcPath string
		outDir  string
		suffix  string
	}
	tests := []struct {
		name    string
		args    args
		want    string
		wantErr bool
	}{
		{
			name: "Text file to translation",
			args: args{srcPath: filepath.Join("in", "book1.txt"), outDir: "out", suffix: ".txt"},
			want: filepath.Join("out", "book1.txt"),
		},
		{
			name: "Metadata suffix",
			args: args{srcPath: filepath.Join("in", "book1.txt"), outDir: "out", suffix: ".meta.json"},
			want: filepath.Join("out", "book1.meta.json"),
		},
		{
			name: "File without extension",
			args: args{srcPath: filepath.Join("in", "book1"), outDir: "out", suffix: ".txt"},
			want: filepath.Join("out", "book1.txt"),
		},
		{
			name: "Multiple extensions keep the inner one",
			args: args{srcPath: "scroll.grc.txt", outDir: "out", suffix: ".error.json"},
			want: filepath.Join("out", "scroll.grc.error.json"),
		},
		{
			name: "Spaces in name",
			args: args{srcPath: filepath.Join("in", "Book One.txt"), outDir: "out", suffix: ".txt"},
			want: filepath.Join("out", "Book One.txt"),
		},
		{
			name:    "Empty source path",
			args:    args{srcPath: "", outDir: "out", suffix: ".txt"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath(tt.args.srcPath, tt.args.outDir, tt.args.suffix)
			if (err != nil) != tt.wantErr {
				t.Errorf("OutputPath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("OutputPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateDirPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"Existing directory", dir, false},
		{"Regular file", file, true},
		{"Missing path", filepath.Join(dir, "missing"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDirPath(tt.path); (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "errors", "book1.error.json")

	if err := WriteJSON(p, map[string]string{"status": "error"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "error" {
		t.Errorf("read back %v", got)
	}
	if !FileExists(p) {
		t.Error("FileExists() = false for written file")
	}
}
