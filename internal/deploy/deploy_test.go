package deploy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	lumenerrors "github.com/lumen-go/lumen/internal/errors"
)

type fakePutter struct {
	puts    []s3.PutObjectInput
	failKey string
}

func (f *fakePutter) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failKey != "" && *input.Key == f.failKey {
		return nil, errors.New("access denied")
	}
	f.puts = append(f.puts, *input)
	return &s3.PutObjectOutput{}, nil
}

func testDeployer(client ObjectPutter, prefix string) *Deployer {
	return New(client, Options{
		Bucket: "my-bucket",
		Prefix: prefix,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func buildDist(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"index.html":           "<html></html>",
		"main.a1b2c3d4.js":     "console.log(1)",
		"css/app.e5f6a7b8.css": "body{}",
		"robots.txt":           "User-agent: *",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return dir
}

func TestDir_UploadsEverything(t *testing.T) {
	client := &fakePutter{}
	dist := buildDist(t)

	count, err := testDeployer(client, "site/").Dir(context.Background(), dist)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}

	var keys []string
	for _, p := range client.puts {
		keys = append(keys, *p.Key)
	}
	sort.Strings(keys)
	want := []string{
		"site/css/app.e5f6a7b8.css",
		"site/index.html",
		"site/main.a1b2c3d4.js",
		"site/robots.txt",
	}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestDir_Headers(t *testing.T) {
	client := &fakePutter{}
	dist := buildDist(t)

	if _, err := testDeployer(client, "").Dir(context.Background(), dist); err != nil {
		t.Fatalf("Dir: %v", err)
	}

	byKey := map[string]s3.PutObjectInput{}
	for _, p := range client.puts {
		byKey[*p.Key] = p
	}

	js := byKey["main.a1b2c3d4.js"]
	if *js.CacheControl != "public, max-age=31536000, immutable" {
		t.Fatalf("fingerprinted CacheControl = %q", *js.CacheControl)
	}

	html := byKey["index.html"]
	if *html.CacheControl != "public, max-age=3600, must-revalidate" {
		t.Fatalf("html CacheControl = %q", *html.CacheControl)
	}
	if got := *html.ContentType; got != "text/html; charset=utf-8" {
		t.Fatalf("html ContentType = %q", got)
	}
}

func TestDir_MissingSource(t *testing.T) {
	_, err := testDeployer(&fakePutter{}, "").Dir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
	var lerr *lumenerrors.LumenError
	if !errors.As(err, &lerr) || lerr.Code != "E161" {
		t.Fatalf("err = %v, want E161", err)
	}
}

func TestDir_UploadFailure(t *testing.T) {
	client := &fakePutter{failKey: "robots.txt"}

	_, err := testDeployer(client, "").Dir(context.Background(), buildDist(t))
	if err == nil {
		t.Fatal("expected error when an upload fails")
	}
	var lerr *lumenerrors.LumenError
	if !errors.As(err, &lerr) || lerr.Code != "E162" {
		t.Fatalf("err = %v, want E162", err)
	}
}
