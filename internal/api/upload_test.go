package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write doc: %v", err)
	}
	return path
}

func TestEvaluateWithDocsMultipart(t *testing.T) {
	dir := t.TempDir()
	first := writeDoc(t, dir, "policy.pdf", "policy body")
	second := writeDoc(t, dir, "claim.pdf", "claim body")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evaluate-with-docs" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Errorf("Authorization = %q", got)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("query"); got != "What does the claim cover?" {
			t.Errorf("query field = %q", got)
		}

		files := r.MultipartForm.File["files"]
		if len(files) != 2 {
			t.Fatalf("expected 2 file parts, got %d", len(files))
		}
		// Base filenames only, in staging order
		if files[0].Filename != "policy.pdf" || files[1].Filename != "claim.pdf" {
			t.Errorf("filenames = %q, %q", files[0].Filename, files[1].Filename)
		}
		for i, want := range []string{"policy body", "claim body"} {
			f, err := files[i].Open()
			if err != nil {
				t.Fatalf("failed to open part: %v", err)
			}
			content, _ := io.ReadAll(f)
			f.Close()
			if string(content) != want {
				t.Errorf("part %d content = %q, want %q", i, content, want)
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"answer": "water damage"})
	}))
	defer server.Close()

	raw, err := newTestClient(server).EvaluateWithDocs(context.Background(), "tok-abc",
		"What does the claim cover?", []string{first, second})
	if err != nil {
		t.Fatalf("EvaluateWithDocs: %v", err)
	}
	if !strings.Contains(string(raw), "water damage") {
		t.Errorf("unexpected response: %s", raw)
	}
}

func TestEvaluateWithDocsFilenameLeaksNoPath(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "secret.pdf", "content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		for _, fh := range r.MultipartForm.File["files"] {
			if strings.ContainsAny(fh.Filename, `/\`) {
				t.Errorf("filename leaks directory structure: %q", fh.Filename)
			}
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server).EvaluateWithDocs(context.Background(), "tok", "q", []string{path}); err != nil {
		t.Fatalf("EvaluateWithDocs: %v", err)
	}
}

func TestEvaluateWithDocsMissingFileSendsNothing(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.pdf", "content")
	missing := filepath.Join(dir, "vanished.pdf")

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).EvaluateWithDocs(context.Background(), "tok", "q",
		[]string{good, missing})
	if err == nil {
		t.Fatal("expected error for vanished staged file")
	}

	// Local file error, not a server or connection error
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("vanished file surfaced as APIError: %v", err)
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		t.Errorf("vanished file surfaced as ConnectionError: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}

	if got := requests.Load(); got != 0 {
		t.Errorf("no partial request may be sent, server saw %d", got)
	}
}

func TestEvaluateWithDocsServerError(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.pdf", "content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "unsupported file type"})
	}))
	defer server.Close()

	_, err := newTestClient(server).EvaluateWithDocs(context.Background(), "tok", "q", []string{path})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Detail != "unsupported file type" {
		t.Errorf("detail = %q", apiErr.Detail)
	}
}

func TestBuildUploadBodyClosesHandlesOnFailure(t *testing.T) {
	// A directory in the path list makes os.Open succeed but io.Copy fail on
	// some platforms; a missing file is the deterministic failure. Either
	// way the earlier handles must already be closed when the error returns.
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.pdf", "content")
	missing := filepath.Join(dir, "missing.pdf")

	_, _, err := buildUploadBody("q", []string{good, missing})
	if err == nil {
		t.Fatal("expected error")
	}

	// The handle for good.pdf is closed by the deferred cleanup; the file
	// must be removable on platforms where open handles block deletion.
	if err := os.Remove(good); err != nil {
		t.Errorf("good.pdf still held open: %v", err)
	}
}
