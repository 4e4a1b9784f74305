package gcs

import (
	"strings"
	"testing"
)

func TestObjectName(t *testing.T) {
	n := ObjectName("Foto Zapatilla.JPG")
	if !strings.HasPrefix(n, "products/") || !strings.HasSuffix(n, ".jpg") {
		t.Fatalf("name = %q", n)
	}
	if n == ObjectName("Foto Zapatilla.JPG") {
		t.Fatal("object names must be unique")
	}
	if got := ObjectName("noext"); strings.Contains(got[len("products/"):], ".") {
		t.Fatalf("unexpected extension in %q", got)
	}
}

func TestPublicURL(t *testing.T) {
	if got := PublicURL("vibe-img", "/products/a.png"); got != "https://storage.googleapis.com/vibe-img/products/a.png" {
		t.Fatalf("url = %q", got)
	}
}
