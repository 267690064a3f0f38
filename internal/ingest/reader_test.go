package ingest

import (
	"slices"
	"strings"
	"testing"
)

func TestReadLines(t *testing.T) {
	t.Parallel()

	input := `# exported from proxy history
http://target.example/a

  https://target.example:8443/b?x=1  
# comment
not a url
`
	got, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"http://target.example/a",
		"https://target.example:8443/b?x=1",
		"not a url",
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestReadHTMLLinks(t *testing.T) {
	t.Parallel()

	const page = `<!DOCTYPE html>
<html>
<head>
  <link rel="stylesheet" href="/static/site.css">
  <script src="https://cdn.example/lib.js"></script>
</head>
<body>
  <a href="/login">Login</a>
  <a href="search?q=1">Search</a>
  <a href="/login">Login again</a>
  <a href="#">Top</a>
  <a href="javascript:void(0)">JS</a>
  <a href="mailto:admin@target.example">Mail</a>
  <form action="/api/submit" method="post"></form>
  <img src="//images.target.example/logo.png">
  <iframe src="http://other.example:8080/frame"></iframe>
</body>
</html>`

	t.Run("resolves relative links against the base", func(t *testing.T) {
		t.Parallel()

		got, err := ReadHTMLLinks(strings.NewReader(page), "https://target.example/app/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{
			"https://target.example/static/site.css",
			"https://cdn.example/lib.js",
			"https://target.example/login",
			"https://target.example/app/search?q=1",
			"https://target.example/api/submit",
			"https://images.target.example/logo.png",
			"http://other.example:8080/frame",
		}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("skips relative links without a base", func(t *testing.T) {
		t.Parallel()

		got, err := ReadHTMLLinks(strings.NewReader(page), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{
			"https://cdn.example/lib.js",
			"http://other.example:8080/frame",
		}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("invalid base is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := ReadHTMLLinks(strings.NewReader(page), "http://[::1"); err == nil {
			t.Error("expected error for invalid base URL")
		}
	})
}

func TestRead(t *testing.T) {
	t.Parallel()

	got, err := Read(strings.NewReader("http://a.example/\n"), FormatLines, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 URL, got %v", got)
	}

	got, err = Read(strings.NewReader(`<a href="http://b.example/">b</a>`), FormatHTML, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"http://b.example/"}) {
		t.Errorf("unexpected links %v", got)
	}

	if _, err := Read(strings.NewReader(""), Format(99), ""); err == nil {
		t.Error("expected error for unknown format")
	}
}
