package render

import (
	"errors"
	"strings"
	"testing"
)

func TestDocumentShell(t *testing.T) {
	got, err := DocumentString(Page{
		Body:    `<div data-reactroot="">hi</div>`,
		Scripts: []ScriptTag{{Src: "/main.js"}},
	})
	if err != nil {
		t.Fatalf("DocumentString: %v", err)
	}
	want := "<!DOCTYPE html>\n" +
		"<html lang=\"en\">\n" +
		"<head>\n" +
		"  <meta charset=\"UTF-8\">\n" +
		"  <meta http-equiv=\"x-ua-compatible\" content=\"ie=edge\">\n" +
		"  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n" +
		"</head>\n" +
		"<body>\n" +
		"  <div id=\"react-app\"><div data-reactroot=\"\">hi</div></div>\n" +
		"  <script src=\"/main.js\"></script>\n" +
		"</body>\n" +
		"</html>\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDocumentHead(t *testing.T) {
	got, err := DocumentString(Page{
		Title:  `Colors & "Shapes"`,
		Lang:   "fr",
		RootID: "app",
		Meta:   []MetaTag{{Property: "og:title", Content: "Colors"}},
		Links:  []LinkTag{{Rel: "stylesheet", Href: "/app.css", Media: "screen"}},
		Styles: []string{"body{margin:0}"},
		Scripts: []ScriptTag{
			{Src: "/a.js", Module: true, Type: "ignored"},
			{Src: "/b.js", Defer: true, Async: true},
			{Inline: "window.x = 1;"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<html lang="fr">`,
		`<title>Colors &amp; &quot;Shapes&quot;</title>`,
		`<meta property="og:title" content="Colors">`,
		`<link rel="stylesheet" href="/app.css" media="screen">`,
		`<style>body{margin:0}</style>`,
		`<div id="app"></div>`,
		`<script src="/a.js" type="module"></script>`,
		`<script src="/b.js" defer async></script>`,
		`<script>window.x = 1;</script>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("document missing %q:\n%s", want, got)
		}
	}
}

func TestDocumentEscapesAttributes(t *testing.T) {
	got, err := DocumentString(Page{Links: []LinkTag{{Rel: "icon", Href: `/x"><script>`}}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, `"><script>`) {
		t.Errorf("unescaped attribute in %s", got)
	}
}

type failingWriter struct{ n int }

var errWrite = errors.New("write failed")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errWrite
	}
	w.n--
	return len(p), nil
}

func TestDocumentWriteError(t *testing.T) {
	if err := Document(&failingWriter{n: 3}, Page{Body: "x"}); !errors.Is(err, errWrite) {
		t.Errorf("err = %v, want errWrite", err)
	}
}
