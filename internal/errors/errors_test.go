package errors

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    CodeConfigNotFound,
			wantMsg: "Configuration file not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "render error",
			code:    CodeRenderTimeout,
			wantMsg: "Render timed out",
			wantCat: CategoryRender,
		},
		{
			name:    "input error",
			code:    CodeInvalidTree,
			wantMsg: "Invalid tree document",
			wantCat: CategoryInput,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "page.json")
	if err.Message != `file "page.json" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "page.json" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New(CodeRenderFailed)
	if got, want := err.Error(), "E110: Render failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.Wrap(stderrors.New("boom"))
	if got, want := err.Error(), "E110: Render failed: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "prerender.json")
	content := "{\n  \"server\": {\n    \"port\": \"eighty\"\n  }\n}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New(CodeConfigInvalid).WithLocation(tmpFile, 3, 13)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile || err.Location.Line != 3 || err.Location.Column != 13 {
		t.Errorf("Location = %+v", err.Location)
	}
	if len(err.Context) != 5 {
		t.Errorf("Context = %q, want 5 lines", err.Context)
	}
}

func TestError_WithOffset(t *testing.T) {
	data := []byte("{\n  \"type\": \"div\",\n  \"children\": [}\n}")
	var v any
	jsonErr := json.Unmarshal(data, &v)
	var syntaxErr *json.SyntaxError
	if !stderrors.As(jsonErr, &syntaxErr) {
		t.Fatalf("expected syntax error, got %v", jsonErr)
	}

	err := New(CodeInvalidTree).WithOffset("page.json", data, syntaxErr.Offset).Wrap(jsonErr)
	if err.Location.Line != 3 {
		t.Errorf("Line = %d, want 3", err.Location.Line)
	}
	if len(err.Context) == 0 || err.Context[0] != "{" {
		t.Errorf("Context = %q", err.Context)
	}

	DisableColors()
	defer EnableColors()
	out := err.Format()
	if !strings.Contains(out, `→    3 │   "children": [}`) {
		t.Errorf("Format does not mark the error line:\n%s", out)
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd\n")
	tests := []struct {
		offset     int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{100, 3, 1},
	}
	for _, tt := range tests {
		line, col := lineColumn(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("lineColumn(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestError_Builders(t *testing.T) {
	err := New(CodeSnapshotFailed).WithDetail("Custom detail").WithSuggestion("Check the bucket")
	if err.Detail != "Custom detail" {
		t.Errorf("Detail = %q, want %q", err.Detail, "Custom detail")
	}
	if err.Suggestion != "Check the bucket" {
		t.Errorf("Suggestion = %q, want %q", err.Suggestion, "Check the bucket")
	}
}

func TestError_Wrap(t *testing.T) {
	inner := stderrors.New("disk full")
	outer := New(CodeSnapshotFailed).Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeRenderFailed) != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	ce := New(CodeRenderTimeout)
	if FromError(ce, CodeRenderFailed) != ce {
		t.Error("FromError should return *Error as-is")
	}

	stdErr := stderrors.New("test error")
	result := FromError(stdErr, CodeRenderFailed)
	if result.Wrapped != stdErr || result.Code != CodeRenderFailed {
		t.Errorf("FromError = %+v", result)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "page.json", Line: 10, Column: 5}, "page.json:10:5"},
		{"without column", &Location{File: "page.json", Line: 10}, "page.json:10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeRenderTimeout).Wrap(stderrors.New("engine: suspension outside a boundary did not resolve in time"))
	out := err.Format()

	for _, want := range []string{
		"ERROR E111: Render timed out",
		"Cause: engine: suspension",
		"Hint: Wrap the component in a suspense boundary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format emitted colors while disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New(CodeInvalidTree)
	err.Location = &Location{File: "page.json", Line: 2, Column: 3}
	if got, want := err.FormatCompact(), "page.json:2:3: E130: Invalid tree document"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New(CodeConfigInvalid).Wrap(stderrors.New(`bad "port"`))
	err.Location = &Location{File: "prerender.json", Line: 3, Column: 13}

	var got map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &got); e != nil {
		t.Fatalf("FormatJSON is not valid JSON: %v", e)
	}
	if got["code"] != "E101" || got["category"] != "config" || got["cause"] != `bad "port"` {
		t.Errorf("FormatJSON = %v", got)
	}
	loc, _ := got["location"].(map[string]any)
	if loc["line"] != float64(3) {
		t.Errorf("location = %v", loc)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, stderrors.New("plain"))
	if got := b.String(); got != "\nERROR: plain\n\n" {
		t.Errorf("got %q", got)
	}

	b.Reset()
	Fprint(&b, New(CodeServerFailed))
	if !strings.Contains(b.String(), "ERROR E140: Server failed") {
		t.Errorf("got %q", b.String())
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s = %+v", code, tmpl)
		}
	}

	Register("E199", Template{Category: CategoryCLI, Message: "Custom"})
	defer delete(registry, "E199")
	if New("E199").Message != "Custom" {
		t.Error("registered template not used")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("", 10); got != nil {
		t.Errorf("wrapText(\"\") = %v", got)
	}
	got := wrapText("one two three four five", 9)
	want := []string{"one two", "three", "four five"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}

func TestFprintFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	FprintFormat(&b, New(CodeServerFailed), "compact")
	if got := b.String(); got != "E140: Server failed\n" {
		t.Errorf("compact = %q", got)
	}

	b.Reset()
	FprintFormat(&b, stderrors.New("plain"), "json")
	var got map[string]any
	if err := json.Unmarshal([]byte(b.String()), &got); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if got["message"] != "plain" {
		t.Errorf("json = %v", got)
	}

	b.Reset()
	FprintFormat(&b, stderrors.New("plain"), "text")
	if got := b.String(); got != "\nERROR: plain\n\n" {
		t.Errorf("text = %q", got)
	}
}
