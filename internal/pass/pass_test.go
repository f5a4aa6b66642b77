package pass

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/evcraddock/visitor-pass/internal/request"
)

func TestGenerateContainsFields(t *testing.T) {
	g := testGenerator(filepath.Join(t.TempDir(), "missing.png"))

	out, err := g.Generate(approvedJane())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:8])
	}
	for _, want := range []string{"Visitor Pass", "Jane Doe", "Approved", "alice", "555-1234", "2024-06-01", "Meeting", "2024-05-30 10:00", "req-42"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("expected %q in generated pass", want)
		}
	}
}

func TestGenerateLabelsInOrder(t *testing.T) {
	g := testGenerator("")

	out, err := g.Generate(approvedJane())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := []string{"Request ID:", "Requested By:", "Visitor Name:", "Contact:", "Visit Date:", "Purpose:", "Status:", "Admin Comment:", "Timestamp:"}
	var labels []string
	for _, s := range shownText(out) {
		if strings.HasSuffix(s, ":") {
			labels = append(labels, s)
		}
	}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestGenerateWithoutLogo(t *testing.T) {
	g := testGenerator(filepath.Join(t.TempDir(), "does-not-exist.png"))

	out, err := g.Generate(approvedJane())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Only the QR code is embedded.
	if n := bytes.Count(out, []byte("/Subtype /Image")); n != 1 {
		t.Errorf("got %d images, want 1", n)
	}
}

func TestGenerateWithLogo(t *testing.T) {
	logo := filepath.Join(t.TempDir(), "logo.png")
	writePNG(t, logo)
	g := testGenerator(logo)

	out, err := g.Generate(approvedJane())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if n := bytes.Count(out, []byte("/Subtype /Image")); n != 2 {
		t.Errorf("got %d images, want logo and qr code", n)
	}
}

func TestGenerateUnreadableLogo(t *testing.T) {
	logo := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(logo, []byte("not an image"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	g := testGenerator(logo)

	if _, err := g.Generate(approvedJane()); err == nil {
		t.Fatal("expected error for corrupt logo")
	}
}

func TestGenerateIsRepeatable(t *testing.T) {
	g := testGenerator("")
	req := approvedJane()

	first, err := g.Generate(req)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := g.Generate(req)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if !reflect.DeepEqual(shownText(first), shownText(second)) {
		t.Errorf("text differs between runs:\n%v\n%v", shownText(first), shownText(second))
	}
}

func TestGenerateCompressed(t *testing.T) {
	g := New("")

	out, err := g.Generate(approvedJane())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatal("expected PDF header")
	}
	if bytes.Contains(out, []byte("(Jane Doe) Tj")) {
		t.Error("expected page content to be compressed")
	}
}

func TestGenerateIncompleteRecord(t *testing.T) {
	g := testGenerator("")

	tests := []struct {
		name string
		req  *request.VisitorRequest
	}{
		{"nil", nil},
		{"no requester", &request.VisitorRequest{Status: request.StatusApproved, Timestamp: "2024-05-30 10:00"}},
		{"no status", &request.VisitorRequest{RequestedBy: "alice", Timestamp: "2024-05-30 10:00"}},
		{"no timestamp", &request.VisitorRequest{RequestedBy: "alice", Status: request.StatusApproved}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Generate(tt.req); !errors.Is(err, ErrIncompleteRecord) {
				t.Errorf("err = %v, want ErrIncompleteRecord", err)
			}
		})
	}
}

func TestGenerateNonLatinText(t *testing.T) {
	g := testGenerator("")
	req := approvedJane()
	req.VisitorName = "José Müller"

	if _, err := g.Generate(req); err != nil {
		t.Fatalf("generate: %v", err)
	}
}

func TestPayload(t *testing.T) {
	want := "Request ID: req-42\nVisitor Name: Jane Doe\nDate: 2024-06-01\nStatus: Approved"
	if got := Payload(approvedJane()); got != want {
		t.Errorf("payload = %q, want %q", got, want)
	}
	if Payload(approvedJane()) != Payload(approvedJane()) {
		t.Error("payload is not deterministic")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("665f1c"); got != "VisitorPass_665f1c.pdf" {
		t.Errorf("filename = %q", got)
	}
}

var tjPattern = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\) Tj`)

// shownText returns the strings drawn on the page, in order.
func shownText(pdf []byte) []string {
	var out []string
	for _, m := range tjPattern.FindAllSubmatch(pdf, -1) {
		out = append(out, string(m[1]))
	}
	return out
}

func approvedJane() *request.VisitorRequest {
	return &request.VisitorRequest{
		ID:           "req-42",
		RequestedBy:  "alice",
		VisitorName:  "Jane Doe",
		Contact:      "555-1234",
		VisitDate:    "2024-06-01",
		Purpose:      "Meeting",
		Status:       request.StatusApproved,
		AdminComment: "Approved",
		Timestamp:    "2024-05-30 10:00",
	}
}

func testGenerator(logo string) *Generator {
	return &Generator{
		LogoPath: logo,
		Compress: false,
		Now:      func() time.Time { return time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC) },
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
