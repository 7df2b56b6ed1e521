package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestTextParser_CollapsesBlankLines(t *testing.T) {
	input := "IN THE HIGH COURT OF DELHI\nCivil Suit No. 12 of 2023\n\n\n\nThe plaintiff is the owner.   \n\nPrayer."
	got, err := (&TextParser{}).Parse(strings.NewReader(input), "plaint.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "IN THE HIGH COURT OF DELHI\nCivil Suit No. 12 of 2023\n\nThe plaintiff is the owner.\n\nPrayer."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_DropsMarkup(t *testing.T) {
	input := `# Lease Agreement

The tenant shall pay *monthly* rent of **Rs. 25,000**.

- Security deposit
- Notice period

` + "```\nclause 7.1\n```\n"

	got, err := (&MarkdownParser{}).Parse(strings.NewReader(input), "lease.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Lease Agreement\n\nThe tenant shall pay monthly rent of Rs. 25,000.\n\nSecurity deposit\nNotice period\n\nclause 7.1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHTMLParser_SkipsNonContent(t *testing.T) {
	input := `<html><head><title>Judgment</title><style>p{color:red}</style></head>
<body>
<nav>Home | Cases</nav>
<h1>State v. Sharma</h1>
<p>The appeal is   dismissed.</p>
<script>var x = 1;</script>
<ul><li>Costs awarded</li></ul>
</body></html>`

	got, err := (&HTMLParser{}).Parse(strings.NewReader(input), "judgment.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "State v. Sharma\n\nThe appeal is dismissed.\n\nCosts awarded"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.txt", "b.MD", "c.htm", "d.pdf", "e.docx"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}

	_, err := ForFile("scan.png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if IsSupportedExtension("scan.png") {
		t.Error("expected .png to be unsupported")
	}
}

func TestExtractText(t *testing.T) {
	got, err := ExtractText(strings.NewReader("\n  Section 106 notice  \n"), "notice.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Section 106 notice" {
		t.Errorf("unexpected text %q", got)
	}

	if _, err := ExtractText(strings.NewReader(" \n\n "), "blank.txt"); !errors.Is(err, ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}

	if _, err := ExtractText(strings.NewReader("x"), "archive.zip"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestPDFParser_InvalidInput(t *testing.T) {
	if _, err := (&PDFParser{}).Parse(strings.NewReader("not a pdf"), "bad.pdf"); err == nil {
		t.Error("expected an error for invalid pdf")
	}
}

func TestDOCXParser_InvalidInput(t *testing.T) {
	if _, err := (&DOCXParser{}).Parse(strings.NewReader("not a zip"), "bad.docx"); err == nil {
		t.Error("expected an error for invalid docx")
	}
}
