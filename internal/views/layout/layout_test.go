package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestLayoutRendersProvidedContent(t *testing.T) {
	nav := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<nav>menu</nav>"))
		return err
	})
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<section>gallery</section>"))
		return err
	})

	var buf bytes.Buffer
	if err := Layout("Gallery & Co", nav, content).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Gallery &amp; Co</title>") {
		t.Fatalf("expected escaped document title to be rendered: %s", out)
	}
	if !strings.Contains(out, "menu") || !strings.Contains(out, "gallery") {
		t.Fatalf("expected nav and content sections in output: %s", out)
	}
	if !strings.Contains(out, `class="wide"`) {
		t.Fatalf("expected wide main column: %s", out)
	}
}

func TestPublicOmitsNavigation(t *testing.T) {
	var buf bytes.Buffer
	if err := Public("Sign in", templ.NopComponent).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render public layout: %v", err)
	}
	if strings.Contains(buf.String(), "<nav") {
		t.Fatalf("expected no navigation in public layout: %s", buf.String())
	}
}

func TestMainClassReflectsNavigation(t *testing.T) {
	if mainClass(true) == mainClass(false) {
		t.Fatal("expected different main class depending on navigation")
	}
}
