package tests

import (
	"testing"

	"github.com/aretw0/gforms/pkg/ports"
)

// Page is a fixture for the extractor contract.
const Page = `<!DOCTYPE html>
<html><head>
<script type="text/javascript" nonce="x">var FB_PUBLIC_LOAD_DATA_ = [null,["desc",[]],"/forms/d/e/1/formResponse","name"]
;</script>
</head><body>
<form action="https://docs.google.com/forms/d/e/1/formResponse" method="POST">
<input type="hidden" name="fbzx" value="-123456789">
<input type="hidden" name="pageHistory" value="0,1">
<input type="hidden" name="partialResponse" value="[null,null,&quot;-123456789&quot;]">
</form>
<div class="links"><a href="https://docs.google.com/forms/d/e/1/viewform?usp=form_confirm">Submit another response</a>
<a href="https://docs.google.com/forms/d/e/1/viewanalytics">See previous responses</a></div>
<div><a href="https://example.com/elsewhere">Elsewhere</a></div>
<div data-item-id="42"><div><img src="https://example.com/cat.png"><img src="https://example.com/other.png"></div></div>
<div data-params="%.@.[7,&quot;Q&quot;]"><img src="https://example.com/attachment.png"></div>
</body></html>`

// ExtractorContractTest is a reusable test suite that verifies if an adapter complies with ports.Extractor.
func ExtractorContractTest(t *testing.T, ex ports.Extractor) {
	t.Helper()
	body := []byte(Page)

	t.Run("HiddenInput", func(t *testing.T) {
		want := map[string]string{
			"fbzx":            "-123456789",
			"pageHistory":     "0,1",
			"partialResponse": `[null,null,"-123456789"]`,
		}
		for name, value := range want {
			got, ok := ex.HiddenInput(body, name)
			if !ok {
				t.Fatalf("hidden input %s not found", name)
			}
			if got != value {
				t.Errorf("hidden input %s: got %q, want %q", name, got, value)
			}
		}
	})

	t.Run("HiddenInput_NotFound", func(t *testing.T) {
		if _, ok := ex.HiddenInput(body, "missing"); ok {
			t.Error("expected missing input to be reported as absent")
		}
	})

	t.Run("EmbeddedJSON", func(t *testing.T) {
		got, ok := ex.EmbeddedJSON(body)
		if !ok {
			t.Fatal("embedded document not found")
		}
		want := `[null,["desc",[]],"/forms/d/e/1/formResponse","name"]`
		if string(got) != want {
			t.Errorf("embedded document: got %q, want %q", got, want)
		}
	})

	t.Run("EmbeddedJSON_NotFound", func(t *testing.T) {
		if _, ok := ex.EmbeddedJSON([]byte("<html><body>closed</body></html>")); ok {
			t.Error("expected no embedded document")
		}
	})

	t.Run("Links", func(t *testing.T) {
		links := ex.Links(body)
		if len(links) != 2 {
			t.Fatalf("expected 2 links, got %d: %v", len(links), links)
		}
		if links[0] != "https://docs.google.com/forms/d/e/1/viewform?usp=form_confirm" {
			t.Errorf("unexpected first link %q", links[0])
		}
		if links[1] != "https://docs.google.com/forms/d/e/1/viewanalytics" {
			t.Errorf("unexpected second link %q", links[1])
		}
	})

	t.Run("Links_None", func(t *testing.T) {
		if links := ex.Links([]byte("<html><body><p>Done</p></body></html>")); len(links) != 0 {
			t.Errorf("expected no links, got %v", links)
		}
	})

	t.Run("Images", func(t *testing.T) {
		images := ex.Images(body)
		if len(images) != 1 {
			t.Fatalf("expected 1 image, got %d: %v", len(images), images)
		}
		if images[42] != "https://example.com/cat.png" {
			t.Errorf("unexpected image %q", images[42])
		}
	})

	t.Run("Images_None", func(t *testing.T) {
		if images := ex.Images([]byte("<html><body><p>Done</p></body></html>")); len(images) != 0 {
			t.Errorf("expected no images, got %v", images)
		}
	})
}
