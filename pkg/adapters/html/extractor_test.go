package html_test

import (
	"testing"

	"github.com/aretw0/gforms/pkg/adapters/html"
	"github.com/aretw0/gforms/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
)

func TestExtractor_Contract(t *testing.T) {
	tests.ExtractorContractTest(t, html.New())
}

func TestExtractor_MultilineDocument(t *testing.T) {
	body := []byte("<script>var FB_PUBLIC_LOAD_DATA_ = [null,\n[\"a;b\"]\n]\n;</script>")
	got, ok := html.New().EmbeddedJSON(body)
	assert.True(t, ok)
	assert.Equal(t, "[null,\n[\"a;b\"]\n]", string(got))
}

func TestExtractor_LinksWithoutContainer(t *testing.T) {
	body := []byte(`<p><a href="/one">1</a></p><a href="/two">2</a><a>no href</a>`)
	assert.Equal(t, []string{"/one", "/two"}, html.New().Links(body))
}
