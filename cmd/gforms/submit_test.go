package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/gforms"
	"github.com/aretw0/gforms/internal/answers"
	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/pkg/adapters/memory"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/observability"
	"github.com/aretw0/gforms/pkg/ports"
	"github.com/aretw0/gforms/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formPage = `<html><head><script>var FB_PUBLIC_LOAD_DATA_ = [null,[null,[` +
	`[1,"Colour",null,2,[[11,[["red"],["blue"]],1]]],` +
	`[2,"Name",null,0,[[22,null,0]]]` +
	`],null,null,null,null,null,null,"Colours"],null,"colours"];</script></head>
<body><form>
<input type="hidden" name="fbzx" value="-7">
<input type="hidden" name="pageHistory" value="0">
<input type="hidden" name="partialResponse" value="[null,null,&quot;-7&quot;]">
</form></body></html>`

// newClosingServer serves a form that accepts open responses and then
// closes.
func newClosingServer(t *testing.T, open int32) (string, *atomic.Int32) {
	t.Helper()
	var posts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /forms/d/e/X/viewform", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, formPage)
	})
	mux.HandleFunc("GET /forms/d/e/X/closedform", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html><body>closed</body></html>")
	})
	mux.HandleFunc("POST /forms/d/e/X/formResponse", func(w http.ResponseWriter, r *http.Request) {
		if posts.Add(1) > open {
			http.Redirect(w, r, "/forms/d/e/X/closedform", http.StatusSeeOther)
			return
		}
		_, _ = io.WriteString(w, "<html><body>Your response has been recorded.</body></html>")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/forms/d/e/X/viewform", &posts
}

func TestSubmitter_StopsOnClosedForm(t *testing.T) {
	formURL, posts := newClosingServer(t, 2)
	ctx := context.Background()

	form, err := gforms.Load(ctx, formURL, gforms.WithDefaults(newFiller(nil).Value))
	require.NoError(t, err)

	manager := session.NewManager(memory.NewStore())
	var out bytes.Buffer
	var sleeps []time.Duration
	s := &submitter{
		form:    form,
		answers: &answers.File{},
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
		logger:  logging.NewNop(),
		out:     &out,
		delay:   time.Millisecond,
		sleep: func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
	}

	err = s.run(ctx, 5, func(ctx context.Context, fn func(context.Context, *domain.Submission) error) error {
		_, err := manager.Submit(ctx, formURL, fn)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, "1: submitted\n2: submitted\n3: form is closed\n", out.String())
	assert.Equal(t, int32(3), posts.Load())
	assert.Len(t, sleeps, 2)

	journal, err := manager.List(ctx, formURL)
	require.NoError(t, err)
	require.Len(t, journal, 3)
	statuses := map[domain.SubmissionStatus]int{}
	for _, sub := range journal {
		statuses[sub.Status]++
	}
	assert.Equal(t, map[domain.SubmissionStatus]int{
		domain.SubmissionOK:     2,
		domain.SubmissionClosed: 1,
	}, statuses)
	for _, sub := range journal {
		assert.Contains(t, sub.Answers, "Colour")
		assert.Contains(t, sub.Answers, "Name")
	}
}

func TestSubmitter_InvalidAnswersGoOn(t *testing.T) {
	formURL, posts := newClosingServer(t, 10)
	ctx := context.Background()

	form, err := gforms.Load(ctx, formURL, gforms.WithDefaults(newFiller(nil).Value))
	require.NoError(t, err)

	var out bytes.Buffer
	s := &submitter{
		form:    form,
		answers: &answers.File{Answers: map[string]any{"Colour": "green"}},
		logger:  logging.NewNop(),
		out:     &out,
		sleep:   func(context.Context, time.Duration) error { return nil },
	}
	err = s.run(ctx, 2, func(ctx context.Context, fn func(context.Context, *domain.Submission) error) error {
		return fn(ctx, &domain.Submission{})
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1: invalid answers")
	assert.Contains(t, lines[1], "2: invalid answers")
	assert.Zero(t, posts.Load())
}

func TestSubmitter_Canceled(t *testing.T) {
	formURL, _ := newClosingServer(t, 10)
	form, err := gforms.Load(context.Background(), formURL, gforms.WithDefaults(newFiller(nil).Value))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s := &submitter{
		form:    form,
		answers: &answers.File{},
		logger:  logging.NewNop(),
		out:     io.Discard,
		delay:   time.Hour,
		sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return sleepCtx(ctx, d)
		},
	}
	err = s.run(ctx, 0, func(ctx context.Context, fn func(context.Context, *domain.Submission) error) error {
		return fn(ctx, &domain.Submission{})
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptCaptcha(t *testing.T) {
	page := &ports.Response{URL: "https://example.com/form"}

	t.Run("token", func(t *testing.T) {
		var out bytes.Buffer
		handler := promptCaptcha(strings.NewReader("  abc123 \n"), &out)
		token, err := handler(context.Background(), page)
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
		assert.Contains(t, out.String(), page.URL)
	})

	t.Run("empty", func(t *testing.T) {
		handler := promptCaptcha(strings.NewReader(""), io.Discard)
		_, err := handler(context.Background(), page)
		assert.Error(t, err)
	})
}
