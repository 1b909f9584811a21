package protocol

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
	"github.com/goccy/go-json"
)

// CaptchaHandler solves the captcha of a page and returns the
// g-recaptcha-response value. The page may contain user input.
type CaptchaHandler func(ctx context.Context, page *ports.Response) (string, error)

// ValidationState reports whether a form may be submitted as is.
type ValidationState interface {
	IsValidated() bool
}

// SubmitOptions control one submission.
type SubmitOptions struct {
	// NeedReceipt asks for a copy of the responses. It is honored only by
	// forms with an opt-in receipt; other forms decide on their own.
	NeedReceipt bool
	Captcha     CaptchaHandler
	// EmulateHistory posts only the last page, with the history and draft
	// of the previous pages built locally.
	EmulateHistory bool
}

// step is the request state carried from one page to the next.
type step struct {
	page     *domain.Page
	history  string
	draft    string
	response *ports.Response
}

// Submit sends the values of doc. The form must have been validated.
func (c *Client) Submit(ctx context.Context, doc *Document, state ValidationState, opts SubmitOptions) (*Result, error) {
	form := doc.Form
	if !state.IsValidated() {
		return nil, domain.ErrFormNotValidated
	}
	needReceipt := form.Settings.NeedsCaptcha(opts.NeedReceipt)
	if needReceipt && opts.Captcha == nil {
		return nil, domain.ErrCaptchaHandlerMissing
	}
	if form.SigninRequired {
		return nil, &domain.AccessError{URL: form.URL, Title: form.Title, Err: domain.ErrSigninRequired}
	}

	started := time.Now()
	result := &Result{}
	err := c.submit(ctx, doc, needReceipt, opts, result)
	if c.hooks.OnSubmitted != nil {
		c.hooks.OnSubmitted(ctx, &domain.SubmitEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmitted},
			PageIndex: lastPage(result.Pages),
			History:   result.History,
			Duration:  time.Since(started),
			Err:       err,
		})
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) submit(ctx context.Context, doc *Document, needReceipt bool, opts SubmitOptions, result *Result) error {
	var (
		cur step
		err error
	)
	if opts.EmulateHistory {
		cur, err = c.emulateHistory(ctx, doc, needReceipt, result)
		if err != nil {
			return err
		}
	} else {
		cur = step{
			page:     doc.Form.Pages[0],
			history:  doc.Form.History,
			draft:    doc.Form.Draft,
			response: doc.FirstPage,
		}
	}

	for cur.page != nil {
		next := cur.page.NextPage()
		captcha := ""
		if needReceipt && next == nil {
			if captcha, err = opts.Captcha(ctx, cur.response); err != nil {
				return fmt.Errorf("solve captcha: %w", err)
			}
		}
		resp, err := c.post(ctx, doc, request{
			page:     cur.page,
			history:  cur.history,
			draft:    cur.draft,
			proceed:  next != nil,
			captcha:  captcha,
			withData: true,
		})
		result.Requests++
		if err != nil {
			return err
		}
		result.Pages = append(result.Pages, cur.page.Index)

		history, hasHistory := c.extractor.HiddenInput(resp.Body, domain.KeyHistory)
		draft, _ := c.extractor.HiddenInput(resp.Body, domain.KeyDraft)
		if next == nil && !hasHistory {
			result.History = cur.history
			result.Links = ParseLinks(c.extractor.Links(resp.Body))
			return nil
		}
		if next == nil || !hasHistory || lastIndex(history) != next.Index {
			return &domain.ProtocolError{
				URL:    resp.URL,
				Status: resp.Status,
				Page:   cur.page.Index,
				Err:    fmt.Errorf("%w: server history %q", domain.ErrDesync, history),
			}
		}
		cur = step{page: next, history: history, draft: draft, response: resp}
	}
	return nil
}

// emulateHistory builds the history and draft of every page before the
// last one and returns the state to post the last page with.
func (c *Client) emulateHistory(ctx context.Context, doc *Document, needReceipt bool, result *Result) (step, error) {
	form := doc.Form
	history := strings.Split(form.History, ",")

	var draft []any
	if err := json.Unmarshal([]byte(form.Draft), &draft); err != nil {
		return step{}, domain.NewAccessError(form.URL, fmt.Errorf("%w: draft: %w", domain.ErrParse, err))
	}
	if len(draft) == 0 {
		draft = []any{nil}
	}
	draft[0] = nil
	if form.Settings.CollectEmails.Enabled() && form.Email != nil {
		for len(draft) < 8 {
			draft = append(draft, nil)
		}
		draft[6] = form.Email.Value()
		draft[7] = 1
	}

	var entries []domain.DraftEntry
	page := form.Pages[0]
	resp := doc.FirstPage
	for {
		next := page.NextPage()
		if next == nil {
			break
		}
		history = append(history, strconv.Itoa(next.Index))
		entries = append(entries, page.Draft()...)
		result.Pages = append(result.Pages, page.Index)
		page = next
	}
	if len(entries) > 0 {
		draft[0] = entries
	}

	if needReceipt && page != form.Pages[0] {
		var err error
		resp, err = c.fetchPage(ctx, doc, page)
		result.Requests++
		if err != nil {
			return step{}, err
		}
	}

	encoded, err := json.Marshal(draft)
	if err != nil {
		return step{}, fmt.Errorf("encode draft: %w", err)
	}
	c.logger.Debug("history emulated", "history", strings.Join(history, ","), "entries", len(entries))
	return step{
		page:     page,
		history:  strings.Join(history, ","),
		draft:    string(encoded),
		response: resp,
	}, nil
}

// fetchPage loads page on its own by going back to it from the submit page,
// which is allowed even when page does not lead there.
func (c *Client) fetchPage(ctx context.Context, doc *Document, page *domain.Page) (*ports.Response, error) {
	return c.post(ctx, doc, request{
		page:    domain.SubmitPage,
		history: fmt.Sprintf("%d,%d", page.Index, domain.SubmitPage.Index),
		back:    true,
	})
}

type request struct {
	page     *domain.Page
	history  string
	draft    string
	proceed  bool
	captcha  string
	back     bool
	withData bool
}

func (r request) values(fbzx string) url.Values {
	values := url.Values{}
	if r.withData && !r.back {
		for k, v := range r.page.Payload() {
			values[k] = v
		}
	}
	values.Set(domain.KeyFbzx, fbzx)
	if r.proceed && !r.back {
		values.Set(domain.KeyContinue, "1")
	}
	values.Set(domain.KeyHistory, r.history)
	if !r.back {
		values.Set(domain.KeyDraft, r.draft)
	}
	if r.captcha != "" {
		values.Set(domain.KeyCaptcha, r.captcha)
	}
	if r.back {
		values.Set(domain.KeyBack, "1")
	}
	return values
}

func (c *Client) post(ctx context.Context, doc *Document, r request) (*ports.Response, error) {
	target, err := ResponseURL(doc.FirstPage.URL)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	resp, err := c.http.Post(ctx, target, r.values(doc.Form.Fbzx))
	if err == nil {
		err = checkAccess(resp)
		if err == nil && resp.Status != http.StatusOK {
			err = &domain.ProtocolError{URL: resp.URL, Status: resp.Status, Page: r.page.Index, Err: domain.ErrBadStatus}
		}
	} else {
		err = &domain.ProtocolError{URL: target, Page: r.page.Index, Err: err}
	}

	status := 0
	if resp != nil {
		status = resp.Status
	}
	c.logger.Debug("page submitted",
		"page", r.page.Index,
		"history", r.history,
		"status", status,
		"back", r.back,
	)
	if c.hooks.OnSubmitStep != nil {
		c.hooks.OnSubmitStep(ctx, &domain.SubmitEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmitStep},
			PageIndex: r.page.Index,
			History:   r.history,
			Status:    status,
			Duration:  time.Since(started),
			Err:       err,
		})
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func lastIndex(history string) int {
	i := strings.LastIndex(history, ",")
	n, err := strconv.Atoi(history[i+1:])
	if err != nil {
		return -1
	}
	return n
}

func lastPage(pages []int) int {
	if len(pages) == 0 {
		return 0
	}
	return pages[len(pages)-1]
}
