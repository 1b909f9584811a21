package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/gforms"
	"github.com/aretw0/gforms/internal/answers"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/observability"
	"github.com/aretw0/gforms/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	fillRetries    = 10
	fillRetryPause = 100 * time.Millisecond
)

var submitCmd = &cobra.Command{
	Use:   "submit <url>",
	Short: "Fill and submit a form, optionally many times",
	Long: `Loads the form and submits it --count times. Every submission is filled
again from the answers file, so synthesized values change between submissions.
Submissions are spaced by a random exponential delay with mean --mean-delay.

A form closed for responses stops the loop; other failures are recorded in
the journal and the loop goes on.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		f, err := answerFile(cmd, cfg)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")
		receipt, _ := cmd.Flags().GetBool("receipt")

		reg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)
		hooks := observability.LogHooks(logger).Combine(metrics.Hooks())

		form, err := loadForm(ctx, args[0], cfg, logger, hooks)
		if err != nil {
			return err
		}
		manager, closeJournal, err := journal(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeJournal(); err != nil {
				logger.Warn("failed to close journal", "err", err)
			}
		}()

		s := &submitter{
			form:    form,
			answers: f,
			metrics: metrics,
			logger:  logger,
			out:     cmd.OutOrStdout(),
			delay:   cfg.MeanDelay,
			opts: gforms.SubmitOptions{
				NeedReceipt:    receipt,
				EmulateHistory: cfg.EmulateHistory,
				Captcha:        promptCaptcha(cmd.InOrStdin(), cmd.ErrOrStderr()),
			},
		}

		g, gctx := errgroup.WithContext(ctx)
		loopDone := make(chan struct{})
		if cfg.Metrics.Addr != "" {
			srv := &http.Server{
				Addr:    cfg.Metrics.Addr,
				Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			}
			g.Go(func() error {
				logger.Info("serving metrics", "addr", srv.Addr)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				select {
				case <-gctx.Done():
				case <-loopDone:
				}
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
		}
		g.Go(func() error {
			defer close(loopDone)
			return s.run(gctx, count, func(ctx context.Context, fn func(context.Context, *domain.Submission) error) error {
				_, err := manager.Submit(ctx, form.Model().URL, fn)
				return err
			})
		})
		err = g.Wait()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// journalFunc runs one submission and records it.
type journalFunc func(ctx context.Context, fn func(context.Context, *domain.Submission) error) error

type submitter struct {
	form    *gforms.Form
	answers *answers.File
	metrics *observability.Metrics
	logger  *slog.Logger
	out     io.Writer
	delay   time.Duration
	opts    gforms.SubmitOptions
	sleep   func(context.Context, time.Duration) error
}

// run submits the form count times, or until ctx is done when count is 0.
func (s *submitter) run(ctx context.Context, count int, record journalFunc) error {
	if s.sleep == nil {
		s.sleep = sleepCtx
	}
	for i := 0; count == 0 || i < count; i++ {
		started := time.Now()
		err := record(ctx, func(ctx context.Context, sub *domain.Submission) error {
			if err := s.fill(ctx); err != nil {
				return err
			}
			sub.Answers = filledAnswers(s.form)
			res, err := s.form.Submit(ctx, s.opts)
			if err != nil {
				return err
			}
			sub.Pages = res.Pages
			sub.History = res.History
			sub.Links = res.Links
			sub.Emulated = s.opts.EmulateHistory
			return nil
		})

		switch {
		case err == nil:
			fmt.Fprintf(s.out, "%d: submitted\n", i+1)
		case errors.Is(err, context.Canceled):
			return err
		case errors.Is(err, domain.ErrClosedForm):
			fmt.Fprintf(s.out, "%d: form is closed\n", i+1)
			return nil
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrElementValue):
			fmt.Fprintf(s.out, "%d: invalid answers: %v\n", i+1, err)
		default:
			fmt.Fprintf(s.out, "%d: failed: %v\n", i+1, err)
		}

		if count != 0 && i+1 == count {
			break
		}
		wait := time.Duration(rand.ExpFloat64()*float64(s.delay)) - time.Since(started)
		if err := s.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

// fill retries when the synthesized values lead into a loop of pages.
func (s *submitter) fill(ctx context.Context) error {
	var err error
	for range fillRetries {
		err = s.form.Fill(ctx, s.answers.Callback(), s.answers.FillOptional)
		if s.metrics != nil {
			s.metrics.ObserveFill(err)
		}
		if !errors.Is(err, domain.ErrInfiniteLoop) {
			return err
		}
		s.logger.Debug("fill ran into a loop, retrying", "err", err)
		if err := s.sleep(ctx, fillRetryPause); err != nil {
			return err
		}
	}
	return err
}

// filledAnswers collects the answers of the questions on the filled path.
func filledAnswers(form *gforms.Form) map[string][]string {
	out := map[string][]string{}
	if email := form.Model().Email; email != nil {
		out[email.Header().Name] = email.Answer()
	}
	for _, page := range form.Path() {
		for _, in := range page.Inputs() {
			out[in.Element.Header().Name] = in.Element.Answer()
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// promptCaptcha asks the user to solve the captcha of the page in a browser
// and paste the g-recaptcha-response value.
func promptCaptcha(in io.Reader, out io.Writer) gforms.CaptchaHandler {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, page *ports.Response) (string, error) {
		fmt.Fprintf(out, "The form asks for a captcha before sending a receipt.\nSolve it at %s and paste the g-recaptcha-response value:\n", page.URL)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		token := strings.TrimSpace(line)
		if token == "" {
			return "", errors.New("no captcha response given")
		}
		return token, ctx.Err()
	}
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().IntP("count", "n", 1, "Number of submissions, 0 for no limit")
	submitCmd.Flags().String("answers", "", "YAML answers file")
	submitCmd.Flags().Bool("fill-optional", false, "Synthesize values for unanswered optional questions")
	submitCmd.Flags().Bool("emulate-history", false, "Send only the last page, building the history locally")
	submitCmd.Flags().Duration("mean-delay", 0, "Mean delay between submissions")
	submitCmd.Flags().Bool("receipt", false, "Ask for a copy of the responses")
	submitCmd.Flags().String("metrics", "", "Serve Prometheus metrics on this address")
	submitCmd.Flags().String("redis", "", "Redis address of the submission journal")
}
