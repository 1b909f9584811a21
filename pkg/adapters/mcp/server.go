// Package mcp exposes a loaded form to MCP clients: its structure, its page
// graph and dry-run validation of answers.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/gforms"
	"github.com/aretw0/gforms/internal/answers"
	"github.com/aretw0/gforms/internal/dto"
	"github.com/aretw0/gforms/internal/inspect"
	"github.com/aretw0/gforms/internal/logging"
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

const formURI = "gforms://form"

// Server exposes an inspect.Inspector as an MCP server.
type Server struct {
	inspector *inspect.Inspector
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance. A nil logger discards logs.
func NewServer(in *inspect.Inspector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		inspector: in,
		mcpServer: server.NewMCPServer("gforms-mcp", strings.TrimSpace(gforms.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("describe_form",
		mcp.WithDescription("Describe the pages and questions of the form, with the hints of every question."),
		mcp.WithBoolean("with_answers", mcp.Description("Include the current answers instead of nothing")),
		mcp.WithOutputSchema[dto.Form](),
	), mcp.NewStructuredToolHandler(s.handleDescribe))

	s.mcpServer.AddTool(mcp.NewTool("form_graph",
		mcp.WithDescription("Get the page graph of the form as a Mermaid flowchart."),
	), s.handleGraph)

	s.mcpServer.AddTool(mcp.NewTool("validate_answers",
		mcp.WithDescription("Fill the form with the given answers and validate them without submitting. "+
			"Answers are a YAML or JSON mapping from question name or id to value."),
		mcp.WithString("answers", mcp.Required(), mcp.Description("Mapping of question name or id to answer")),
		mcp.WithBoolean("fill_optional", mcp.Description("Synthesize values for unanswered optional questions")),
		mcp.WithOutputSchema[inspect.Report](),
	), mcp.NewStructuredToolHandler(s.handleValidate))
}

func (s *Server) handleDescribe(_ context.Context, request mcp.CallToolRequest, _ map[string]any) (dto.Form, error) {
	return s.inspector.Describe(request.GetBool("with_answers", false)), nil
}

func (s *Server) handleGraph(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.inspector.Graph()), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (inspect.Report, error) {
	raw, err := request.RequireString("answers")
	if err != nil {
		return inspect.Report{}, err
	}
	answerMap, err := answers.Read(strings.NewReader("answers:\n" + indent(raw)))
	if err != nil {
		s.logger.Warn("MCP validate: answers rejected", "err", err, "size", len(raw))
		return inspect.Report{}, fmt.Errorf("answers rejected: %w", err)
	}
	answerMap.FillOptional = request.GetBool("fill_optional", false)
	return s.inspector.Validate(ctx, answerMap), nil
}

// indent nests a mapping document under the answers key.
func indent(doc string) string {
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(formURI, "Current form",
		mcp.WithMIMEType("application/json"),
	), func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.inspector.Describe(false))
		if err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      formURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
