// Package hexocat implements the /hexocat slash command: it checks the
// caller, searches GitHub repositories and replies in the channel.
package hexocat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ca-srg/hexocat/internal/types"
)

const (
	// HelpText is returned when the command carries no search keyword.
	HelpText = "Specify repository name to search. For example: /hexocat linux"
	// FailureText replaces the results whenever the search API call fails.
	FailureText = "Oops, something went wrong."

	maxBodyBytes = 1 << 20
)

// Searcher looks up repositories matching query.
type Searcher interface {
	SearchRepositories(ctx context.Context, query string, perPage int) (*types.SearchResult, error)
}

// Command is the part of a slash command invocation the handler acts on.
// The remaining form fields are accepted and ignored.
type Command struct {
	Text  string
	Token string
}

var errMissingField = errors.New("missing form field")

// Handler serves the slash command webhook.
type Handler struct {
	config    *types.Config
	searcher  Searcher
	formatter *Formatter
	logger    *log.Logger
}

// NewHandler creates a handler; cfg is read-only from here on.
func NewHandler(cfg *types.Config, searcher Searcher, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(log.Writer(), "[hexocat] ", log.LstdFlags)
	}
	return &Handler{
		config:    cfg,
		searcher:  searcher,
		formatter: NewFormatter(cfg.ReplyStyle),
		logger:    logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		recordOutcome(ctx, outcomeBadRequest)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	cmd, err := parseCommand(r)
	if err != nil {
		h.logger.Printf("Rejecting malformed command: %v", err)
		recordOutcome(ctx, outcomeBadRequest)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if !Authorize(h.config, cmd.Token) || !h.verifySignature(r.Header, body) {
		h.logger.Printf("Access denied (environment: %s, remote: %s)", h.config.Environment, r.RemoteAddr)
		recordOutcome(ctx, outcomeForbidden)
		w.WriteHeader(http.StatusForbidden)
		return
	}

	h.writeReply(w, h.Reply(ctx, cmd.Text))
}

// Reply turns the command text into the reply text: the usage hint for a
// blank keyword, otherwise the formatted search results.
func (h *Handler) Reply(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		recordOutcome(ctx, outcomeHelp)
		return HelpText
	}
	return h.search(ctx, NormalizeQuery(text))
}

// search runs the query and returns the reply text. Upstream failures never
// reach the caller; they are logged and replaced by FailureText.
func (h *Handler) search(ctx context.Context, query string) string {
	ctx, span := otel.Tracer("hexocat/handler").Start(ctx, "hexocat.search")
	defer span.End()
	span.SetAttributes(attribute.Int("hexocat.query.length", len(query)))

	start := time.Now()
	result, err := h.searcher.SearchRepositories(ctx, query, h.config.PageSize)
	recordSearchDuration(ctx, time.Since(start), err != nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		h.logger.Printf("Search for %q failed: %v", query, err)
		recordOutcome(ctx, outcomeUpstreamError)
		return FailureText
	}

	if result == nil || len(result.Items) == 0 {
		span.SetAttributes(attribute.Int("hexocat.results", 0))
		recordOutcome(ctx, outcomeEmpty)
		return NoResultsText(query)
	}

	span.SetAttributes(attribute.Int("hexocat.results", len(result.Items)))
	recordOutcome(ctx, outcomeResults)
	return h.formatter.Format(result.Items)
}

// NoResultsText is the reply for a search that matched nothing.
func NoResultsText(query string) string {
	return fmt.Sprintf("No repositories found for \"%s\".", query)
}

func (h *Handler) verifySignature(header http.Header, body []byte) bool {
	if h.config.SigningSecret == "" || h.config.Environment == types.Development {
		return true
	}
	sv, err := slack.NewSecretsVerifier(header, h.config.SigningSecret)
	if err != nil {
		h.logger.Printf("Signature headers rejected: %v", err)
		return false
	}
	if _, err := sv.Write(body); err != nil {
		return false
	}
	if err := sv.Ensure(); err != nil {
		h.logger.Printf("Signature mismatch: %v", err)
		return false
	}
	return true
}

func (h *Handler) writeReply(w http.ResponseWriter, text string) {
	payload, err := json.Marshal(Wrap(text))
	if err != nil {
		h.logger.Printf("Failed to encode reply: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.logger.Printf("Failed to write reply: %v", err)
	}
}

// parseCommand reads the form body. text and token must be present, though
// either may be empty.
func parseCommand(r *http.Request) (Command, error) {
	sc, err := slack.SlashCommandParse(r)
	if err != nil {
		return Command{}, err
	}
	for _, field := range []string{"text", "token"} {
		if _, ok := r.PostForm[field]; !ok {
			return Command{}, fmt.Errorf("%w: %s", errMissingField, field)
		}
	}
	return Command{Text: sc.Text, Token: sc.Token}, nil
}

// NormalizeQuery trims q and lower-cases it; searches are case-insensitive.
func NormalizeQuery(q string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(q))
}
