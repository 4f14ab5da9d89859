package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/veldt/typeahead/internal/logger"
	"github.com/veldt/typeahead/internal/utils"
	"github.com/veldt/typeahead/pkg/config"
	"github.com/veldt/typeahead/pkg/dictionary"
	"github.com/veldt/typeahead/pkg/fuzzy"
	"github.com/veldt/typeahead/pkg/index"
	"github.com/veldt/typeahead/pkg/suggest"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers completion and command requests over a byte stream.
// The loop is single threaded; one request finishes before the next is
// decoded.
type Server struct {
	provider *suggest.Provider
	manager  *index.Manager
	gen      *fuzzy.Generator
	source   dictionary.RankedSource
	cfg      *config.Config
	log      *log.Logger

	dec *msgpack.Decoder
	enc *msgpack.Encoder

	requests int64
}

// Options carries the server's optional collaborators. Reader and
// Writer default to stdin and stdout. Source enables rebuild requests
// and Generator feeds cache counters into stats responses.
type Options struct {
	Source    dictionary.RankedSource
	Generator *fuzzy.Generator
	Reader    io.Reader
	Writer    io.Writer
}

// New creates a server speaking msgpack over stdin/stdout unless opts
// overrides the endpoints.
func New(provider *suggest.Provider, manager *index.Manager, cfg *config.Config, opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}
	var r io.Reader = os.Stdin
	if opts.Reader != nil {
		r = opts.Reader
	}
	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	}
	return &Server{
		provider: provider,
		manager:  manager,
		gen:      opts.Generator,
		source:   opts.Source,
		cfg:      cfg,
		log:      logger.Default("ipc"),
		dec:      msgpack.NewDecoder(r),
		enc:      msgpack.NewEncoder(w),
	}
}

// Start runs the request loop until the input stream closes. A
// canceled ctx stops the loop between requests.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server")

	s.send(CommandResponse{ID: "ready", OK: true})

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid request encoding", 400)
			continue
		}
		s.requests++
		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	if req.Action != "" {
		s.handleCommand(ctx, req)
		return
	}
	s.handleComplete(ctx, req)
}

// handleComplete validates the prefix against the configured bounds,
// asks the facade for suggestions and reports them with 1-based ranks.
func (s *Server) handleComplete(ctx context.Context, req Request) {
	prefix := req.Prefix
	if prefix == "" {
		s.sendError(req.ID, "missing 'p' field", 400)
		s.log.Debug("Prefix is empty in request")
		return
	}
	if len(prefix) < s.cfg.Server.MinPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix shorter than %d bytes", s.cfg.Server.MinPrefix), 400)
		return
	}
	if len(prefix) > s.cfg.Server.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d bytes", s.cfg.Server.MaxPrefix), 400)
		return
	}

	if s.cfg.Engine.EnableFilter && !utils.IsValidInput(prefix) {
		// Noise like "1234" or ")))" gets an empty result, not an error.
		s.send(CompletionResponse{ID: req.ID, Suggestions: []Suggestion{}})
		return
	}

	limit := req.Limit
	if limit < 1 || limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	var words []string
	if req.RespectCase {
		words = s.provider.FindRespectingCase(ctx, prefix)
	} else {
		words = s.provider.FindWordsByPrefix(ctx, prefix)
	}
	elapsed := time.Since(start)

	if len(words) > limit {
		words = words[:limit]
	}
	ranks := utils.CreateRankList(len(words))
	suggestions := make([]Suggestion, len(words))
	for i, w := range words {
		suggestions[i] = Suggestion{Word: w, Rank: ranks[i]}
	}

	s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleCommand(ctx context.Context, req Request) {
	switch req.Action {
	case "ping":
		s.send(CommandResponse{ID: req.ID, OK: true})
	case "stats":
		s.send(CommandResponse{ID: req.ID, OK: true, Stats: s.statsSnapshot()})
	case "rebuild":
		s.handleRebuild(ctx, req)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

// handleRebuild re-reads the dictionary source into the index. A
// rebuild inside the cooldown window is a no-op and reports ok.
func (s *Server) handleRebuild(ctx context.Context, req Request) {
	if s.source == nil {
		s.send(CommandResponse{ID: req.ID, OK: false, Error: "no dictionary source configured"})
		return
	}
	if err := s.manager.Initialize(ctx, s.source); err != nil {
		s.log.Errorf("Rebuilding index: %v", err)
		s.send(CommandResponse{ID: req.ID, OK: false, Error: err.Error()})
		return
	}
	s.send(CommandResponse{ID: req.ID, OK: true})
}

// statsSnapshot flattens manager and generator counters into one map.
func (s *Server) statsSnapshot() map[string]int64 {
	st := map[string]int64{"requests": s.requests}
	ms := s.manager.Stats()
	st["words"] = int64(ms.Words)
	st["cached_prefixes"] = int64(ms.CachedPrefixes)
	if !ms.LastBuild.IsZero() {
		st["last_build"] = ms.LastBuild.Unix()
	}
	if s.gen != nil {
		for k, v := range s.gen.Stats() {
			st[k] = int64(v)
		}
	}
	return st
}

func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
