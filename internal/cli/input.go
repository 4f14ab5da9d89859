// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/veldt/typeahead/internal/utils"
	"github.com/veldt/typeahead/pkg/fuzzy"
	"github.com/veldt/typeahead/pkg/index"
	"github.com/veldt/typeahead/pkg/suggest"
)

// InputHandler processes user input from stdin, providing suggestions.
// It accepts flags to control behavior such as minimum and maximum
// prefix length, suggestion limits, and filtering options.
type InputHandler struct {
	provider        *suggest.Provider
	manager         *index.Manager
	gen             *fuzzy.Generator
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	requestCount    int
	noFilter        bool
	rawIndex        bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters.
// When rawIndex is set, lookups skip the facade and hit the trie index
// directly, which is useful for inspecting ranking without the
// candidate fallback in the way.
func NewInputHandler(provider *suggest.Provider, manager *index.Manager, gen *fuzzy.Generator, minLength, maxLength, limit int, noFilter, rawIndex bool) *InputHandler {
	return &InputHandler{
		provider:        provider,
		manager:         manager,
		gen:             gen,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		rawIndex:        rawIndex,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin.
func (h *InputHandler) Start(ctx context.Context) error {
	log.Print("typeahead CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type something and press Enter to see the suggestions (Ctrl+C to exit):")

	for {
		log.Print("> ")
		prefix, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		h.handleInput(ctx, prefix)
	}
}

// handleInput processes a single prefix to generate suggestions.
// It validates the prefix's length and content, then asks the facade
// (or the raw index) for suggestions. Results are formatted and
// printed to the log with their dictionary frequencies.
func (h *InputHandler) handleInput(ctx context.Context, prefix string) {
	h.requestCount++
	if h.requestCount%50 == 0 && h.gen != nil {
		stats := h.gen.Stats()
		log.Debugf("Generator cache after %d requests: %d hot, %d cold",
			h.requestCount, stats["hot_entries"], stats["cold_entries"])
	}

	if len(prefix) < h.minPrefixLength {
		log.Errorf("Prefix too short: %s", prefix)
		return
	}

	if len(prefix) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidInput(prefix) {
			log.Warnf("No suggestions found for prefix: '%s' (filtered out)", prefix)
			return
		}
	} else {
		log.Debug("Input filtering disabled - accepting all entries")
	}

	start := time.Now()

	log.Debug("Processing request for", "prefix", prefix)

	var words []string
	if h.rawIndex {
		words = h.manager.FindByPrefix(strings.ToLower(prefix), h.suggestLimit)
	} else {
		words = h.provider.FindRespectingCase(ctx, prefix)
	}

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(words) == 0 {
		log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}
	if len(words) > h.suggestLimit {
		words = words[:h.suggestLimit]
	}

	log.Printf("Found %d suggestions for prefix '%s':", len(words), prefix)
	for i, w := range words {
		freq := h.manager.Frequency(strings.ToLower(w))
		fmtFreq := utils.FormatWithCommas(freq)
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", w)
		log.Printf("%2d. %-40s (freq: %8s)", i+1, clWord, fmtFreq)
	}
}
