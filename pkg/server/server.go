/*
Package server implements line-delimited JSON IPC for the correction
service over stdin/stdout.

Each request is one JSON object per line with a "command" field; each
response is one JSON line. Commands: correct, health, stats, clear_cache.
Malformed input gets an error response, never a dead process.
*/
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/correctserve/correctserve/pkg/correct"
)

// Request represents an incoming request from the client.
type Request struct {
	Command        string   `json:"command"`
	Text           string   `json:"text"`
	Context        []string `json:"context,omitempty"`
	Mode           string   `json:"mode,omitempty"`
	MaxSuggestions int      `json:"max_suggestions,omitempty"`
	// Pointers so an omitted flag defaults to true.
	UseNeural *bool `json:"use_neural,omitempty"`
	UseCache  *bool `json:"use_cache,omitempty"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Server handles the IPC for correction requests.
type Server struct {
	service        *correct.Service
	maxRequestSize int
	reader         *bufio.Reader
	writer         io.Writer
}

// NewServer creates a correction server using stdin/stdout for IPC.
func NewServer(service *correct.Service, maxRequestSize int) *Server {
	return &Server{
		service:        service,
		maxRequestSize: maxRequestSize,
		reader:         bufio.NewReader(os.Stdin),
		writer:         os.Stdout,
	}
}

// Start begins listening for IPC requests until stdin closes.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting correction server.")
	s.sendResponse(map[string]string{"status": "ready"})

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Reading from stdin: %v", err)
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.handleRequest(ctx, line)
	}
}

func (s *Server) handleRequest(ctx context.Context, requestStr string) {
	var request Request
	if err := json.Unmarshal([]byte(requestStr), &request); err != nil {
		s.sendError("Invalid JSON request", 400)
		log.Errorf("Unmarshaling request: %v", err)
		return
	}

	switch request.Command {
	case "correct":
		s.handleCorrect(ctx, request)
	case "stats":
		s.sendResponse(s.service.Stats(ctx))
	case "clear_cache":
		if err := s.service.ClearCache(ctx); err != nil {
			s.sendError(fmt.Sprintf("Clearing cache: %v", err), 500)
			return
		}
		s.sendResponse(map[string]string{"status": "cleared"})
	case "health":
		s.sendResponse(map[string]string{"status": "ok"})
	default:
		s.sendError(fmt.Sprintf("Unknown command: %s", request.Command), 400)
	}
}

func (s *Server) handleCorrect(ctx context.Context, request Request) {
	if strings.TrimSpace(request.Text) == "" {
		s.sendError("Missing 'text' parameter", 400)
		log.Debug("Text is empty in request")
		return
	}
	if s.maxRequestSize > 0 && len(request.Text) > s.maxRequestSize {
		s.sendError(fmt.Sprintf("Text exceeds maximum length of %d characters", s.maxRequestSize), 400)
		log.Debug("Text is too long in request")
		return
	}

	result := s.service.Correct(ctx, correct.Request{
		Text:           request.Text,
		Context:        request.Context,
		Mode:           parseMode(request.Mode),
		MaxSuggestions: request.MaxSuggestions,
		UseNeural:      boolOr(request.UseNeural, true),
		UseCache:       boolOr(request.UseCache, true),
	})
	s.sendResponse(result)
}

func parseMode(mode string) correct.Mode {
	switch correct.Mode(mode) {
	case correct.ModeSuggestions:
		return correct.ModeSuggestions
	case correct.ModeGrammar:
		return correct.ModeGrammar
	default:
		return correct.ModeAuto
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// sendResponse marshals the given response into JSON and writes it to the
// client, followed by a newline.
func (s *Server) sendResponse(response any) {
	data, err := json.Marshal(response)
	if err != nil {
		log.Errorf("Marshaling response: %v", err)
		s.sendError("Internal server error", 500)
		return
	}
	fmt.Fprintln(s.writer, string(data))
}

func (s *Server) sendError(message string, code int) {
	errResponse := ErrorResponse{Error: message, Status: code}
	data, err := json.Marshal(errResponse)
	if err != nil {
		log.Errorf("Marshaling error response: %v", err)
		return
	}
	fmt.Fprintln(s.writer, string(data))
}
