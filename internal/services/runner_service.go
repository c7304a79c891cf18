package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

// runnerService produces execution transcripts without ever evaluating
// the submitted text. Output comes from static inspection: string
// literals passed to the language's print call are echoed back, and
// everything else gets a canned transcript. This is a hard boundary, not
// an optimization.
type runnerService struct {
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRunnerService(logger *slog.Logger, validator *validator.Validator) RunnerService {
	return &runnerService{
		logger:    logger,
		validator: validator,
	}
}

// Print-call patterns per language. Only quoted literals are captured;
// expressions stay opaque.
var (
	jsLogPattern  = regexp.MustCompile(`console\.log\(\s*(?:"([^"]*)"|'([^']*)'|` + "`([^`]*)`" + `)\s*\)`)
	pythonPattern = regexp.MustCompile(`print\(\s*(?:"([^"]*)"|'([^']*)')\s*\)`)
	javaPattern   = regexp.MustCompile(`System\.out\.println\(\s*"([^"]*)"\s*\)`)
	cppPattern    = regexp.MustCompile(`(?:std::)?cout\s*<<\s*"([^"]*)"`)
)

func (s *runnerService) Run(ctx context.Context, req *RunCodeRequest) (*RunResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var output []string
	switch req.Language {
	case "javascript":
		output = extractLiterals(jsLogPattern, req.Code)
	case "python":
		output = extractLiterals(pythonPattern, req.Code)
	case "java":
		output = extractLiterals(javaPattern, req.Code)
	case "cpp":
		output = extractLiterals(cppPattern, req.Code)
	case "html", "css":
		output = []string{fmt.Sprintf("Rendered %d characters of %s.", len(req.Code), strings.ToUpper(req.Language))}
	}

	if len(output) == 0 {
		output = []string{
			fmt.Sprintf("[simulated] %s program executed.", req.Language),
			fmt.Sprintf("[simulated] %d lines processed, no printable output detected.", countLines(req.Code)),
		}
	}

	s.logger.Debug("Code run simulated",
		"language", req.Language,
		"code_len", len(req.Code),
		"output_lines", len(output))

	return &RunResult{
		Language:   req.Language,
		Output:     output,
		Simulated:  true,
		DurationMs: 40 + countLines(req.Code)%60,
	}, nil
}

func extractLiterals(pattern *regexp.Regexp, code string) []string {
	var out []string
	for _, match := range pattern.FindAllStringSubmatch(code, -1) {
		for _, group := range match[1:] {
			if group != "" {
				out = append(out, group)
				break
			}
		}
	}
	return out
}

func countLines(code string) int {
	return strings.Count(code, "\n") + 1
}
