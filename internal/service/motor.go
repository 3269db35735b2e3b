package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/youngthe/gemini-demo/internal/domain"
	"github.com/youngthe/gemini-demo/internal/prompts"
)

// MotorService interprets a single free-text utterance as a motor command.
// Unlike the refresh cache it is request-scoped: nothing is cached and
// failures surface directly to the caller.
type MotorService struct {
	gen Generator
}

// NewMotorService creates a new motor-command interpreter.
func NewMotorService(gen Generator) *MotorService {
	return &MotorService{gen: gen}
}

// Interpret sends the utterance through the generation client and parses
// the single {title, angle} command out of the response. The model is
// told to answer with a one-element array; a bare object is accepted too.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - message: transcribed voice command.
// Returns:
//   - domain.MotorCommand: interpreted command.
//   - error: non-nil if generation or parsing fails.
func (s *MotorService) Interpret(ctx context.Context, message string) (domain.MotorCommand, error) {
	raw, err := s.gen.Generate(ctx, prompts.MotorUtterance(message))
	if err != nil {
		return domain.MotorCommand{}, err
	}

	return parseMotorCommand(StripCodeFence(raw))
}

// parseMotorCommand decodes either a one-or-more element array of motor
// commands (first element wins) or a single bare command object.
func parseMotorCommand(text string) (domain.MotorCommand, error) {
	type strictCommand struct {
		Title *string `json:"title"`
		Angle *int    `json:"angle"`
	}

	validate := func(c strictCommand) (domain.MotorCommand, error) {
		if c.Title == nil || c.Angle == nil {
			return domain.MotorCommand{}, fmt.Errorf("%w: command is missing title or angle", domain.ErrGenerationFailed)
		}
		return domain.MotorCommand{Title: *c.Title, Angle: *c.Angle}, nil
	}

	var list []strictCommand
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		if len(list) == 0 {
			return domain.MotorCommand{}, fmt.Errorf("%w: empty command array", domain.ErrGenerationFailed)
		}
		return validate(list[0])
	}

	var single strictCommand
	if err := json.Unmarshal([]byte(text), &single); err != nil {
		return domain.MotorCommand{}, fmt.Errorf("%w: output is not a command: %v", domain.ErrGenerationFailed, err)
	}
	return validate(single)
}
