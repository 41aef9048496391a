package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	noSelectionPlaceholder = "// No hackathon selected for generation."

	generatorMaxTokens   = 2048
	generatorTemperature = 0.3
)

// Generator synthesizes starter code for the selected hackathon. The result
// content is always non-empty: real output, or a placeholder comment when
// nothing was selected or the synthesis call failed.
type Generator struct {
	code    CodeService
	timeout time.Duration
	logger  *zap.Logger
}

func NewGenerator(code CodeService, timeout time.Duration, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{code: code, timeout: timeout, logger: logger}
}

func (g *Generator) Name() string { return StageGenerate }

func (g *Generator) Run(ctx context.Context, state State) Patch {
	selected := state.SelectedHackathon
	if selected == nil {
		return Patch{BoilerplateCode: &GenerationResult{Content: noSelectionPlaceholder}}
	}

	prompt := fmt.Sprintf("%s\nProblem Statement: %s\nUser Stack: %s",
		generatorInstruction, selected.ProblemStatement, strings.Join(state.Skills, ", "))

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := g.code.Complete(callCtx, generatorSystemPrompt, prompt, generatorMaxTokens, generatorTemperature)
	if err != nil {
		g.logger.Warn("code generation failed, returning placeholder",
			zap.String("user_id", state.UserID),
			zap.String("candidate_id", selected.ID),
			zap.Error(err),
		)
		return Patch{BoilerplateCode: &GenerationResult{Content: fmt.Sprintf("// Error during generation: %s", err)}}
	}

	if strings.TrimSpace(content) == "" {
		return Patch{BoilerplateCode: &GenerationResult{Content: "// Error during generation: empty response"}}
	}

	return Patch{BoilerplateCode: &GenerationResult{Content: content}}
}
