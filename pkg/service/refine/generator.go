package refine

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// gollemGenerator implements Generator on top of a gollem LLM client
type gollemGenerator struct {
	llmClient gollem.LLMClient
}

// NewGollemGenerator wraps a gollem LLM client as a Generator
func NewGollemGenerator(llmClient gollem.LLMClient) (Generator, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &gollemGenerator{llmClient: llmClient}, nil
}

func (g *gollemGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, schema *gollem.Parameter) (string, error) {
	session, err := g.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userPrompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned no text")
	}

	return resp.Texts[0], nil
}
