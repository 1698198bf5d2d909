package llm

import (
	"context"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/logger"
)

// observableGenerator wraps a TextGenerator with logging and tracing
type observableGenerator struct {
	gen      TextGenerator
	provider string
}

var _ TextGenerator = (*observableGenerator)(nil)

// Wrap adds logging and a span around every completion
func Wrap(gen TextGenerator, provider string) TextGenerator {
	return &observableGenerator{gen: gen, provider: provider}
}

func (o *observableGenerator) Complete(ctx context.Context, req Request) (string, error) {
	ctx, span := logger.StartSpan(ctx, "llm.Complete")
	defer span.End()

	logger.Debug(ctx, "Requesting completion",
		"provider", o.provider,
		"prompt_chars", len(req.Prompt),
		"max_tokens", req.MaxTokens,
	)

	start := time.Now()
	out, err := o.gen.Complete(ctx, req)
	if err != nil {
		logger.WarnWithErr(ctx, "Completion failed", err, "provider", o.provider)
		return "", err
	}

	logger.Info(ctx, "Completion received",
		"provider", o.provider,
		"response_chars", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
