package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Envapa08241978/soynexo-servidor-final/models"
)

const maxChatReplyRunes = 280

// moneyPattern spots prices and amounts; chat replies never quote money.
var moneyPattern = regexp.MustCompile(`(?i)\$\s*\d|\d[\d.,]*\s*(k\b|mil\b|mxn|pesos|usd|d[oó]lares)`)

// ClassificationDegraded reports that the classifier could not reach a
// verdict and fell back to a search intent. The intent returned alongside it
// is always usable.
type ClassificationDegraded struct {
	Cause error
}

func (e *ClassificationDegraded) Error() string {
	return fmt.Sprintf("intent classification degraded to search: %v", e.Cause)
}

func (e *ClassificationDegraded) Unwrap() error { return e.Cause }

// IntentClassifier decides whether raw user text names a business.
type IntentClassifier struct {
	model   TextClassifier
	schema  *gojsonschema.Schema
	timeout time.Duration
}

func NewIntentClassifier(model TextClassifier, timeout time.Duration) (*IntentClassifier, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(classifierSchema))
	if err != nil {
		return nil, fmt.Errorf("compile classifier schema: %w", err)
	}
	return &IntentClassifier{model: model, schema: schema, timeout: timeout}, nil
}

// Classify always returns a valid intent. When the model call fails or its
// answer does not match the expected shape, the intent is Search and the
// error is a *ClassificationDegraded for the caller to log.
func (c *IntentClassifier) Classify(ctx context.Context, text string) (models.Intent, error) {
	if strings.TrimSpace(text) == "" {
		return models.ChatIntent(DefaultChatReply), nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.model.ClassifyJSON(ctx, classifierInstruction, text)
	if err != nil {
		return models.SearchIntent(), &ClassificationDegraded{Cause: err}
	}

	intent, err := c.parse(raw)
	if err != nil {
		return models.SearchIntent(), &ClassificationDegraded{Cause: err}
	}
	return intent, nil
}

func (c *IntentClassifier) parse(raw json.RawMessage) (models.Intent, error) {
	body := stripCodeFence(string(raw))

	result, err := c.schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return models.Intent{}, fmt.Errorf("malformed classifier output: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return models.Intent{}, fmt.Errorf("classifier output rejected: %v", errs)
	}

	var intent models.Intent
	if err := json.Unmarshal([]byte(body), &intent); err != nil {
		return models.Intent{}, fmt.Errorf("decode classifier output: %w", err)
	}
	if intent.Kind == models.IntentSearch {
		return models.SearchIntent(), nil
	}
	return models.ChatIntent(cleanChatReply(intent.Reply)), nil
}

// cleanChatReply keeps model replies short, free of money figures and inside
// the inline markup subset; anything unusable becomes the canned reply.
func cleanChatReply(reply string) string {
	reply = SanitizeInlineHTML(reply)
	if reply == "" || utf8.RuneCountInString(reply) > maxChatReplyRunes || moneyPattern.MatchString(reply) {
		return DefaultChatReply
	}
	return reply
}

// stripCodeFence removes a surrounding ```json ... ``` block some models add
// even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
