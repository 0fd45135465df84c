// internal/notify/renderer.go
package notify

import (
	"context"
	"regexp"
	"time"

	"agency-notify/internal/common/logger"
	"agency-notify/internal/common/metrics"
	"agency-notify/internal/models"
)

// placeholderPattern is the template wire format: {{identifier}} where
// identifier is [A-Za-z0-9_]+, case-sensitive, no nesting, no expressions.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Render substitutes every placeholder in content with its value from
// vars. Unresolved placeholders become empty strings; substitution is a
// single pass, so substituted values are never re-expanded.
func Render(content string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		key := match[2 : len(match)-2]
		return vars[key]
	})
}

// TemplateFinder is the template persistence boundary.
type TemplateFinder interface {
	FindActiveTemplate(ctx context.Context, typeCode, channel string) (*models.NotificationTemplate, error)
}

// RenderedMessage is the output of one render operation.
type RenderedMessage struct {
	TypeCode string
	Channel  string
	Subject  string
	Body     string
}

// TemplateService renders notification messages from domain entities.
type TemplateService struct {
	templates TemplateFinder
	builder   *ContextBuilder
	logger    logger.Logger
}

func NewTemplateService(templates TemplateFinder, builder *ContextBuilder, log logger.Logger) *TemplateService {
	return &TemplateService{
		templates: templates,
		builder:   builder,
		logger:    log.WithFields(map[string]interface{}{"component": "template-service"}),
	}
}

// RenderFor renders the active template for (typeCode, channel) against
// the source entity. Returns (nil, nil) when no active template is
// configured; an unconfigured template is an expected outcome, not a fault.
func (s *TemplateService) RenderFor(ctx context.Context, typeCode, channel string, src Source) (*RenderedMessage, error) {
	start := time.Now()

	tmpl, err := s.templates.FindActiveTemplate(ctx, typeCode, channel)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		s.logger.Debug("no active template", map[string]interface{}{
			"typeCode": typeCode,
			"channel":  channel,
		})
		return nil, nil
	}

	vars := s.builder.Build(ctx, src)

	msg := &RenderedMessage{
		TypeCode: typeCode,
		Channel:  channel,
		Body:     Render(tmpl.TemplateContent, vars),
	}
	if channel == models.ChannelEmail {
		msg.Subject = Render(tmpl.Subject, vars)
	}

	metrics.RenderDuration.WithLabelValues(typeCode).Observe(time.Since(start).Seconds())
	return msg, nil
}
