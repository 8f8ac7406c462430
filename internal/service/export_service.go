package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"brand-plan/internal/domain"
	"brand-plan/internal/logger"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

const exportContentType = "text/html; charset=utf-8"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	pathSeparator = regexp.MustCompile(`[/\\]`)
)

var exportTemplate = template.Must(template.New("plan").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<header>
<p><strong>PersonalBrand AI</strong></p>
<p>{{.Network}} · {{.Objective}} · {{.Niche}}</p>
<p>Progresso: {{.Progress}}%</p>
</header>
<main>
{{.Content}}
</main>
<footer>
<p>Estratégia de Marketing Pessoal · gerado em {{.GeneratedAt}}</p>
</footer>
</body>
</html>
`))

// ExportDocument is a rendered plan ready to be sent as an attachment.
type ExportDocument struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExportService renders the installed plan of a session to HTML.
type ExportService interface {
	Export(ctx context.Context, sessionID string) (*ExportDocument, error)
}

type exportService struct {
	repo     domain.SessionRepository
	markdown goldmark.Markdown
}

// NewExportService creates a new instance of exportService
func NewExportService(repo domain.SessionRepository) ExportService {
	return &exportService{
		repo:     repo,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (s *exportService) Export(ctx context.Context, sessionID string) (*ExportDocument, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Plan == nil {
		return nil, domain.NewInvalidStateError(session.State, "export without a plan")
	}
	plan := session.Plan

	var content bytes.Buffer
	if err := s.markdown.Convert([]byte(plan.Markdown), &content); err != nil {
		return nil, domain.NewInternalError("Failed to render plan", err)
	}

	var body bytes.Buffer
	err = exportTemplate.Execute(&body, struct {
		Title       string
		Network     string
		Objective   string
		Niche       string
		Progress    int
		GeneratedAt string
		Content     template.HTML
	}{
		Title:       fmt.Sprintf("Plano de Marketing - %s", plan.Input.SocialNetwork),
		Network:     string(plan.Input.SocialNetwork),
		Objective:   string(plan.Input.Objective),
		Niche:       plan.Input.Niche,
		Progress:    session.Progress(),
		GeneratedAt: plan.CreatedAt.Format(time.DateOnly),
		// goldmark drops raw HTML unless WithUnsafe is set.
		Content: template.HTML(content.String()),
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to render export document", err)
	}

	logger.Get().Info("Plan exported", zap.String("sessionID", sessionID), zap.String("planID", plan.ID))
	return &ExportDocument{
		FileName:    exportFileName(plan.Input),
		ContentType: exportContentType,
		Body:        body.Bytes(),
	}, nil
}

// exportFileName builds Plano_Marketing_<network>_<niche>.html with runs of
// whitespace in the niche replaced by underscores.
func exportFileName(input domain.QuizInput) string {
	niche := whitespaceRun.ReplaceAllString(strings.TrimSpace(input.Niche), "_")
	network := pathSeparator.ReplaceAllString(string(input.SocialNetwork), "_")
	niche = pathSeparator.ReplaceAllString(niche, "_")
	return fmt.Sprintf("Plano_Marketing_%s_%s.html", network, niche)
}
