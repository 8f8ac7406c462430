package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"brand-plan/internal/domain"
)

const systemInstruction = `VOCÊ É O ESTRATEGISTA DE MARKETING PESSOAL E BRANDING MAIS EFICAZ DO MUNDO.
Sua missão é gerar um Plano de Ação Mensal detalhado (4 Semanas) em Markdown.
Transforme a experiência do CV em conteúdo estratégico.
IMPORTANTE: No plano de ação semanal, cada tarefa deve começar com um hífen (-) para ser detectada como item de checklist.`

const planPromptTemplate = `# INFORMAÇÕES
* Rede: %s
* Objetivo: %s
* Nicho: %s
* Tempo: %s
* Perfil: %s
* CV: %s

Gere o plano seguindo rigorosamente a estrutura de:
1. Diagnóstico
2. Checklist de Perfil
3. Pilares de Conteúdo
4. Calendário Mensal (4 Semanas com tarefas diárias claras marcadas com "-")
5. Dica de Ouro`

const draftPromptTemplate = `Como um expert em Copywriting, escreva uma legenda completa para um post no %s.
O tema do post é: "%s"
O nicho do usuário é: %s
O objetivo é: %s

A legenda deve:
1. Ter um gancho (hook) forte nos primeiros 3 segundos.
2. Desenvolver o valor baseado na expertise de: %s...
3. Ter uma CTA (Chamada para Ação) clara.
4. Usar emojis moderadamente e hashtags estratégicas.

Retorne apenas o texto da legenda.`

func planPrompt(input domain.QuizInput) string {
	profile := input.ProfileURL
	if profile == "" {
		profile = "não informado"
	}
	return fmt.Sprintf(planPromptTemplate,
		input.SocialNetwork,
		input.Objective,
		input.Niche,
		input.DailyTime,
		profile,
		input.CVText,
	)
}

func draftPrompt(task string, input domain.QuizInput, cvChars int) string {
	return fmt.Sprintf(draftPromptTemplate,
		input.SocialNetwork,
		task,
		input.Niche,
		input.Objective,
		truncateRunes(strings.TrimSpace(input.CVText), cvChars),
	)
}

// truncateRunes keeps the first n runes of s. n <= 0 keeps everything.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
