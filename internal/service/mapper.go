package service

import (
	"fmt"
	"strings"

	"brand-plan/internal/domain"
	"brand-plan/internal/dto"
)

func toQuizInput(req *dto.QuizInputRequest) domain.QuizInput {
	return domain.QuizInput{
		Objective:     domain.Objective(strings.TrimSpace(req.Objective)),
		SocialNetwork: domain.SocialNetwork(strings.TrimSpace(req.SocialNetwork)),
		DailyTime:     domain.DailyTime(strings.TrimSpace(req.DailyTime)),
		Niche:         strings.TrimSpace(req.Niche),
		ProfileURL:    strings.TrimSpace(req.ProfileURL),
		CVText:        req.CVText,
		CVFileName:    strings.TrimSpace(req.CVFileName),
	}
}

func toQuizInputResponse(input domain.QuizInput) dto.QuizInputResponse {
	return dto.QuizInputResponse{
		Objective:     string(input.Objective),
		SocialNetwork: string(input.SocialNetwork),
		DailyTime:     string(input.DailyTime),
		Niche:         input.Niche,
		ProfileURL:    input.ProfileURL,
		CVText:        input.CVText,
		CVFileName:    input.CVFileName,
	}
}

func toTaskItems(session *domain.Session) []dto.TaskItemResponse {
	tasks := session.Tasks()
	items := make([]dto.TaskItemResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, dto.TaskItemResponse{Text: t, Done: session.Completed.IsDone(t)})
	}
	return items
}

func toSessionResponse(session *domain.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:          session.ID,
		State:       string(session.State),
		Step:        string(session.Step()),
		QuizStarted: session.QuizStarted,
		Input:       toQuizInputResponse(session.Input),
		Tasks:       toTaskItems(session),
		Progress:    session.Progress(),
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}

	if session.Plan != nil {
		resp.Plan = &dto.PlanResponse{
			ID:        session.Plan.ID,
			Markdown:  session.Plan.Markdown,
			CreatedAt: session.Plan.CreatedAt,
		}
		resp.Insights = toInsights(session.Plan.Input)
	}
	if session.Error != nil {
		resp.Error = &dto.GenerationErrorResponse{
			Kind:    string(session.Error.Kind),
			Message: session.Error.Message,
		}
	}
	return resp
}

// toInsights uses the input the plan was generated from, not the wizard
// answers, which may have been edited since.
func toInsights(input domain.QuizInput) *dto.InsightsResponse {
	return &dto.InsightsResponse{
		NetworkFocus: string(input.SocialNetwork),
		NicheTip:     fmt.Sprintf("Use sua experiência em %s para liderar conversas, não apenas participar delas.", input.Niche),
	}
}

func toArchivedPlanResponse(plan *domain.Plan) dto.ArchivedPlanResponse {
	tasks := plan.Tasks()
	if tasks == nil {
		tasks = []string{}
	}
	return dto.ArchivedPlanResponse{
		ID:        plan.ID,
		SessionID: plan.SessionID,
		Markdown:  plan.Markdown,
		Input:     toQuizInputResponse(plan.Input),
		Tasks:     tasks,
		CreatedAt: plan.CreatedAt,
	}
}

func toOptionsResponse() *dto.OptionsResponse {
	resp := &dto.OptionsResponse{
		Objectives:     make([]string, 0, len(domain.Objectives)),
		SocialNetworks: make([]string, 0, len(domain.SocialNetworks)),
		DailyTimes:     make([]string, 0, len(domain.DailyTimes)),
		Defaults:       toQuizInputResponse(domain.DefaultQuizInput()),
	}
	for _, o := range domain.Objectives {
		resp.Objectives = append(resp.Objectives, string(o))
	}
	for _, n := range domain.SocialNetworks {
		resp.SocialNetworks = append(resp.SocialNetworks, string(n))
	}
	for _, d := range domain.DailyTimes {
		resp.DailyTimes = append(resp.DailyTimes, string(d))
	}
	return resp
}
