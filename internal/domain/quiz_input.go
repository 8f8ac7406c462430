package domain

// Objective is the user's main goal for the personal brand.
type Objective string

const (
	ObjectiveAuthority      Objective = "Autoridade"
	ObjectiveServiceSales   Objective = "Vendas de Serviço"
	ObjectiveGetJob         Objective = "Conseguir Emprego"
	ObjectivePersonalBrand  Objective = "Branding Pessoal"
	ObjectiveFollowerGrowth Objective = "Crescimento de Seguidores"
)

// Objectives lists every objective in wizard order.
var Objectives = []Objective{
	ObjectiveAuthority,
	ObjectiveServiceSales,
	ObjectiveGetJob,
	ObjectivePersonalBrand,
	ObjectiveFollowerGrowth,
}

func (o Objective) IsValid() bool {
	for _, v := range Objectives {
		if o == v {
			return true
		}
	}
	return false
}

// SocialNetwork is the network the plan targets.
type SocialNetwork string

const (
	NetworkLinkedIn  SocialNetwork = "LinkedIn"
	NetworkInstagram SocialNetwork = "Instagram"
	NetworkTikTok    SocialNetwork = "TikTok"
	NetworkFacebook  SocialNetwork = "Facebook"
	NetworkX         SocialNetwork = "X (Twitter)"
	NetworkOther     SocialNetwork = "Outra"
)

var SocialNetworks = []SocialNetwork{
	NetworkLinkedIn,
	NetworkInstagram,
	NetworkTikTok,
	NetworkFacebook,
	NetworkX,
	NetworkOther,
}

func (n SocialNetwork) IsValid() bool {
	for _, v := range SocialNetworks {
		if n == v {
			return true
		}
	}
	return false
}

// DailyTime is how much time per day the user can spend on content.
type DailyTime string

const (
	DailyTime30Min    DailyTime = "30 minutos"
	DailyTime1Hour    DailyTime = "1 hora"
	DailyTime2Hours   DailyTime = "2 horas"
	DailyTimeMoreThan DailyTime = "Mais de 2 horas"
)

var DailyTimes = []DailyTime{
	DailyTime30Min,
	DailyTime1Hour,
	DailyTime2Hours,
	DailyTimeMoreThan,
}

func (d DailyTime) IsValid() bool {
	for _, v := range DailyTimes {
		if d == v {
			return true
		}
	}
	return false
}

// QuizInput is the questionnaire answer set sent to plan generation.
// A submitted QuizInput is treated as an immutable snapshot.
type QuizInput struct {
	Objective     Objective     `json:"objective"`
	SocialNetwork SocialNetwork `json:"social_network"`
	DailyTime     DailyTime     `json:"daily_time"`
	Niche         string        `json:"niche"`
	ProfileURL    string        `json:"profile_url"`
	CVText        string        `json:"cv_text"`
	CVFileName    string        `json:"cv_file_name,omitempty"`
}

// DefaultQuizInput returns the answers a fresh wizard starts with.
func DefaultQuizInput() QuizInput {
	return QuizInput{
		Objective:     ObjectiveAuthority,
		SocialNetwork: NetworkLinkedIn,
		DailyTime:     DailyTime1Hour,
	}
}
