package domain

import "strings"

// Topic is a counseling category used for specialization matching and
// crisis detection. The catalogue is static configuration, never mutated
// at runtime.
type Topic string

const (
	TopicSpiritual     Topic = "spiritual"
	TopicMentalHealth  Topic = "mental_health"
	TopicRelationships Topic = "relationships"
	TopicAcademic      Topic = "academic"
	TopicIdentity      Topic = "identity"
	TopicAddiction     Topic = "addiction"
	TopicGrief         Topic = "grief"
	TopicFinancial     Topic = "financial"
	TopicFamily        Topic = "family"
	TopicCareer        Topic = "career"
	TopicMinistry      Topic = "ministry"
	TopicDoubt         Topic = "doubt"
	TopicCrisis        Topic = "crisis"
	TopicGeneral       Topic = "general"
)

func (t Topic) String() string { return string(t) }

func (t Topic) IsValid() bool {
	_, ok := topicCatalogue[t]
	return ok
}

// IsCrisisTier reports whether sessions on this topic are escalated to
// crisis priority regardless of description content.
func (t Topic) IsCrisisTier() bool {
	return topicCatalogue[t].CrisisTier
}

// Info returns the static display metadata for the topic.
// The zero TopicInfo is returned for unknown topics.
func (t Topic) Info() TopicInfo {
	return topicCatalogue[t]
}

// TopicInfo is the immutable display metadata carried by each Topic.
type TopicInfo struct {
	Name        string
	Icon        string
	Description string
	Keywords    []string
	CrisisTier  bool
}

// PriorityCrisis is the escalated priority assigned to crisis-tier sessions.
// Normal sessions carry priority 0.
const PriorityCrisis = 10

// crisisKeywords trigger escalation when found in a free-text description,
// even when the selected topic is not crisis-tier.
var crisisKeywords = []string{"suicide", "kill myself", "end my life", "emergency", "urgent"}

var topicCatalogue = map[Topic]TopicInfo{
	TopicSpiritual: {
		Name:        "Spiritual Growth & Faith",
		Icon:        "🙏",
		Description: "Questions about faith, prayer, Bible study, spiritual struggles",
		Keywords:    []string{"faith", "prayer", "bible", "god", "jesus", "spiritual", "worship"},
	},
	TopicMentalHealth: {
		Name:        "Mental Health & Wellness",
		Icon:        "🧠",
		Description: "Anxiety, depression, stress, emotional struggles",
		Keywords:    []string{"anxiety", "depression", "stress", "mental", "emotional", "overwhelmed"},
	},
	TopicRelationships: {
		Name:        "Relationships & Dating",
		Icon:        "💑",
		Description: "Dating, friendships, family issues, relationship advice",
		Keywords:    []string{"relationship", "dating", "marriage", "boyfriend", "girlfriend", "friend"},
	},
	TopicAcademic: {
		Name:        "Academic Struggles",
		Icon:        "📚",
		Description: "Study stress, exam anxiety, time management, academic pressure",
		Keywords:    []string{"study", "exam", "academic", "school", "university", "grades"},
	},
	TopicIdentity: {
		Name:        "Identity & Purpose",
		Icon:        "🎯",
		Description: "Life purpose, calling, identity questions, self-worth",
		Keywords:    []string{"purpose", "calling", "identity", "worth", "meaning", "direction"},
	},
	TopicAddiction: {
		Name:        "Addiction & Habits",
		Icon:        "🚫",
		Description: "Struggling with addictions, bad habits, temptations",
		Keywords:    []string{"addiction", "habit", "temptation", "porn", "alcohol", "smoking"},
	},
	TopicGrief: {
		Name:        "Grief & Loss",
		Icon:        "💔",
		Description: "Dealing with loss, grief, mourning, trauma",
		Keywords:    []string{"grief", "loss", "death", "mourning", "trauma", "sad"},
	},
	TopicFinancial: {
		Name:        "Financial Concerns",
		Icon:        "💰",
		Description: "Money issues, financial stress, budgeting help",
		Keywords:    []string{"money", "financial", "budget", "debt", "job", "work"},
	},
	TopicFamily: {
		Name:        "Family Issues",
		Icon:        "👨‍👩‍👧‍👦",
		Description: "Family conflicts, parental pressure, sibling issues",
		Keywords:    []string{"family", "parents", "mother", "father", "sibling", "home"},
	},
	TopicCareer: {
		Name:        "Career & Future",
		Icon:        "💼",
		Description: "Career guidance, future planning, job search",
		Keywords:    []string{"career", "job", "future", "work", "profession", "internship"},
	},
	TopicMinistry: {
		Name:        "Ministry & Service",
		Icon:        "✝️",
		Description: "Serving in ministry, leadership, evangelism questions",
		Keywords:    []string{"ministry", "service", "leadership", "evangelism", "mission"},
	},
	TopicDoubt: {
		Name:        "Doubt & Questions",
		Icon:        "❓",
		Description: "Doubts about faith, theological questions, confusion",
		Keywords:    []string{"doubt", "question", "confusion", "uncertain", "why"},
	},
	TopicCrisis: {
		Name:        "Crisis & Emergency",
		Icon:        "🆘",
		Description: "Immediate help needed, suicidal thoughts, severe crisis",
		Keywords:    []string{"crisis", "emergency", "suicide", "hurt", "danger", "help"},
		CrisisTier:  true,
	},
	TopicGeneral: {
		Name:        "General Counseling",
		Icon:        "💬",
		Description: "General questions, not sure which category fits",
		Keywords:    []string{"general", "other", "advice", "help", "talk"},
	},
}

// AllTopics returns every catalogue topic in a stable order.
func AllTopics() []Topic {
	return []Topic{
		TopicSpiritual, TopicMentalHealth, TopicRelationships, TopicAcademic,
		TopicIdentity, TopicAddiction, TopicGrief, TopicFinancial, TopicFamily,
		TopicCareer, TopicMinistry, TopicDoubt, TopicCrisis, TopicGeneral,
	}
}

// ClassifyPriority computes the priority for a new session: crisis-tier
// topics and descriptions containing a crisis keyword escalate to
// PriorityCrisis, everything else is 0. Keyword matching is a
// case-insensitive substring check.
func ClassifyPriority(topic Topic, description string) int {
	if topic.IsCrisisTier() {
		return PriorityCrisis
	}
	lower := strings.ToLower(description)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return PriorityCrisis
		}
	}
	return 0
}

// SuggestTopics analyzes a free-text description and returns up to three
// topics whose keywords match, in catalogue order. Falls back to
// TopicGeneral when nothing matches.
func SuggestTopics(description string) []Topic {
	lower := strings.ToLower(description)

	var suggestions []Topic
	for _, topic := range AllTopics() {
		for _, kw := range topicCatalogue[topic].Keywords {
			if strings.Contains(lower, kw) {
				suggestions = append(suggestions, topic)
				break
			}
		}
		if len(suggestions) == 3 {
			break
		}
	}

	if len(suggestions) == 0 {
		return []Topic{TopicGeneral}
	}
	return suggestions
}
