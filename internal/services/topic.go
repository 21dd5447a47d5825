package services

import (
	"strings"
	"unicode"

	"briefly-backend/internal/models"
)

type topicKeywords struct {
	topic    models.Topic
	keywords []string
}

// Priority order matters: ties go to the earliest entry.
var topicTable = []topicKeywords{
	{models.TopicWork, []string{"meeting", "project", "deadline", "client", "report"}},
	{models.TopicStudy, []string{"lecture", "exam", "homework", "research", "notes"}},
	{models.TopicPersonal, []string{"goals", "ideas", "thoughts", "plans", "journal"}},
}

// ClassifyTopic scores the text against each topic's keywords and returns the best match.
func ClassifyTopic(text string) models.Topic {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens[word] = struct{}{}
		}
	}

	best := topicTable[0].topic
	bestScore := -1
	for _, entry := range topicTable {
		score := 0
		for _, kw := range entry.keywords {
			if _, ok := tokens[kw]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = entry.topic, score
		}
	}
	return best
}
