package cli

import "live-trivia-service/internal/domain"

const sampleSetID = "general"

// sampleQuestionSets backs the service when no Postgres is configured.
func sampleQuestionSets() map[string][]domain.RawQuestion {
	return map[string][]domain.RawQuestion{
		sampleSetID: {
			{ID: "g1", Text: "What is 2 + 2?", CorrectAnswer: "4", Options: []string{"3", "4", "5", "22"}, Category: "math", Difficulty: "easy"},
			{ID: "g2", Text: "Which planet is known as the Red Planet?", CorrectAnswer: "Mars", Options: []string{"Venus", "Mars", "Jupiter", "Mercury"}, Category: "science", Difficulty: "easy"},
			{ID: "g3", Text: "What is the capital of Australia?", CorrectAnswer: "Canberra", Options: []string{"Sydney", "Melbourne", "Canberra", "Perth"}, Category: "geography", Difficulty: "medium"},
			{ID: "g4", Text: "Who wrote \"Pride and Prejudice\"?", CorrectAnswer: "Jane Austen", Options: []string{"Charlotte Brontë", "Jane Austen", "Mary Shelley", "George Eliot"}, Category: "literature", Difficulty: "medium"},
			{ID: "g5", Text: "What is the chemical symbol for tungsten?", CorrectAnswer: "W", Options: []string{"Tu", "Tn", "W", "Wo"}, Category: "science", Difficulty: "hard"},
			{ID: "g6", Text: "In which year did the Berlin Wall fall?", CorrectAnswer: "1989", Options: []string{"1987", "1989", "1991", "1993"}, Category: "history", Difficulty: "hard"},
		},
	}
}
