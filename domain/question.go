package domain

// Question is one multiple-choice trivia item. Choices already contain the
// correct answer in shuffled position; quiz sessions are never persisted.
type Question struct {
	Prompt  string   `json:"question"`
	Choices []string `json:"choices"`
	Answer  string   `json:"answer"`
}
