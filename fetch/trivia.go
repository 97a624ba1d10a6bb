package fetch

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"widgetkit/domain"
)

// DefaultTriviaBase is the Open Trivia Database endpoint.
const DefaultTriviaBase = "https://opentdb.com"

const questionsPerRound = 10

// TriviaClient fetches one round of multiple-choice questions per call. It
// never mutates widget state; callers hand the result to their quiz session.
type TriviaClient struct {
	base   string
	http   *http.Client
	logger *log.Logger
	rng    *rand.Rand
}

// NewTriviaClient creates a client for the given base URL. Empty base falls
// back to DefaultTriviaBase; a nil httpClient gets a 10s-timeout default.
func NewTriviaClient(base string, httpClient *http.Client, logger *log.Logger) *TriviaClient {
	if base == "" {
		base = DefaultTriviaBase
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &TriviaClient{
		base:   base,
		http:   httpClient,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the choice-shuffle source. Tests inject a seeded one.
func (c *TriviaClient) SetRand(rng *rand.Rand) {
	if rng != nil {
		c.rng = rng
	}
}

type triviaResponse struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

// Questions performs the one-shot round fetch. Text fields arrive HTML-entity
// encoded and are decoded here; each question's choices merge the correct and
// incorrect answers in shuffled order.
func (c *TriviaClient) Questions(ctx context.Context, category, difficulty string) (qs []domain.Question, err error) {
	metrics, ctx := newFetchMetrics(ctx, c.logger, "trivia")
	defer func() {
		metrics.Log(err)
	}()

	u := fmt.Sprintf("%s/api.php?amount=%d&category=%s&difficulty=%s&type=multiple",
		c.base, questionsPerRound, url.QueryEscape(category), url.QueryEscape(difficulty))
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if reqErr != nil {
		metrics.SetErrorStage(StageRequest)
		err = &Error{Op: "trivia", Stage: StageRequest, Err: reqErr}
		return nil, err
	}

	start := time.Now()
	resp, doErr := c.http.Do(req)
	metrics.ObserveRequest(time.Since(start))
	if doErr != nil {
		metrics.SetErrorStage(StageRequest)
		err = &Error{Op: "trivia", Stage: StageRequest, Err: doErr}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.SetErrorStage(StageStatus)
		err = &Error{Op: "trivia", Stage: StageStatus, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		return nil, err
	}

	decodeStart := time.Now()
	var body triviaResponse
	decErr := sonic.ConfigStd.NewDecoder(resp.Body).Decode(&body)
	metrics.ObserveDecode(time.Since(decodeStart))
	if decErr != nil {
		metrics.SetErrorStage(StageDecode)
		err = &Error{Op: "trivia", Stage: StageDecode, Err: decErr}
		return nil, err
	}
	if len(body.Results) == 0 {
		metrics.SetErrorStage(StageEmpty)
		err = &Error{Op: "trivia", Stage: StageEmpty, Err: errors.New("no questions for this category/difficulty")}
		return nil, err
	}

	qs = make([]domain.Question, 0, len(body.Results))
	for _, r := range body.Results {
		choices := make([]string, 0, len(r.IncorrectAnswers)+1)
		for _, a := range r.IncorrectAnswers {
			choices = append(choices, html.UnescapeString(a))
		}
		answer := html.UnescapeString(r.CorrectAnswer)
		choices = append(choices, answer)
		qs = append(qs, domain.Question{
			Prompt:  html.UnescapeString(r.Question),
			Choices: Shuffle(choices, c.rng),
			Answer:  answer,
		})
	}
	metrics.SetResultCount(len(qs))
	return qs, nil
}
