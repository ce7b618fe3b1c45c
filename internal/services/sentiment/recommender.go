package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "stockai/internal/domain/sentiment"
	"stockai/internal/metrics"
	"stockai/pkg/logger"
)

// Recommender turns an aggregate into advisory text.
type Recommender interface {
	Recommend(ctx context.Context, subject Subject, overall float64, scores map[domain.SourceKind]domain.Score) (string, error)
}

// TextGenerator is the minimal surface of a generative text provider.
type TextGenerator interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// TemplateRecommender selects one of five canned strategy templates by
// sentiment bucket. It cannot fail.
type TemplateRecommender struct{}

// NewTemplateRecommender creates a template-backed recommender.
func NewTemplateRecommender() *TemplateRecommender {
	return &TemplateRecommender{}
}

// Recommend returns the canned template for the sentiment bucket.
func (r *TemplateRecommender) Recommend(_ context.Context, _ Subject, overall float64, _ map[domain.SourceKind]domain.Score) (string, error) {
	switch {
	case overall >= 0.5:
		return templateStrongBuy, nil
	case overall >= 0.2:
		return templateModerateBuy, nil
	case overall >= -0.2:
		return templateHold, nil
	case overall >= -0.5:
		return templateCaution, nil
	default:
		return templateRisk, nil
	}
}

// DelegateRecommender asks a generative provider for advisory text and
// falls back to the canned templates on any failure.
type DelegateRecommender struct {
	provider TextGenerator
	fallback *TemplateRecommender
	timeout  time.Duration
	log      *logger.Logger
}

// NewDelegateRecommender creates a delegate with template fallback.
func NewDelegateRecommender(provider TextGenerator, timeout time.Duration) *DelegateRecommender {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DelegateRecommender{
		provider: provider,
		fallback: NewTemplateRecommender(),
		timeout:  timeout,
		log:      logger.Get().With("component", "delegate_recommender"),
	}
}

// Recommend delegates to the provider. The returned text is used
// verbatim. Provider errors and timeouts degrade to the template path,
// so this never returns an error to the caller.
func (r *DelegateRecommender) Recommend(ctx context.Context, subject Subject, overall float64, scores map[domain.SourceKind]domain.Score) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt, err := buildRecommendationPrompt(subject, overall, scores)
	if err == nil {
		text, genErr := r.provider.Complete(ctx, prompt)
		if genErr == nil && text != "" {
			metrics.RecommenderCalls.WithLabelValues(r.provider.Name(), "success").Inc()
			return text, nil
		}
		if genErr != nil {
			r.log.Warnf("Generative recommendation failed for %s: %v", subject.Symbol, genErr)
		}
	}

	metrics.RecommenderCalls.WithLabelValues(r.provider.Name(), "fallback").Inc()
	return r.fallback.Recommend(ctx, subject, overall, scores)
}

func buildRecommendationPrompt(subject Subject, overall float64, scores map[domain.SourceKind]domain.Score) (string, error) {
	scoresJSON, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return "", err
	}

	name := subject.Name
	if name == "" {
		name = subject.Symbol
	}

	return fmt.Sprintf(`다음 데이터를 바탕으로 %s(%s) 주식에 대한 종합 분석을 제공하세요:

전체 감성 점수: %.2f

소스별 감성 분석 결과:
%s

다음 형식으로 답변해주세요:
1. 전체 시장 심리 요약 (1-2문장)
2. 주요 긍정 요인 (최대 3개)
3. 주요 위험 요인 (최대 3개)
4. 단기 전망 (1주일)
5. 투자자를 위한 조언 (1-2문장)

답변은 객관적이고 균형잡힌 시각으로 작성해주세요.`,
		name, subject.Symbol, overall, string(scoresJSON)), nil
}
