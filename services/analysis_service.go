package services

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"tendrilAPI/internal/ratelimit"
	"tendrilAPI/internal/rewrite"
	"tendrilAPI/internal/types/analysis"
)

const rewriteFailedMessage = "Unable to generate compassionate rewrite"

var negativeWords = []string{
	"lazy", "disgusting", "hate", "terrible", "awful", "horrible",
	"stupid", "idiot", "worthless", "useless", "pathetic", "failure",
	"disgusted", "sick", "nasty", "gross", "filthy", "dirty",
	"embarrassed", "ashamed", "guilty", "hopeless", "helpless",
	"weak", "broken", "damaged", "ruined", "destroyed", "messed up",
}

var negativePatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(negativeWords))
	for _, w := range negativeWords {
		patterns[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return patterns
}()

// FindNegativeWords returns the lexicon entries that appear in text as whole
// words, ignoring case, in alphabetical order.
func FindNegativeWords(text string) []string {
	found := []string{}
	if text == "" {
		return found
	}
	lower := strings.ToLower(text)
	for word, re := range negativePatterns {
		if re.MatchString(lower) {
			found = append(found, word)
		}
	}
	slices.Sort(found)
	return found
}

type AnalysisService struct {
	provider rewrite.Provider
	limiter  *ratelimit.Limiter
	window   time.Duration
	logger   *zap.Logger
}

func NewAnalysisService(provider rewrite.Provider, limiter *ratelimit.Limiter, window time.Duration, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		provider: provider,
		limiter:  limiter,
		window:   window,
		logger:   logger,
	}
}

// Limits reports the identity's remaining analysis quota.
func (s *AnalysisService) Limits(userID string) analysis.RateLimitInfo {
	return analysis.RateLimitInfo{
		RemainingRequests: s.limiter.Remaining(userID),
		MaxRequests:       s.limiter.Burst(),
		WindowSeconds:     int(s.window.Seconds()),
	}
}

// Analyze checks content for negative words and, when there are some, asks
// the provider for a kinder rewrite. A failed rewrite is reported in the
// result rather than as an error; only the rate limit fails the call.
func (s *AnalysisService) Analyze(ctx context.Context, userID, content string) (*analysis.Result, error) {
	if !s.limiter.Allow(userID) {
		return nil, ErrRateLimited
	}

	found := FindNegativeWords(content)
	result := &analysis.Result{
		ContainsNegativeWords: len(found) > 0,
		FoundWords:            found,
	}

	if result.ContainsNegativeWords {
		rewritten, err := rewrite.Compassionate(ctx, s.provider, content)
		if err != nil {
			rewriteRequests.WithLabelValues("failed").Inc()
			s.logger.Warn("compassionate rewrite failed",
				zap.String("provider", s.provider.ID()),
				zap.Strings("found_words", found),
				zap.Error(err),
			)
			msg := rewriteFailedMessage
			result.Error = &msg
		} else {
			rewriteRequests.WithLabelValues("rewritten").Inc()
			result.SuggestionAvailable = true
			result.RewrittenText = &rewritten
		}
	}

	limits := s.Limits(userID)
	result.RateLimit = &limits
	return result, nil
}
