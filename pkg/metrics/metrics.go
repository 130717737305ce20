package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type CodeGroup struct {
	Name       string
	LowerBound int
	UpperBound int
}

var (
	CodeGroup2xx = CodeGroup{
		Name:       "2xx",
		LowerBound: 200,
		UpperBound: 299,
	}
	CodeGroup3xx = CodeGroup{
		Name:       "3xx",
		LowerBound: 300,
		UpperBound: 399,
	}
	CodeGroup4xx = CodeGroup{
		Name:       "4xx",
		LowerBound: 400,
		UpperBound: 499,
	}
	CodeGroup5xx = CodeGroup{
		Name:       "5xx",
		LowerBound: 500,
		UpperBound: 599,
	}
	CodeGroupOthers = CodeGroup{
		Name:       "xxx",
		LowerBound: 999,
		UpperBound: 999,
	}

	CodeGroups = []CodeGroup{
		CodeGroup2xx,
		CodeGroup3xx,
		CodeGroup4xx,
		CodeGroup5xx,
	}
)

// CodeGroupFor returns the group an HTTP status code falls into
func CodeGroupFor(code int) CodeGroup {
	for _, group := range CodeGroups {
		if code >= group.LowerBound && code <= group.UpperBound {
			return group
		}
	}
	return CodeGroupOthers
}

// match outcomes
const (
	OutcomeMatched = "matched"
	OutcomeNoMatch = "no_match"
	OutcomeTimeout = "timeout"
)

// compile results
const (
	CompileOK      = "ok"
	CompileInvalid = "invalid"
)

var (
	PatternCompileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "addrmatch_pattern_compile_total",
		Help: "Total number of pattern compilations by engine and result",
	}, []string{
		"engine",
		"result",
	})

	MatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "addrmatch_match_total",
		Help: "Total number of match attempts per rule and outcome",
	}, []string{
		"rule",
		"outcome",
	})

	MatchDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "addrmatch_match_duration_seconds",
		Help:    "Time spent in a single match attempt",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
	}, []string{
		"engine",
	})

	ExtractErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "addrmatch_extract_errors_total",
		Help: "Total number of failed capture extractions per rule",
	}, []string{
		"rule",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "addrmatch_http_requests_total",
		Help: "Total number of HTTP requests per path and status code group",
	}, []string{
		"path",
		"code_group",
	})
)
