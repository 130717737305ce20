package pattern

import (
	"regexp"
)

type re2Matcher struct {
	re *regexp.Regexp
}

func compileRE2(src string) (*re2Matcher, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	return &re2Matcher{re: re}, nil
}

func (m *re2Matcher) find(subject string) ([]int, error) {
	return m.re.FindStringSubmatchIndex(subject), nil
}

func (m *re2Matcher) groupNames() []string {
	return m.re.SubexpNames()
}
