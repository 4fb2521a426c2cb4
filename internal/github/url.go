package github

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	prURLRegex       = regexp.MustCompile(`^(?:https?://)?[^/]+/([^/]+)/([^/]+)/pull/(\d+)(?:/(?:files|commits))?$`)
	prShorthandRegex = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
)

// ParsePullRequestURL extracts the owner, repo and PR number from a pull request
// reference. Supported forms:
//
//	https://github.com/{owner}/{repo}/pull/{number}[/files|/commits]
//	{owner}/{repo}#{number}
func ParsePullRequestURL(ref string) (owner, repo string, prNumber int, err error) {
	ref = strings.TrimSuffix(strings.TrimSpace(ref), "/")

	matches := prURLRegex.FindStringSubmatch(ref)
	if matches == nil {
		matches = prShorthandRegex.FindStringSubmatch(ref)
	}
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid pull request URL format: %s", ref)
	}

	prNumber, err = strconv.Atoi(matches[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid PR number '%s': %w", matches[3], err)
	}
	if prNumber <= 0 {
		return "", "", 0, fmt.Errorf("invalid PR number '%s'", matches[3])
	}

	return matches[1], matches[2], prNumber, nil
}
