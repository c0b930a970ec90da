package github

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"

	"github.com/codetrail/aiscan/internal/errs"
)

func apiError(status int) error {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status},
		Message:  http.StatusText(status),
	}
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   errs.Kind
		wantIn string
	}{
		{"unauthorized", apiError(http.StatusUnauthorized), errs.AuthenticationFailure, "invalid GitHub token"},
		{"forbidden", apiError(http.StatusForbidden), errs.AuthorizationFailure, "lacks access"},
		{"not found", apiError(http.StatusNotFound), errs.NotFound, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err, `organization "acme"`)
			assert.True(t, errs.IsKind(got, tt.kind))
			assert.Contains(t, got.Error(), tt.wantIn)
		})
	}
}

func TestTranslateErrorRateLimits(t *testing.T) {
	primary := &github.RateLimitError{
		Rate:     github.Rate{Limit: 5000, Remaining: 0},
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  "API rate limit exceeded",
	}
	got := translateError(primary, `organization "acme"`)
	assert.True(t, errs.IsKind(got, errs.AuthorizationFailure))
	assert.Contains(t, got.Error(), "rate limit exceeded")

	secondary := &github.AbuseRateLimitError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  "You have exceeded a secondary rate limit",
	}
	got = translateError(secondary, `organization "acme"`)
	assert.True(t, errs.IsKind(got, errs.AuthorizationFailure))
	assert.Contains(t, got.Error(), "secondary rate limit")
}

func TestTranslateErrorPassThrough(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	got := translateError(cause, `organization "acme"`)
	assert.False(t, errs.IsKind(got, errs.AuthenticationFailure))
	assert.ErrorIs(t, got, cause)
}

func TestConvertRepos(t *testing.T) {
	name := "widget"
	full := "acme/widget"
	cloneURL := "https://github.com/acme/widget.git"
	branch := "main"
	lang := "Go"
	archived := true

	repos := convertRepos([]*github.Repository{{
		Name:          &name,
		FullName:      &full,
		CloneURL:      &cloneURL,
		DefaultBranch: &branch,
		Language:      &lang,
		Archived:      &archived,
	}})

	assert.Len(t, repos, 1)
	assert.Equal(t, "widget", repos[0].Name)
	assert.Equal(t, "acme/widget", repos[0].FullName)
	assert.Equal(t, "https://github.com/acme/widget.git", repos[0].CloneURL)
	assert.Equal(t, "main", repos[0].DefaultBranch)
	assert.Equal(t, "Go", repos[0].Language)
	assert.True(t, repos[0].Archived)
	assert.False(t, repos[0].Fork)
}

func TestResolveTokenPrefersConfig(t *testing.T) {
	assert.Equal(t, "from-config", ResolveToken("from-config"))
}
