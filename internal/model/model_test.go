package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizedFallback(t *testing.T) {
	l := Localized{EN: "Politics", AM: "ፖለቲካ"}

	assert.Equal(t, "ፖለቲካ", l.Get("am"))
	assert.Equal(t, "Politics", l.Get("om"))
	assert.Equal(t, "Politics", l.Get("fr"))
	assert.Equal(t, "Politics", l.Get("en"))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.CanEdit())
	assert.True(t, RoleEditor.CanEdit())
	assert.False(t, RoleReader.CanEdit())
	assert.False(t, Role("owner").Valid())
	assert.True(t, RoleReader.Valid())
}

func TestStatuses(t *testing.T) {
	assert.True(t, ValidArticleStatus(ArticlePublished))
	assert.False(t, ValidArticleStatus("live"))
	assert.True(t, ValidSubmissionStatus(SubmissionRejected))
	assert.False(t, ValidSubmissionStatus(""))
}
