package newcase

import (
	"testing"

	"moderation-bot/model"

	"github.com/stretchr/testify/assert"
)

func TestFormValidate(t *testing.T) {
	t.Run("no action selected", func(t *testing.T) {
		form := &Form{}
		assert.ErrorIs(t, form.Validate(), ErrNoAction)
	})

	t.Run("timeout without duration", func(t *testing.T) {
		form := &Form{Action: model.ActionTimeout}
		assert.ErrorIs(t, form.Validate(), ErrNoDuration)
	})

	t.Run("timeout with duration", func(t *testing.T) {
		form := &Form{Action: model.ActionTimeout, Minutes: 10, HasDuration: true}
		assert.NoError(t, form.Validate())
	})

	t.Run("ban without duration is fine", func(t *testing.T) {
		form := &Form{Action: model.ActionBan}
		assert.NoError(t, form.Validate())
	})

	t.Run("warn", func(t *testing.T) {
		form := &Form{Action: model.ActionWarn}
		assert.NoError(t, form.Validate())
	})
}

func TestSelectionCanChangeBeforeSubmit(t *testing.T) {
	form := &Form{}
	form.Action = model.ActionKick
	form.Action = model.ActionBan
	assert.NoError(t, form.Validate())
	assert.Equal(t, model.ActionBan, form.Action)
}
